package generation

import (
	"regexp"
	"strings"
)

// PatternMatch is one occurrence of a hallucination indicator, with up to 40
// characters of surrounding text.
type PatternMatch struct {
	Pattern string `json:"pattern"`
	Context string `json:"context"`
}

// HeuristicReport summarizes an offline pattern scan of generated content.
// The confidence score starts at 1.0 and drops by 0.05 per match, floored at
// 0.1.
type HeuristicReport struct {
	DetectedPatterns   map[string][]PatternMatch `json:"detected_patterns"`
	ConfidenceScore    float64                   `json:"confidence_score"`
	SuspiciousSections []string                  `json:"suspicious_sections"`
}

type patternCategory struct {
	name     string
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Categories are scanned in a fixed order so reports are deterministic.
var heuristicCategories = []patternCategory{
	{
		name: "Unsicherheit",
		patterns: compileAll(
			`könnte sein`, `möglicherweise`, `eventuell`, `vielleicht`,
			`unter umständen`, `es ist denkbar`, `in der regel`,
		),
	},
	{
		name: "Widersprüche",
		patterns: compileAll(
			`einerseits.*andererseits`, `jedoch`, `allerdings`,
			`im gegensatz dazu`, `wiederum`,
		),
	},
	{
		name: "Vage Aussagen",
		patterns: compileAll(
			`irgendwie`, `gewissermaßen`, `im großen und ganzen`,
			`im allgemeinen`, `mehr oder weniger`,
		),
	},
}

// AnalyzeContent scans content for wording that typically accompanies
// fabricated or hedged statements. It needs no model call and is safe to run
// on every accepted section.
func AnalyzeContent(content string) HeuristicReport {
	report := HeuristicReport{
		DetectedPatterns:   map[string][]PatternMatch{},
		ConfidenceScore:    1.0,
		SuspiciousSections: []string{},
	}

	lower := strings.ToLower(content)
	runes := []rune(lower)

	for _, cat := range heuristicCategories {
		var matches []PatternMatch
		for _, re := range cat.patterns {
			for _, loc := range re.FindAllStringIndex(lower, -1) {
				start := len([]rune(lower[:loc[0]]))
				end := len([]rune(lower[:loc[1]]))
				ctxStart := start - 40
				if ctxStart < 0 {
					ctxStart = 0
				}
				ctxEnd := end + 40
				if ctxEnd > len(runes) {
					ctxEnd = len(runes)
				}
				context := string(runes[ctxStart:ctxEnd])

				matches = append(matches, PatternMatch{
					Pattern: re.String(),
					Context: context,
				})
				report.SuspiciousSections = append(report.SuspiciousSections, context)

				report.ConfidenceScore -= 0.05
				if report.ConfidenceScore < 0.1 {
					report.ConfidenceScore = 0.1
				}
			}
		}
		if len(matches) > 0 {
			report.DetectedPatterns[cat.name] = matches
		}
	}

	return report
}
