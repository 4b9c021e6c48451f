// Package format normalizes accepted section content into the structural
// shape each section type expects. All rules are idempotent: applying the
// formatter to already-conformant text leaves it unchanged.
package format

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rule is one structural normalization step for a section type.
type Rule struct {
	Name       string
	Conformant func(content string) bool
	Apply      func(content string) string
}

const narrativeOpener = "Stellen Sie sich eine typische Situation aus Ihrem Arbeitsalltag vor: "

var narrativeCues = []string{
	"Stellen Sie sich",
	"Ein typischer",
	"Stell dir vor",
}

const consequencesBlock = "Mögliche Folgen im Überblick:\n" +
	"- Betriebsunterbrechungen und Ausfall wichtiger Systeme\n" +
	"- finanzielle Schäden und Wiederherstellungskosten\n" +
	"- Verlust von Vertrauen bei Kundinnen, Kunden und Partnern\n" +
	"- rechtliche und regulatorische Konsequenzen"

const escalationNote = "Melden Sie sicherheitsrelevante Vorfälle umgehend Ihrer IT-Abteilung " +
	"oder Ihren Vorgesetzten, damit Gegenmaßnahmen eingeleitet und weitere Betroffene " +
	"informiert werden können."

const supplementMarker = "Gut zu wissen:"

// supplementFacts is the pool of optional closing facts.
var supplementFacts = []string{
	"Die meisten erfolgreichen Angriffe beginnen mit einer einzigen unbedachten E-Mail.",
	"Ein gesperrter Bildschirm kostet Sie zwei Sekunden, ein offener im Zweifel Tage.",
	"Angreifer nutzen öffentlich verfügbare Informationen, um Nachrichten glaubwürdig wirken zu lassen.",
	"Wer nachfragt, bevor er klickt, verhindert die Mehrzahl aller Vorfälle.",
}

var (
	bulletLine   = regexp.MustCompile(`(?m)^\s*[-•*] `)
	numberedLine = regexp.MustCompile(`(?m)^\s*\d+\. `)
)

// rulesByType maps each section type to its ordered rule set. Types without
// an entry (e.g. tactic_justification) only get the optional supplement.
var rulesByType = map[string][]Rule{
	"threat_awareness": {
		{
			Name:       "narrative_opener",
			Conformant: hasNarrativeOpener,
			Apply: func(content string) string {
				return narrativeOpener + content
			},
		},
	},
	"threat_identification": {
		{
			Name:       "bullet_list",
			Conformant: func(content string) bool { return bulletLine.MatchString(content) },
			Apply:      toBulletList,
		},
	},
	"threat_impact_assessment": {
		{
			Name: "consequences",
			Conformant: func(content string) bool {
				return strings.Contains(content, "Mögliche Folgen") || strings.Contains(content, "Konsequenzen")
			},
			Apply: func(content string) string {
				return content + "\n\n" + consequencesBlock
			},
		},
	},
	"tactic_choice": {
		{
			Name:       "numbered_options",
			Conformant: hasEnumeration,
			Apply:      toNumberedList,
		},
	},
	"tactic_mastery": {
		{
			Name:       "numbered_steps",
			Conformant: hasEnumeration,
			Apply:      toNumberedList,
		},
	},
	"tactic_check_follow_up": {
		{
			Name: "escalation_note",
			Conformant: func(content string) bool {
				return strings.Contains(strings.ToLower(content), "melden")
			},
			Apply: func(content string) string {
				return content + "\n\n" + escalationNote
			},
		},
	},
}

// Formatter applies the per-type rule set plus a probabilistic supplement.
type Formatter struct {
	mu             sync.Mutex
	rng            *rand.Rand
	supplementProb float64
}

// New creates a formatter with a time-seeded RNG and the default supplement
// probability.
func New() *Formatter {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), 0.4)
}

// NewWithRand creates a formatter with an injected RNG, for deterministic
// tests.
func NewWithRand(rng *rand.Rand, supplementProb float64) *Formatter {
	return &Formatter{rng: rng, supplementProb: supplementProb}
}

// Format normalizes content for the given section type.
func (f *Formatter) Format(sectionType, content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return content
	}

	for _, rule := range rulesByType[sectionType] {
		if !rule.Conformant(content) {
			content = rule.Apply(content)
		}
	}

	if !strings.Contains(content, supplementMarker) && f.roll() {
		content += "\n\n" + supplementMarker + " " + f.pickFact()
	}

	return content
}

func (f *Formatter) roll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Float64() < f.supplementProb
}

func (f *Formatter) pickFact() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return supplementFacts[f.rng.Intn(len(supplementFacts))]
}

func hasNarrativeOpener(content string) bool {
	for _, cue := range narrativeCues {
		if strings.HasPrefix(content, cue) {
			return true
		}
	}
	return false
}

func hasEnumeration(content string) bool {
	return numberedLine.MatchString(content) || bulletLine.MatchString(content)
}

// toBulletList keeps the first sentence as a lead-in and turns the remaining
// sentences into bullet points.
func toBulletList(content string) string {
	sents := sentences(content)
	if len(sents) < 2 {
		return "- " + content
	}

	var sb strings.Builder
	sb.WriteString(sents[0])
	sb.WriteString("\n")
	for _, s := range sents[1:] {
		sb.WriteString("\n- ")
		sb.WriteString(s)
	}
	return sb.String()
}

// toNumberedList keeps the first sentence as a lead-in and numbers the
// remaining sentences as steps.
func toNumberedList(content string) string {
	sents := sentences(content)
	if len(sents) < 2 {
		return "1. " + content
	}

	var sb strings.Builder
	sb.WriteString(sents[0])
	sb.WriteString("\n")
	for i, s := range sents[1:] {
		sb.WriteString("\n")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(s)
	}
	return sb.String()
}

// sentences splits text at sentence-ending punctuation followed by
// whitespace, keeping the punctuation with the sentence.
func sentences(text string) []string {
	var out []string
	var cur strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		cur.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') &&
			(i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n') {
			if s := strings.TrimSpace(cur.String()); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}
