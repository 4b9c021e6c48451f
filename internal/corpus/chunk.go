package corpus

import (
	"fmt"
	"strings"

	"github.com/skriptgen/skriptgen/internal/vectordb"
)

// separators are tried in order when splitting oversized text: paragraph
// breaks first, then lines, sentences, words, and finally hard cuts.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits corpus files into overlapping passages for indexing.
type Chunker struct {
	Size    int // maximum chunk length in runes
	Overlap int // runes carried over from the previous chunk
}

// NewChunker creates a chunker. Non-positive values fall back to 1000/200.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 200
	}
	return &Chunker{Size: size, Overlap: overlap}
}

// Chunk converts loaded files into vector store documents, one per passage,
// carrying over the file metadata and adding chunk ids. Template files also
// get a section-type tag derived from their content.
func (c *Chunker) Chunk(files []File) []vectordb.Document {
	var docs []vectordb.Document

	for _, f := range files {
		chunks := c.splitText(f.Content)
		for i, chunk := range chunks {
			md := vectordb.DocumentMetadata{
				Source:     f.Path,
				FileName:   f.Name,
				DocType:    f.DocType,
				ChunkID:    i,
				ChunkTotal: len(chunks),
			}
			if f.DocType == vectordb.DocTypeTemplate {
				md.SectionType = ExtractSectionType(chunk)
			}
			docs = append(docs, vectordb.Document{
				ID:       fmt.Sprintf("%s#%d", f.Path, i),
				Content:  chunk,
				Metadata: md,
			})
		}
	}

	return docs
}

// splitText splits text into chunks of at most Size runes, preferring the
// coarsest separator that keeps segments intact.
func (c *Chunker) splitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return c.split(text, separators)
}

func (c *Chunker) split(text string, seps []string) []string {
	if runeLen(text) <= c.Size {
		return []string{text}
	}
	if len(seps) == 0 || seps[0] == "" {
		return c.hardCut(text)
	}

	parts := strings.SplitAfter(text, seps[0])

	var chunks []string
	var cur strings.Builder
	var seed string

	flush := func() {
		chunk := strings.TrimSpace(cur.String())
		cur.Reset()
		if chunk == "" {
			return
		}
		chunks = append(chunks, chunk)
		// Seed the next chunk with the tail of this one.
		if c.Overlap > 0 {
			seed = runeSuffix(chunk, c.Overlap)
			cur.WriteString(seed)
		}
	}

	for _, part := range parts {
		if runeLen(part) > c.Size {
			flush()
			cur.Reset()
			chunks = append(chunks, c.split(part, seps[1:])...)
			continue
		}
		if cur.Len() > 0 && runeLen(cur.String())+runeLen(part) > c.Size {
			flush()
		}
		cur.WriteString(part)
	}
	// A remainder consisting only of the overlap seed carries no new text.
	if chunk := strings.TrimSpace(cur.String()); chunk != "" && chunk != strings.TrimSpace(seed) {
		chunks = append(chunks, chunk)
	}

	return chunks
}

func (c *Chunker) hardCut(text string) []string {
	runes := []rune(text)
	step := c.Size - c.Overlap
	if step <= 0 {
		step = c.Size
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}

func runeSuffix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// sectionTypeMarkers maps content keywords to training section types,
// checked in order. The specific section names come first, generic
// didactic vocabulary serves as a fallback.
var sectionTypeMarkers = []struct {
	keywords    []string
	sectionType string
}{
	{[]string{"threat awareness", "bedrohungsbewusstsein"}, "threat_awareness"},
	{[]string{"threat identification", "bedrohungserkennung"}, "threat_identification"},
	{[]string{"threat impact assessment", "bedrohungsausmaß"}, "threat_impact_assessment"},
	{[]string{"tactic choice", "taktische maßnahmenauswahl"}, "tactic_choice"},
	{[]string{"tactic justification", "maßnahmenrechtfertigung"}, "tactic_justification"},
	{[]string{"tactic mastery", "maßnahmenbeherrschung"}, "tactic_mastery"},
	{[]string{"tactic check", "follow-up", "anschlusshandlungen"}, "tactic_check_follow_up"},
	{[]string{"lernziel", "learning objective"}, "learning_objectives"},
	{[]string{"bedrohung", "threat", "risiko", "risk"}, "threats"},
	{[]string{"maßnahme", "control", "schutz", "protection"}, "controls"},
	{[]string{"prozess", "process", "workflow", "ablauf"}, "process"},
}

// ExtractSectionType guesses the training section a template chunk belongs
// to. Returns "" if no marker matches.
func ExtractSectionType(content string) string {
	lower := strings.ToLower(content)
	for _, m := range sectionTypeMarkers {
		for _, kw := range m.keywords {
			if strings.Contains(lower, kw) {
				return m.sectionType
			}
		}
	}
	return ""
}
