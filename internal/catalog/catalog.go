// Package catalog holds the static structure of the training script: the
// ordered section list, the fixed context questions, and the assembly of
// accepted content into a complete script.
package catalog

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixed context questions asked before any section dialog begins. Their text
// doubles as the key under which the answer is stored.
const (
	QuestionOrganization = "Für welche Art von Organisation erstellen wir den E-Learning-Kurs (z.B. Krankenhaus, Bank, Behörde)?"
	QuestionAudience     = "Welche Mitarbeitergruppen sollen geschult werden?"
)

// ContextQuestions returns the context questions in asking order.
func ContextQuestions() []string {
	return []string{QuestionOrganization, QuestionAudience}
}

// Section is one named unit of the training script.
type Section struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Content     string `json:"content,omitempty" yaml:"content,omitempty"`
}

// Catalog is the ordered section template for the script.
type Catalog struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Script is the fully assembled training document.
type Script struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Organization string    `json:"organization,omitempty"`
	Audience     string    `json:"audience,omitempty"`
	Sections     []Section `json:"sections"`
}

// Default returns the built-in catalog following the seven-step security
// training structure.
func Default() *Catalog {
	return &Catalog{
		Title:       "E-Learning-Kurs zur Informationssicherheit",
		Description: "Ein maßgeschneiderter Kurs zur Stärkung des Sicherheitsbewusstseins",
		Sections: []Section{
			{
				ID:          "threat_awareness",
				Title:       "Threat Awareness",
				Description: "Bedrohungsbewusstsein: Kontext und Ausgangssituationen, in denen Gefahren auftreten können",
				Type:        "threat_awareness",
			},
			{
				ID:          "threat_identification",
				Title:       "Threat Identification",
				Description: "Bedrohungserkennung: Merkmale und Erkennungshinweise für potenzielle Gefahren",
				Type:        "threat_identification",
			},
			{
				ID:          "threat_impact_assessment",
				Title:       "Threat Impact Assessment",
				Description: "Bedrohungsausmaß: Konsequenzen, die aus der Bedrohung entstehen können",
				Type:        "threat_impact_assessment",
			},
			{
				ID:          "tactic_choice",
				Title:       "Tactic Choice",
				Description: "Taktische Maßnahmenauswahl: Handlungsoptionen zur Bedrohungsabwehr",
				Type:        "tactic_choice",
			},
			{
				ID:          "tactic_justification",
				Title:       "Tactic Justification",
				Description: "Maßnahmenrechtfertigung: Begründung für die gewählten Maßnahmen",
				Type:        "tactic_justification",
			},
			{
				ID:          "tactic_mastery",
				Title:       "Tactic Mastery",
				Description: "Maßnahmenbeherrschung: Konkrete Schritte zur Umsetzung der gewählten Handlungen",
				Type:        "tactic_mastery",
			},
			{
				ID:          "tactic_check_follow_up",
				Title:       "Tactic Check & Follow-Up",
				Description: "Anschlusshandlungen: Schritte nach der Ausführung der Maßnahmen",
				Type:        "tactic_check_follow_up",
			},
		},
	}
}

// Load reads a catalog from a YAML file. An empty path or any load error
// falls back to the built-in default.
func Load(path string) *Catalog {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("catalog: error loading %s, using default: %v", path, err)
		return Default()
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		log.Printf("catalog: error parsing %s, using default: %v", path, err)
		return Default()
	}
	if len(c.Sections) == 0 {
		log.Printf("catalog: %s contains no sections, using default", path)
		return Default()
	}

	log.Printf("catalog: loaded %d sections from %s", len(c.Sections), path)
	return &c
}

// SectionByID returns the section with the given id.
func (c *Catalog) SectionByID(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// NextSection returns the first section, in catalog order, whose id is not in
// completed.
func (c *Catalog) NextSection(completed []string) (Section, bool) {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	for _, s := range c.Sections {
		if !done[s.ID] {
			return s, true
		}
	}
	return Section{}, false
}

// Assemble builds a script from accepted section content and the collected
// context answers. It operates on a copy; the catalog itself is never
// mutated. Sections without stored content stay content-free.
func (c *Catalog) Assemble(sectionResponses map[string]string, contextInfo map[string]string) Script {
	organization := contextInfo[QuestionOrganization]
	audience := contextInfo[QuestionAudience]

	script := Script{
		Title:        c.Title,
		Description:  c.Description,
		Organization: organization,
		Audience:     audience,
		Sections:     make([]Section, len(c.Sections)),
	}
	copy(script.Sections, c.Sections)

	if organization != "" {
		script.Title = fmt.Sprintf("Skript „Umgang mit Informationssicherheit für %s“", organization)
		script.Description = fmt.Sprintf(
			"Willkommen zum Trainingsmodul, in dem Sie lernen, wie Beschäftigte in %s mit Informationssicherheit umgehen.",
			organization)
	}

	for i := range script.Sections {
		if content, ok := sectionResponses[script.Sections[i].ID]; ok {
			script.Sections[i].Content = content
		}
	}

	return script
}
