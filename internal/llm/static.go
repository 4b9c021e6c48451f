package llm

import (
	"context"
	"strings"
)

// StaticProvider is a deterministic offline responder. It recognizes the
// prompt family by well-known German markers and returns fixed, usable text
// for each, so the full interview pipeline can run without a reachable model.
// It is capability-equivalent to a real provider, not content-equivalent.
type StaticProvider struct{}

// NewStaticProvider creates a new static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) Name() string {
	return "static"
}

const (
	staticQuestion = "Wie sieht ein typischer Arbeitstag in Ihrem Unternehmen aus, und mit welchen Informationen oder Systemen arbeiten Sie dabei?"

	staticContent = "In Ihrem Arbeitsalltag gehen Sie täglich mit vertraulichen Informationen um. " +
		"Achten Sie darauf, E-Mails von unbekannten Absendern kritisch zu prüfen, bevor Sie Anhänge öffnen oder Links anklicken. " +
		"Sperren Sie Ihren Bildschirm, wenn Sie Ihren Arbeitsplatz verlassen, und geben Sie Zugangsdaten niemals weiter. " +
		"Wenn Ihnen etwas ungewöhnlich vorkommt, fragen Sie lieber einmal zu viel nach als einmal zu wenig."

	staticKeyTerms = "E-Mail-Kommunikation\nUmgang mit vertraulichen Daten\nZugriffsschutz am Arbeitsplatz\nVerdächtige Nachrichten erkennen\nMeldewege bei Vorfällen"
)

func (p *StaticProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var prompt string
	for _, msg := range req.Messages {
		prompt += msg.Content + "\n"
	}

	content := p.respond(prompt)
	return &CompletionResponse{
		Content:      content,
		Model:        "static",
		FinishReason: "stop",
	}, nil
}

// respond picks the canned answer matching the prompt family.
func (p *StaticProvider) respond(prompt string) string {
	switch {
	case strings.Contains(prompt, "KEINE_PROBLEME"):
		// Validation prompt: report the all-clear sentinel.
		return "KEINE_PROBLEME"
	case strings.Contains(prompt, "Schlüsselbegriffen"):
		return staticKeyTerms
	case strings.Contains(prompt, "Überarbeite den folgenden"):
		// Correction prompt: hand the original text back unchanged.
		if original, ok := extractBetween(prompt, "Originaltext:", "Feedback zur Überarbeitung:"); ok {
			return original
		}
		return staticContent
	case strings.Contains(prompt, "Formuliere eine freundliche"):
		return staticQuestion
	default:
		return staticContent
	}
}

func extractBetween(s, start, end string) (string, bool) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", false
	}
	s = s[i+len(start):]
	j := strings.Index(s, end)
	if j < 0 {
		return "", false
	}
	out := strings.TrimSpace(s[:j])
	if out == "" {
		return "", false
	}
	return out, true
}
