// Package generation turns dialog state and retrieval context into German
// course text via an LLM provider. Every method returns usable text even when
// it also returns an error: the error only reports that a deterministic
// fallback was substituted, so callers can count degradations without
// handling them.
package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/skriptgen/skriptgen/internal/llm"
)

// ValidationOutcome is the result of a content validation pass.
type ValidationOutcome struct {
	HasIssues       bool
	Feedback        string
	AcceptedContent string
}

// Generator produces questions, section content and validation verdicts.
type Generator struct {
	provider    llm.Provider
	model       string
	maxTokens   int
	temperature float64
}

// Options tune the completion requests a Generator sends.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewGenerator creates a generator on top of the given provider.
func NewGenerator(provider llm.Provider, opts Options) *Generator {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 2048
	}
	return &Generator{
		provider:    provider,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

// complete is the single point where provider responses are coerced into
// text. An empty or whitespace-only completion counts as unavailable.
func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", llm.ErrUnavailable)
	}
	return text, nil
}

// GenerateQuestion produces the interview question for a section. On provider
// failure it returns the generic fallback question plus the error.
func (g *Generator) GenerateQuestion(ctx context.Context, sectionTitle, sectionDescription, contextText, organization, audience string) (string, error) {
	text, err := g.complete(ctx, questionPrompt(sectionTitle, sectionDescription, contextText, organization, audience))
	if err != nil {
		return fmt.Sprintf("Können Sie mir etwas über %s in Ihrem Unternehmen erzählen?", sectionTitle), err
	}
	return text, nil
}

// GenerateContent produces section content from the user's answer. On
// provider failure it returns a short organization-specific placeholder plus
// the error.
func (g *Generator) GenerateContent(ctx context.Context, sectionTitle, sectionDescription, userResponse, organization, audience, duration, contextText string) (string, error) {
	text, err := g.complete(ctx, contentPrompt(sectionTitle, sectionDescription, userResponse, organization, audience, duration, contextText))
	if err != nil {
		fallback := fmt.Sprintf(
			"Informationssicherheit ist für %s von zentraler Bedeutung. "+
				"Achten Sie in Ihrem Arbeitsalltag auf einen sorgfältigen Umgang mit vertraulichen Informationen "+
				"und melden Sie Auffälligkeiten umgehend.",
			organization)
		return fallback, err
	}
	return text, nil
}

// CheckHallucinations validates content against the user input and retrieval
// context. A validation failure never blocks the pipeline: on provider error
// the content is accepted as-is but flagged so the caller can record the
// degradation.
func (g *Generator) CheckHallucinations(ctx context.Context, content, userInput, contextText string) (ValidationOutcome, error) {
	verdict, err := g.complete(ctx, hallucinationCheckPrompt(content, userInput, contextText))
	if err != nil {
		return ValidationOutcome{HasIssues: true, AcceptedContent: content}, err
	}
	if strings.Contains(verdict, "KEINE_PROBLEME") {
		return ValidationOutcome{HasIssues: false, AcceptedContent: content}, nil
	}
	return ValidationOutcome{HasIssues: true, Feedback: verdict, AcceptedContent: content}, nil
}

// GenerateContentWithCorrections rewrites content per validation feedback.
// On provider failure the original content is returned unchanged.
func (g *Generator) GenerateContentWithCorrections(ctx context.Context, originalContent, feedback string) (string, error) {
	text, err := g.complete(ctx, correctionPrompt(originalContent, feedback))
	if err != nil {
		return originalContent, err
	}
	return text, nil
}

// ExtractKeyInformation turns a user answer into search phrases for
// retrieval. The result is capped at 8 phrases; on provider failure it is
// empty but never nil.
func (g *Generator) ExtractKeyInformation(ctx context.Context, sectionType, userResponse string) ([]string, error) {
	text, err := g.complete(ctx, keyInfoExtractionPrompt(sectionType, userResponse))
	if err != nil {
		return []string{}, err
	}

	var phrases []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-•* ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
		if len(phrases) == 8 {
			break
		}
	}
	if phrases == nil {
		phrases = []string{}
	}
	return phrases, nil
}
