// Package dialog implements the conversation state machine that interviews a
// user and produces the training script section by section. Each Controller
// owns one conversation; callers must serialize access to it, while the
// injected generator, retriever and catalog are shared and safe for
// concurrent use.
package dialog

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/skriptgen/skriptgen/internal/catalog"
	"github.com/skriptgen/skriptgen/internal/format"
	"github.com/skriptgen/skriptgen/internal/generation"
	"github.com/skriptgen/skriptgen/internal/vectordb"
)

// CompletionMessage is returned once every section is accepted. Transport
// layers match on its prefix to detect that the script is ready.
const CompletionMessage = "Hier ist der entworfene E-Learning-Kurs. Sie können das Skript jetzt speichern oder sich eine Vorschau ansehen."

// Generator is the slice of the generation capability the controller needs.
type Generator interface {
	GenerateQuestion(ctx context.Context, sectionTitle, sectionDescription, contextText, organization, audience string) (string, error)
	GenerateContent(ctx context.Context, sectionTitle, sectionDescription, userResponse, organization, audience, duration, contextText string) (string, error)
	CheckHallucinations(ctx context.Context, content, userInput, contextText string) (generation.ValidationOutcome, error)
	GenerateContentWithCorrections(ctx context.Context, originalContent, feedback string) (string, error)
	ExtractKeyInformation(ctx context.Context, sectionType, userResponse string) ([]string, error)
}

// Retriever supplies grounding passages for question and content prompts.
type Retriever interface {
	RetrieveMulti(ctx context.Context, queries []string, topKPerQuery int) ([]vectordb.Document, error)
}

// Options configure a Controller.
type Options struct {
	Catalog   *catalog.Catalog
	Generator Generator
	Retriever Retriever
	Formatter *format.Formatter

	// Duration is the target course length passed into content prompts,
	// e.g. "30-45 Minuten".
	Duration string

	// TopKPerQuery bounds retrieval per query. Defaults to 5.
	TopKPerQuery int
}

// maxContextTextLen bounds the retrieval context embedded in content prompts.
const maxContextTextLen = 2000

// Controller drives one conversation from the first context question to the
// finished script.
type Controller struct {
	catalog   *catalog.Catalog
	generator Generator
	retriever Retriever
	formatter *format.Formatter
	duration  string
	topK      int

	state *State
}

// NewController creates a controller with fresh conversation state.
func NewController(opts Options) *Controller {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Formatter == nil {
		opts.Formatter = format.New()
	}
	if opts.TopKPerQuery <= 0 {
		opts.TopKPerQuery = 5
	}
	return &Controller{
		catalog:   opts.Catalog,
		generator: opts.Generator,
		retriever: opts.Retriever,
		formatter: opts.Formatter,
		duration:  opts.Duration,
		topK:      opts.TopKPerQuery,
		state:     newState(),
	}
}

// State returns the conversation state for inspection. Callers must not
// mutate it.
func (c *Controller) State() *State {
	return c.state
}

// Organization returns the answer to the organization context question, if
// given.
func (c *Controller) Organization() string {
	return c.state.ContextInfo[catalog.QuestionOrganization]
}

// Audience returns the answer to the audience context question, if given.
func (c *Controller) Audience() string {
	return c.state.ContextInfo[catalog.QuestionAudience]
}

// Done reports whether every section has been completed.
func (c *Controller) Done() bool {
	return c.state.Step == StepDone
}

// Reset discards the conversation state. The injected collaborators are
// kept.
func (c *Controller) Reset() {
	c.state = newState()
}

// GetNextQuestion returns the next thing to ask the user. It always returns
// non-empty text: context questions in fixed order first, then one generated
// question per pending section, then the completion message.
func (c *Controller) GetNextQuestion(ctx context.Context) string {
	switch c.state.Step {
	case StepContextGathering:
		for _, q := range catalog.ContextQuestions() {
			if _, answered := c.state.ContextInfo[q]; !answered {
				c.state.pendingContextQuestion = q
				return q
			}
		}
		// All context collected, move on to the first section.
		return c.nextSectionQuestion(ctx)
	case StepSectionQuestion:
		if section, ok := c.catalog.SectionByID(c.state.CurrentSection); ok {
			return c.askSectionQuestion(ctx, section)
		}
		return c.nextSectionQuestion(ctx)
	case StepDone:
		return CompletionMessage
	default:
		return c.nextSectionQuestion(ctx)
	}
}

// ProcessUserResponse consumes one user turn and returns the next question
// or, once the last section is accepted, the completion message. It never
// returns an error: upstream failures degrade content but the conversation
// always moves forward.
func (c *Controller) ProcessUserResponse(ctx context.Context, input string) string {
	input = strings.TrimSpace(input)

	switch c.state.Step {
	case StepContextGathering:
		question := c.state.pendingContextQuestion
		if question == "" {
			for _, q := range catalog.ContextQuestions() {
				if _, answered := c.state.ContextInfo[q]; !answered {
					question = q
					break
				}
			}
		}
		if question != "" {
			c.state.ContextInfo[question] = input
			c.state.pendingContextQuestion = ""
		}
		return c.GetNextQuestion(ctx)

	case StepSectionQuestion:
		section, ok := c.catalog.SectionByID(c.state.CurrentSection)
		if !ok {
			return c.nextSectionQuestion(ctx)
		}
		c.completeSection(ctx, section, input)
		return c.nextSectionQuestion(ctx)

	case StepDone:
		return CompletionMessage

	default:
		return c.nextSectionQuestion(ctx)
	}
}

// nextSectionQuestion advances to the first incomplete section, or to DONE
// when none remain.
func (c *Controller) nextSectionQuestion(ctx context.Context) string {
	section, ok := c.catalog.NextSection(c.state.CompletedSections)
	if !ok {
		c.state.Step = StepDone
		c.state.CurrentSection = ""
		return CompletionMessage
	}
	return c.askSectionQuestion(ctx, section)
}

// askSectionQuestion retrieves grounding context for a section and generates
// its interview question.
func (c *Controller) askSectionQuestion(ctx context.Context, section catalog.Section) string {
	c.state.Step = StepSectionQuestion
	c.state.CurrentSection = section.ID
	c.state.CurrentSectionQuestionCount++

	query := section.Title + " " + section.Description
	if org := c.Organization(); org != "" {
		query += " " + org
	}
	contextText := c.retrieveContext(ctx, []string{query})

	question, err := c.generator.GenerateQuestion(ctx,
		section.Title, section.Description, contextText, c.Organization(), c.Audience())
	if err != nil {
		c.state.QuestionErrorCount++
		log.Printf("dialog: question generation for %s fell back: %v", section.ID, err)
	}
	return question
}

// completeSection runs the full accept path for one section answer:
// key-term extraction, retrieval, content generation, validation with at
// most one correction, formatting, and state update.
func (c *Controller) completeSection(ctx context.Context, section catalog.Section, answer string) {
	queries, err := c.generator.ExtractKeyInformation(ctx, section.Type, answer)
	if err != nil {
		c.state.QuestionErrorCount++
		log.Printf("dialog: key extraction for %s fell back: %v", section.ID, err)
	}
	if len(queries) == 0 {
		queries = []string{section.Title + " " + c.Organization()}
	}
	contextText := c.retrieveContext(ctx, queries)

	content, err := c.generator.GenerateContent(ctx,
		section.Title, section.Description, answer,
		c.Organization(), c.Audience(), c.duration, contextText)
	if err != nil {
		c.state.QuestionErrorCount++
		log.Printf("dialog: content generation for %s fell back: %v", section.ID, err)
	}

	c.state.Step = StepSectionValidation
	outcome, err := c.generator.CheckHallucinations(ctx, content, answer, contextText)
	if err != nil {
		c.state.QuestionErrorCount++
		log.Printf("dialog: validation for %s unavailable, accepting content: %v", section.ID, err)
	}

	// One correction attempt at most, then the content is accepted
	// regardless so the conversation always terminates.
	if outcome.HasIssues && outcome.Feedback != "" {
		corrected, err := c.generator.GenerateContentWithCorrections(ctx, content, outcome.Feedback)
		if err != nil {
			c.state.QuestionErrorCount++
			log.Printf("dialog: correction for %s fell back: %v", section.ID, err)
		}
		content = corrected
		outcome.AcceptedContent = content
	}
	c.state.ContentQualityChecks[section.ID] = outcome

	content = c.formatter.Format(section.Type, content)
	if content == "" {
		content = fmt.Sprintf("Hinweise zur Informationssicherheit für den Bereich %s.", section.Title)
	}

	c.state.SectionResponses[section.ID] = content
	c.state.CompletedSections = append(c.state.CompletedSections, section.ID)
	c.state.CurrentSection = ""
	c.state.CurrentSectionQuestionCount = 0
	c.state.Step = StepSectionComplete
}

// retrieveContext issues the queries and flattens the deduplicated passages
// into prompt context. Retrieval failures degrade to an empty context.
func (c *Controller) retrieveContext(ctx context.Context, queries []string) string {
	if c.retriever == nil {
		return ""
	}
	docs, err := c.retriever.RetrieveMulti(ctx, queries, c.topK)
	if err != nil {
		log.Printf("dialog: retrieval failed, continuing without context: %v", err)
		return ""
	}
	return vectordb.ContextText(docs, maxContextTextLen)
}

// GenerateScript assembles the final script. It may only be called once the
// conversation has reached DONE.
func (c *Controller) GenerateScript() (catalog.Script, error) {
	if c.state.Step != StepDone {
		return catalog.Script{}, fmt.Errorf("dialog: conversation not finished (step %s)", c.state.Step)
	}
	return c.catalog.Assemble(c.state.SectionResponses, c.state.ContextInfo), nil
}
