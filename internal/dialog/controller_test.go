package dialog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/skriptgen/skriptgen/internal/catalog"
	"github.com/skriptgen/skriptgen/internal/format"
	"github.com/skriptgen/skriptgen/internal/generation"
	"github.com/skriptgen/skriptgen/internal/llm"
	"github.com/skriptgen/skriptgen/internal/vectordb"
)

// fakeGenerator is a scripted Generator with call counters.
type fakeGenerator struct {
	fail               bool
	validationFeedback string

	questionCalls   int
	contentCalls    int
	validationCalls int
	correctionCalls int
}

var errDown = errors.New("model unreachable")

func (f *fakeGenerator) GenerateQuestion(_ context.Context, title, _, _, _, _ string) (string, error) {
	f.questionCalls++
	if f.fail {
		return fmt.Sprintf("Können Sie mir etwas über %s in Ihrem Unternehmen erzählen?", title), errDown
	}
	return fmt.Sprintf("Frage zu %s?", title), nil
}

func (f *fakeGenerator) GenerateContent(_ context.Context, title, _, _, organization, _, _, _ string) (string, error) {
	f.contentCalls++
	if f.fail {
		return fmt.Sprintf("Informationssicherheit ist für %s wichtig.", organization), errDown
	}
	return fmt.Sprintf("Inhalt für %s bei %s.", title, organization), nil
}

func (f *fakeGenerator) CheckHallucinations(_ context.Context, content, _, _ string) (generation.ValidationOutcome, error) {
	f.validationCalls++
	if f.fail {
		return generation.ValidationOutcome{HasIssues: true, AcceptedContent: content}, errDown
	}
	if f.validationFeedback != "" {
		return generation.ValidationOutcome{HasIssues: true, Feedback: f.validationFeedback, AcceptedContent: content}, nil
	}
	return generation.ValidationOutcome{HasIssues: false, AcceptedContent: content}, nil
}

func (f *fakeGenerator) GenerateContentWithCorrections(_ context.Context, original, _ string) (string, error) {
	f.correctionCalls++
	if f.fail {
		return original, errDown
	}
	return "Korrigiert: " + original, nil
}

func (f *fakeGenerator) ExtractKeyInformation(_ context.Context, _, _ string) ([]string, error) {
	if f.fail {
		return []string{}, errDown
	}
	return []string{"Patientendaten", "E-Mail"}, nil
}

// fakeRetriever returns fixed passages for every query batch.
type fakeRetriever struct {
	docs []vectordb.Document
	err  error
}

func (f *fakeRetriever) RetrieveMulti(_ context.Context, _ []string, _ int) ([]vectordb.Document, error) {
	return f.docs, f.err
}

func newTestController(gen Generator) *Controller {
	return NewController(Options{
		Generator: gen,
		Retriever: &fakeRetriever{docs: []vectordb.Document{
			{Content: "Phishing ist eine verbreitete Angriffsform.", Metadata: vectordb.DocumentMetadata{Source: "a.md"}},
		}},
		Formatter: format.NewWithRand(rand.New(rand.NewSource(1)), 0),
		Duration:  "30-45 Minuten",
	})
}

// runConversation answers the context questions and then every section
// question, returning the bot's final message.
func runConversation(t *testing.T, c *Controller, organization, audience string) string {
	t.Helper()
	ctx := context.Background()

	q := c.GetNextQuestion(ctx)
	if q != catalog.QuestionOrganization {
		t.Fatalf("first question = %q, want organization question", q)
	}
	q = c.ProcessUserResponse(ctx, organization)
	if q != catalog.QuestionAudience {
		t.Fatalf("second question = %q, want audience question", q)
	}

	reply := c.ProcessUserResponse(ctx, audience)
	for i := 0; i < len(catalog.Default().Sections); i++ {
		if reply == "" {
			t.Fatalf("empty question at section %d", i)
		}
		if strings.HasPrefix(reply, CompletionMessage) {
			break
		}
		reply = c.ProcessUserResponse(ctx, fmt.Sprintf("Antwort %d zu unserem Alltag.", i+1))
	}
	return reply
}

func TestContextQuestionsAskedOnce(t *testing.T) {
	c := newTestController(&fakeGenerator{})
	ctx := context.Background()

	seen := map[string]int{}
	q := c.GetNextQuestion(ctx)
	for i := 0; i < 4; i++ {
		if q == catalog.QuestionOrganization || q == catalog.QuestionAudience {
			seen[q]++
		}
		q = c.ProcessUserResponse(ctx, "Antwort")
	}
	for question, n := range seen {
		if n != 1 {
			t.Errorf("context question asked %d times: %q", n, question)
		}
	}
	if len(seen) != 2 {
		t.Errorf("saw %d context questions, want 2", len(seen))
	}
}

func TestFullConversationKrankenhaus(t *testing.T) {
	gen := &fakeGenerator{}
	c := newTestController(gen)

	final := runConversation(t, c, "Krankenhaus", "Pflegepersonal")
	if final != CompletionMessage {
		t.Fatalf("final reply = %q, want completion message", final)
	}
	if !c.Done() {
		t.Fatal("conversation not done")
	}

	defaultIDs := catalog.Default().Sections
	if got := len(c.State().CompletedSections); got != len(defaultIDs) {
		t.Fatalf("completed %d sections, want %d", got, len(defaultIDs))
	}
	for i, s := range defaultIDs {
		if c.State().CompletedSections[i] != s.ID {
			t.Errorf("completed[%d] = %q, want %q", i, c.State().CompletedSections[i], s.ID)
		}
	}

	script, err := c.GenerateScript()
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	if !strings.Contains(script.Title, "Krankenhaus") {
		t.Errorf("title %q does not mention the organization", script.Title)
	}
	if len(script.Sections) != 7 {
		t.Errorf("got %d sections, want 7", len(script.Sections))
	}
	for _, s := range script.Sections {
		if strings.TrimSpace(s.Content) == "" {
			t.Errorf("section %s has no content", s.ID)
		}
	}
}

func TestFailingGeneratorStillCompletes(t *testing.T) {
	gen := &fakeGenerator{fail: true}
	c := newTestController(gen)

	final := runConversation(t, c, "Bank", "Schalterpersonal")
	if final != CompletionMessage {
		t.Fatalf("final reply = %q, want completion message", final)
	}

	script, err := c.GenerateScript()
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	for _, s := range script.Sections {
		if strings.TrimSpace(s.Content) == "" {
			t.Errorf("section %s has no content despite fallbacks", s.ID)
		}
	}
	if c.State().QuestionErrorCount == 0 {
		t.Error("QuestionErrorCount should record the fallbacks")
	}
}

func TestCorrectionLoopBounded(t *testing.T) {
	gen := &fakeGenerator{validationFeedback: "Aussage X ist unbelegt."}
	c := newTestController(gen)

	if final := runConversation(t, c, "Behörde", "Sachbearbeitung"); final != CompletionMessage {
		t.Fatalf("final reply = %q, want completion message", final)
	}

	sections := len(catalog.Default().Sections)
	if gen.contentCalls != sections {
		t.Errorf("contentCalls = %d, want %d", gen.contentCalls, sections)
	}
	if gen.correctionCalls != sections {
		t.Errorf("correctionCalls = %d, want exactly one per section (%d)", gen.correctionCalls, sections)
	}
	for id, outcome := range c.State().ContentQualityChecks {
		if !outcome.HasIssues {
			t.Errorf("section %s: expected recorded issues", id)
		}
	}
	for _, content := range c.State().SectionResponses {
		if !strings.Contains(content, "Korrigiert:") {
			t.Errorf("accepted content missing correction: %q", content)
		}
	}
}

func TestValidationUnavailableSkipsCorrection(t *testing.T) {
	// fail=true makes validation error out with no feedback, so no
	// correction call may happen.
	gen := &fakeGenerator{fail: true}
	c := newTestController(gen)

	runConversation(t, c, "Krankenhaus", "Pflege")
	if gen.correctionCalls != 0 {
		t.Errorf("correctionCalls = %d, want 0 without feedback", gen.correctionCalls)
	}
}

func TestGenerateScriptBeforeDone(t *testing.T) {
	c := newTestController(&fakeGenerator{})
	if _, err := c.GenerateScript(); err == nil {
		t.Fatal("expected error before conversation is done")
	}
}

func TestRetrievalFailureDoesNotStall(t *testing.T) {
	c := NewController(Options{
		Generator: &fakeGenerator{},
		Retriever: &fakeRetriever{err: errors.New("store not initialized")},
		Formatter: format.NewWithRand(rand.New(rand.NewSource(1)), 0),
	})

	if final := runConversation(t, c, "Krankenhaus", "Pflege"); final != CompletionMessage {
		t.Fatalf("final reply = %q, want completion message", final)
	}
}

func TestReset(t *testing.T) {
	c := newTestController(&fakeGenerator{})
	runConversation(t, c, "Krankenhaus", "Pflege")
	if !c.Done() {
		t.Fatal("conversation should be done before reset")
	}

	c.Reset()
	if c.Done() {
		t.Error("reset conversation still done")
	}
	if len(c.State().SectionResponses) != 0 || len(c.State().ContextInfo) != 0 {
		t.Error("reset did not clear state")
	}
	if q := c.GetNextQuestion(context.Background()); q != catalog.QuestionOrganization {
		t.Errorf("after reset first question = %q", q)
	}
}

// The static provider drives the same control flow as a real model, so a
// whole conversation must complete offline through the real generator.
func TestConversationWithStaticProvider(t *testing.T) {
	gen := generation.NewGenerator(llm.NewStaticProvider(), generation.Options{Model: "static"})
	c := NewController(Options{
		Generator: gen,
		Formatter: format.NewWithRand(rand.New(rand.NewSource(1)), 0),
		Duration:  "30-45 Minuten",
	})

	final := runConversation(t, c, "Krankenhaus", "Pflegepersonal")
	if final != CompletionMessage {
		t.Fatalf("final reply = %q, want completion message", final)
	}
	script, err := c.GenerateScript()
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	for _, s := range script.Sections {
		if strings.TrimSpace(s.Content) == "" {
			t.Errorf("section %s has no content", s.ID)
		}
	}
	if c.State().QuestionErrorCount != 0 {
		t.Errorf("static provider should not count as failing, got %d errors", c.State().QuestionErrorCount)
	}
}
