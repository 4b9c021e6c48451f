package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/skriptgen/skriptgen/internal/llm"
)

// mockProvider records prompts and returns a scripted response or error.
type mockProvider struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(req.Messages) > 0 {
		m.prompts = append(m.prompts, req.Messages[len(req.Messages)-1].Content)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.response}, nil
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func newTestGenerator(p llm.Provider) *Generator {
	return NewGenerator(p, Options{Model: "test-model"})
}

func TestGenerateQuestion(t *testing.T) {
	mock := &mockProvider{response: "Wie gehen Sie mit E-Mails von Unbekannten um?"}
	g := newTestGenerator(mock)

	got, err := g.GenerateQuestion(context.Background(), "Threat Awareness", "Bedrohungsbewusstsein", "ctx", "Krankenhaus", "Pflegepersonal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Wie gehen Sie mit E-Mails von Unbekannten um?" {
		t.Errorf("unexpected question: %q", got)
	}
	prompt := mock.lastPrompt()
	for _, want := range []string{"Threat Awareness", "Krankenhaus", "Pflegepersonal"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateQuestionFallback(t *testing.T) {
	mock := &mockProvider{err: llm.ErrUnavailable}
	g := newTestGenerator(mock)

	got, err := g.GenerateQuestion(context.Background(), "Threat Awareness", "", "", "Bank", "Schalterpersonal")
	if err == nil {
		t.Fatal("expected error signaling the fallback")
	}
	if !strings.Contains(got, "Threat Awareness") {
		t.Errorf("fallback question should name the section: %q", got)
	}
	if !strings.Contains(got, "Können Sie mir etwas über") {
		t.Errorf("unexpected fallback wording: %q", got)
	}
}

func TestGenerateQuestionTruncatesContext(t *testing.T) {
	mock := &mockProvider{response: "Frage?"}
	g := newTestGenerator(mock)

	longCtx := strings.Repeat("ü", 1500)
	if _, err := g.GenerateQuestion(context.Background(), "T", "D", longCtx, "O", "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := mock.lastPrompt()
	if strings.Contains(prompt, longCtx) {
		t.Error("context was embedded untruncated")
	}
	if !strings.Contains(prompt, strings.Repeat("ü", 1000)+"...") {
		t.Error("truncated context with ellipsis missing from prompt")
	}
}

func TestGenerateContentFallbackMentionsOrganization(t *testing.T) {
	mock := &mockProvider{err: errors.New("connection refused")}
	g := newTestGenerator(mock)

	got, err := g.GenerateContent(context.Background(), "T", "D", "Antwort", "Krankenhaus", "Pflege", "30-45 Minuten", "")
	if err == nil {
		t.Fatal("expected error signaling the fallback")
	}
	if !strings.Contains(got, "Krankenhaus") {
		t.Errorf("fallback content should reference the organization: %q", got)
	}
}

func TestCheckHallucinations(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		err           error
		wantHasIssues bool
		wantFeedback  bool
	}{
		{name: "clean", response: "KEINE_PROBLEME", wantHasIssues: false},
		{name: "clean with prose", response: "Alles geprüft. KEINE_PROBLEME", wantHasIssues: false},
		{name: "issues", response: "Die Passage X ist nicht belegt.", wantHasIssues: true, wantFeedback: true},
		{name: "provider down", err: llm.ErrUnavailable, wantHasIssues: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(&mockProvider{response: tt.response, err: tt.err})
			outcome, err := g.CheckHallucinations(context.Background(), "Inhalt", "Antwort", "Kontext")
			if (err != nil) != (tt.err != nil) {
				t.Fatalf("err = %v, want error: %v", err, tt.err != nil)
			}
			if outcome.HasIssues != tt.wantHasIssues {
				t.Errorf("HasIssues = %v, want %v", outcome.HasIssues, tt.wantHasIssues)
			}
			if (outcome.Feedback != "") != tt.wantFeedback {
				t.Errorf("Feedback = %q, want feedback: %v", outcome.Feedback, tt.wantFeedback)
			}
			if outcome.AcceptedContent != "Inhalt" {
				t.Errorf("AcceptedContent = %q, want original", outcome.AcceptedContent)
			}
		})
	}
}

func TestGenerateContentWithCorrections(t *testing.T) {
	mock := &mockProvider{response: "Überarbeiteter Text."}
	g := newTestGenerator(mock)

	got, err := g.GenerateContentWithCorrections(context.Background(), "Original.", "Zu vage.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Überarbeiteter Text." {
		t.Errorf("got %q", got)
	}
	prompt := mock.lastPrompt()
	if !strings.Contains(prompt, "Originaltext:") || !strings.Contains(prompt, "Feedback zur Überarbeitung:") {
		t.Errorf("correction prompt malformed:\n%s", prompt)
	}
}

func TestGenerateContentWithCorrectionsFallback(t *testing.T) {
	g := newTestGenerator(&mockProvider{err: llm.ErrUnavailable})

	got, err := g.GenerateContentWithCorrections(context.Background(), "Original.", "Feedback.")
	if err == nil {
		t.Fatal("expected error signaling the fallback")
	}
	if got != "Original." {
		t.Errorf("fallback should return the original content, got %q", got)
	}
}

func TestExtractKeyInformation(t *testing.T) {
	mock := &mockProvider{response: "- Patientendaten\n- E-Mail-Kommunikation\n\n- Schichtübergaben"}
	g := newTestGenerator(mock)

	got, err := g.ExtractKeyInformation(context.Background(), "threat_awareness", "Wir arbeiten mit Patientenakten.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Patientendaten", "E-Mail-Kommunikation", "Schichtübergaben"}
	if len(got) != len(want) {
		t.Fatalf("got %d phrases, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("phrase %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractKeyInformationCap(t *testing.T) {
	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "Begriff"
	}
	g := newTestGenerator(&mockProvider{response: strings.Join(lines, "\n")})

	got, err := g.ExtractKeyInformation(context.Background(), "s", "r")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("got %d phrases, want cap of 8", len(got))
	}
}

func TestExtractKeyInformationFallback(t *testing.T) {
	g := newTestGenerator(&mockProvider{err: llm.ErrUnavailable})

	got, err := g.ExtractKeyInformation(context.Background(), "s", "r")
	if err == nil {
		t.Fatal("expected error signaling the fallback")
	}
	if got == nil || len(got) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", got)
	}
}

func TestEmptyCompletionIsUnavailable(t *testing.T) {
	g := newTestGenerator(&mockProvider{response: "   \n"})

	_, err := g.GenerateQuestion(context.Background(), "T", "D", "", "O", "A")
	if !errors.Is(err, llm.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
