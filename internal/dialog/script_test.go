package dialog

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/skriptgen/skriptgen/internal/catalog"
)

func sampleScript() catalog.Script {
	cat := catalog.Default()
	responses := map[string]string{}
	for _, s := range cat.Sections {
		responses[s.ID] = "Inhalt für " + s.Title + "."
	}
	return cat.Assemble(responses, map[string]string{
		catalog.QuestionOrganization: "Krankenhaus",
		catalog.QuestionAudience:     "Pflegepersonal",
	})
}

func TestWriteScriptJSONRoundTrip(t *testing.T) {
	script := sampleScript()
	dir := t.TempDir()

	path, err := WriteScript(script, dir, FormatJSON, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WriteScript: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var got catalog.Script
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decoding: %v", err)
	}

	if got.Title != script.Title {
		t.Errorf("title = %q, want %q", got.Title, script.Title)
	}
	if got.Description != script.Description {
		t.Errorf("description = %q, want %q", got.Description, script.Description)
	}
	if len(got.Sections) != len(script.Sections) {
		t.Fatalf("got %d sections, want %d", len(got.Sections), len(script.Sections))
	}
	for i := range got.Sections {
		if got.Sections[i].Content != script.Sections[i].Content {
			t.Errorf("section %s content mismatch", got.Sections[i].ID)
		}
	}
}

func TestWriteScriptUnsupportedFormat(t *testing.T) {
	if _, err := WriteScript(sampleScript(), t.TempDir(), "pdf", time.Now()); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRenderText(t *testing.T) {
	got := RenderText(sampleScript())

	if !strings.HasPrefix(got, "Skript „Umgang mit Informationssicherheit für Krankenhaus“") {
		t.Errorf("missing title header:\n%s", got[:120])
	}
	for _, s := range catalog.Default().Sections {
		if !strings.Contains(got, s.Title+"\n") {
			t.Errorf("missing section heading %q", s.Title)
		}
		if !strings.Contains(got, "Inhalt für "+s.Title+".") {
			t.Errorf("missing content for %q", s.Title)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	got, err := RenderHTML(sampleScript())
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>Skript „Umgang mit Informationssicherheit für Krankenhaus“</h1>",
		"Organisation: Krankenhaus",
		"Zielgruppe: Pflegepersonal",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	for _, s := range catalog.Default().Sections {
		if !strings.Contains(got, s.Title) {
			t.Errorf("HTML missing section %q", s.Title)
		}
	}
}

func TestSummary(t *testing.T) {
	got := Summary(sampleScript())

	if !strings.Contains(got, "Organisation: Krankenhaus") {
		t.Errorf("summary missing organization:\n%s", got)
	}
	if !strings.Contains(got, "Abschnitte: 7") {
		t.Errorf("summary missing section count:\n%s", got)
	}
	if !strings.Contains(got, "1. Threat Awareness:") {
		t.Errorf("summary missing numbered section line:\n%s", got)
	}
}

func TestScriptFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		organization string
		audience     string
		want         string
	}{
		{"Krankenhaus", "Pflegepersonal", "Krankenhaus_Pflegepersonal_20260831_140509.txt"},
		{"Städtische Klinik GmbH!", "Pflege & Ärzte", "Städtische_Klinik_GmbH_Pflege_Ärzte_20260831_140509.txt"},
		{"", "", "skript_allgemein_20260831_140509.txt"},
	}
	for _, tt := range tests {
		if got := ScriptFilename(tt.organization, tt.audience, FormatText, now); got != tt.want {
			t.Errorf("ScriptFilename(%q, %q) = %q, want %q", tt.organization, tt.audience, got, tt.want)
		}
	}
}

func TestSaveScriptRequiresDone(t *testing.T) {
	c := newTestController(&fakeGenerator{})
	if _, err := c.SaveScript(t.TempDir(), FormatText); err == nil {
		t.Fatal("expected error before conversation is done")
	}
}
