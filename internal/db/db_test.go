package db

import "testing"

func TestRecordAndCountScripts(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	n, err := d.CountScripts()
	if err != nil {
		t.Fatalf("CountScripts: %v", err)
	}
	if n != 0 {
		t.Errorf("empty database has %d scripts", n)
	}

	id, err := d.RecordScript(ScriptRecord{
		SessionID:    "abc",
		Organization: "Krankenhaus",
		Audience:     "Pflegepersonal",
		Format:       "txt",
		Path:         "/out/Krankenhaus_Pflegepersonal_20260831_120000.txt",
	})
	if err != nil {
		t.Fatalf("RecordScript: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero row id")
	}

	n, err = d.CountScripts()
	if err != nil {
		t.Fatalf("CountScripts: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d scripts, want 1", n)
	}
}

func TestRecordScriptRejectsUnknownFormat(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	if _, err := d.RecordScript(ScriptRecord{SessionID: "abc", Format: "pdf", Path: "x"}); err == nil {
		t.Error("expected constraint violation for unknown format")
	}
}

func TestListRecentScripts(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	for i, format := range []string{"txt", "json", "html"} {
		if _, err := d.RecordScript(ScriptRecord{
			SessionID: "s",
			Format:    format,
			Path:      "/out/file" + format,
		}); err != nil {
			t.Fatalf("RecordScript %d: %v", i, err)
		}
	}

	recent, err := d.ListRecentScripts(2)
	if err != nil {
		t.Fatalf("ListRecentScripts: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d records, want 2", len(recent))
	}
	if recent[0].Format != "html" {
		t.Errorf("newest record format = %q, want html", recent[0].Format)
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}
