package form

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetters_SingleFieldOnly(t *testing.T) {
	var st State
	st.SetText("body")
	st.SetGuidance("guide")
	st.SetProvider("gemini")
	st.SetAPIKey("key")
	st.SetTemplate("deck.potx", []byte{1, 2, 3})
	st.SetSpeakerNotes(true)

	if st.Text != "body" || st.Guidance != "guide" || st.Provider != "gemini" ||
		st.APIKey != "key" || st.TemplateName != "deck.potx" || !st.SpeakerNotes {
		t.Errorf("setters did not store fields independently: %+v", st)
	}
}

func TestSetProvider_HeuristicKeepsCredential(t *testing.T) {
	var st State
	st.SetAPIKey("sk-keep-me")
	st.SetProvider("openai")
	st.SetProvider("")

	if st.APIKey != "sk-keep-me" {
		t.Errorf("selecting the heuristic provider cleared the key: %q", st.APIKey)
	}
}

func TestIsValidProvider(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"", true},
		{"openai", true},
		{"anthropic", true},
		{"gemini", true},
		{"llama", false},
		{"OpenAI", false},
	}
	for _, tt := range tests {
		if got := IsValidProvider(tt.name); got != tt.valid {
			t.Errorf("IsValidProvider(%q) = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestHasTemplateExt(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"deck.pptx", true},
		{"deck.potx", true},
		{"DECK.PPTX", true},
		{"deck.ppt", false},
		{"deck.pdf", false},
		{"deck", false},
	}
	for _, tt := range tests {
		if got := HasTemplateExt(tt.name); got != tt.want {
			t.Errorf("HasTemplateExt(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corporate.pptx")
	if err := os.WriteFile(path, []byte("PKzip"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var st State
	if err := st.LoadTemplate(path); err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if st.TemplateName != "corporate.pptx" {
		t.Errorf("TemplateName = %q", st.TemplateName)
	}
	if string(st.TemplateData) != "PKzip" {
		t.Errorf("TemplateData = %q", st.TemplateData)
	}

	if err := st.LoadTemplate(filepath.Join(dir, "missing.pptx")); err == nil {
		t.Error("LoadTemplate() should fail for a missing file")
	}
}
