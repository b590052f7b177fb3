package form

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Providers lists the LLM providers the backend understands. The empty
// string selects the heuristic (no-LLM) structuring mode.
var Providers = []string{"", "openai", "anthropic", "gemini"}

// State holds the current values of the submission form. Fields are
// mutated one at a time through the setters; nothing here validates —
// validation happens in Build at submission time.
type State struct {
	Text         string
	Guidance     string
	Provider     string // one of Providers
	APIKey       string // sensitive: never logged or persisted
	TemplateName string
	TemplateData []byte
	SpeakerNotes bool
}

// SetText replaces the text body.
func (s *State) SetText(text string) {
	s.Text = text
}

// SetGuidance replaces the optional guidance string.
func (s *State) SetGuidance(guidance string) {
	s.Guidance = guidance
}

// SetProvider replaces the provider selection. Selecting the heuristic
// provider ("") deliberately leaves the API key untouched; the key is
// simply ignored downstream.
func (s *State) SetProvider(provider string) {
	s.Provider = provider
}

// SetAPIKey replaces the credential.
func (s *State) SetAPIKey(key string) {
	s.APIKey = key
}

// SetTemplate replaces the template file in one step.
func (s *State) SetTemplate(name string, data []byte) {
	s.TemplateName = name
	s.TemplateData = data
}

// SetSpeakerNotes replaces the speaker-notes flag.
func (s *State) SetSpeakerNotes(enabled bool) {
	s.SpeakerNotes = enabled
}

// IsValidProvider reports whether name is a known provider selection.
func IsValidProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}

// HasTemplateExt reports whether the filename carries one of the
// advisory template extensions (.pptx/.potx). This mirrors the file
// picker filter only; Build does not re-check extensions.
func HasTemplateExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pptx", ".potx":
		return true
	}
	return false
}

// LoadTemplate reads a template file from disk into the state.
func (s *State) LoadTemplate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	s.SetTemplate(filepath.Base(path), data)
	return nil
}
