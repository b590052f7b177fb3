// Package tui is the interactive front end: a single-screen form that
// collects the generation request, submits it, and tracks the outcome.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slidecraft/deckgen/internal/artifact"
	"github.com/slidecraft/deckgen/internal/form"
	"github.com/slidecraft/deckgen/internal/history"
	"github.com/slidecraft/deckgen/internal/submit"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeForm Mode = iota
	ModeHelp
	ModeHistory
	ModeHistoryClearConfirm
)

// Form fields in tab order.
const (
	fieldTemplate = iota
	fieldText
	fieldGuidance
	fieldProvider
	fieldAPIKey
	fieldNotes
	fieldOutput
	fieldCount
)

// Model represents the TUI state
type Model struct {
	ctrl           *submit.Controller
	sender         submit.Sender
	store          *artifact.Store
	historyManager *history.Manager
	endpoint       string

	mode    Mode
	focus   int
	width   int
	height  int
	loading bool

	templateInput textinput.Model
	textArea      textarea.Model
	guidanceInput textinput.Model
	apiKeyInput   textinput.Model
	outputInput   textinput.Model
	providerIndex int
	speakerNotes  bool
	spin          spinner.Model

	statusMsg string
	errorMsg  string
	savedPath string

	historyEntries []history.Entry
	historyIndex   int

	requestCancelFunc context.CancelFunc
}

// Custom message types
type generationDoneMsg struct {
	data []byte
	err  error
}

type historyLoadedMsg struct {
	entries []history.Entry
}

type clearStatusMsg struct{}

type errorMsg string

// Init starts the spinner tick loop.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()

	case spinner.TickMsg:
		if m.loading {
			m.spin, cmd = m.spin.Update(msg)
		}

	case generationDoneMsg:
		m.loading = false
		m.requestCancelFunc = nil
		m.ctrl.Finish(msg.data, msg.err)
		if m.ctrl.Status() == submit.StatusSucceeded {
			m.errorMsg = ""
			m.statusMsg = "Presentation ready (ctrl+d to save)"
		} else {
			m.errorMsg = m.ctrl.ErrorMessage()
			m.statusMsg = ""
		}
		m.recordOutcome()

	case historyLoadedMsg:
		m.historyEntries = msg.entries
		m.historyIndex = 0
		m.mode = ModeHistory

	case clearStatusMsg:
		m.statusMsg = ""

	case errorMsg:
		m.loading = false
		m.errorMsg = string(msg)
		m.statusMsg = ""
	}

	return m, cmd
}

// submitForm snapshots the form and starts the exchange. While a
// submission is outstanding another ctrl+s is refused without touching
// the form or the in-flight request.
func (m *Model) submitForm() tea.Cmd {
	m.syncFormState()

	if path := m.templateInput.Value(); path != "" && len(m.ctrl.State.TemplateData) == 0 {
		if err := m.ctrl.State.LoadTemplate(path); err != nil {
			m.errorMsg = err.Error()
			return nil
		}
	}

	sub, err := m.ctrl.Begin()
	if err != nil {
		if err == submit.ErrInFlight {
			m.statusMsg = "Already generating, hang on..."
			return nil
		}
		m.errorMsg = err.Error()
		m.statusMsg = ""
		return nil
	}

	m.loading = true
	m.errorMsg = ""
	m.statusMsg = "Generating presentation..."
	return tea.Batch(m.spin.Tick, m.sendSubmission(sub))
}

// syncFormState copies the widget values into the form state.
func (m *Model) syncFormState() {
	m.ctrl.State.SetText(m.textArea.Value())
	m.ctrl.State.SetGuidance(m.guidanceInput.Value())
	m.ctrl.State.SetProvider(form.Providers[m.providerIndex])
	m.ctrl.State.SetAPIKey(m.apiKeyInput.Value())
	m.ctrl.State.SetSpeakerNotes(m.speakerNotes)
}

// recordOutcome saves submission metadata to history. The text,
// template and credential never get stored.
func (m *Model) recordOutcome() {
	if m.historyManager == nil {
		return
	}
	entry := history.Entry{
		Timestamp:    time.Now(),
		Endpoint:     m.endpoint,
		Provider:     form.Providers[m.providerIndex],
		SpeakerNotes: m.speakerNotes,
	}
	if m.ctrl.Status() == submit.StatusSucceeded {
		entry.Outcome = "succeeded"
		entry.ArtifactSize = int64(len(m.ctrl.Handle().Bytes()))
	} else {
		entry.Outcome = "failed"
		entry.Message = m.ctrl.ErrorMessage()
	}
	_ = m.historyManager.Save(entry)
}

// Cleanup closes resources before exit
func (m *Model) Cleanup() {
	if m.requestCancelFunc != nil {
		m.requestCancelFunc()
	}
	if m.store != nil {
		m.store.Close()
	}
	if m.historyManager != nil {
		m.historyManager.Close()
	}
}

func providerNames() []string {
	return form.Providers
}

func providerLabel(name string) string {
	if name == "" {
		return "auto (heuristic)"
	}
	return name
}
