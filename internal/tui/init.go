package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slidecraft/deckgen/internal/artifact"
	"github.com/slidecraft/deckgen/internal/config"
	"github.com/slidecraft/deckgen/internal/history"
	"github.com/slidecraft/deckgen/internal/submit"
	"github.com/slidecraft/deckgen/internal/transport"
)

// Options seeds the form from flags and config file defaults.
type Options struct {
	Endpoint     string
	Template     string
	Provider     string
	SpeakerNotes bool
	Output       string
}

// New creates a new TUI model
func New(opts Options) (*Model, error) {
	templateInput := textinput.New()
	templateInput.Placeholder = "path/to/template.pptx"
	templateInput.SetValue(opts.Template)
	templateInput.Focus()

	textArea := textarea.New()
	textArea.Placeholder = "Paste the text or markdown to turn into slides..."
	textArea.SetHeight(10)

	guidanceInput := textinput.New()
	guidanceInput.Placeholder = "e.g. Keep it under 10 slides, formal tone (optional)"

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "provider API key (optional, never stored)"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.EchoCharacter = '*'

	outputInput := textinput.New()
	outputInput.Placeholder = "where to save (default: ./generated.pptx)"
	outputInput.SetValue(opts.Output)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	store := artifact.NewStore(config.ArtifactsDir)
	sender := transport.New(opts.Endpoint)
	ctrl := submit.NewController(sender, store)

	providerIndex := 0
	for i, p := range providerNames() {
		if p == opts.Provider {
			providerIndex = i
		}
	}

	// History is best effort; the form works without it.
	var historyManager *history.Manager
	if config.DatabasePath != "" {
		historyManager, _ = history.NewManager(config.DatabasePath)
	}

	m := &Model{
		ctrl:           ctrl,
		sender:         sender,
		store:          store,
		historyManager: historyManager,
		endpoint:       opts.Endpoint,
		mode:           ModeForm,
		focus:          fieldTemplate,
		templateInput:  templateInput,
		textArea:       textArea,
		guidanceInput:  guidanceInput,
		apiKeyInput:    apiKeyInput,
		outputInput:    outputInput,
		providerIndex:  providerIndex,
		speakerNotes:   opts.SpeakerNotes,
		spin:           spin,
	}
	return m, nil
}

// Run starts the TUI
func Run(opts Options) error {
	if opts.Endpoint == "" {
		fc, err := config.LoadFile()
		if err != nil {
			return err
		}
		opts.Endpoint = config.ResolveEndpoint("", fc)
		if opts.Template == "" {
			opts.Template = fc.Template
		}
		if opts.Provider == "" {
			opts.Provider = fc.Provider
		}
		if opts.Output == "" {
			opts.Output = fc.Output
		}
	}

	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	_, err = p.Run()
	return err
}
