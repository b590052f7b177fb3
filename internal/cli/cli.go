// Package cli runs a one-shot generation request without the TUI:
// read the text, build the submission, post it, save the deck.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/slidecraft/deckgen/internal/artifact"
	"github.com/slidecraft/deckgen/internal/config"
	"github.com/slidecraft/deckgen/internal/form"
	"github.com/slidecraft/deckgen/internal/history"
	"github.com/slidecraft/deckgen/internal/submit"
	"github.com/slidecraft/deckgen/internal/transport"
)

// RunOptions contains options for running a generation in CLI mode
type RunOptions struct {
	Text         string // inline text; empty means TextFile or stdin
	TextFile     string // path to a text/markdown file
	Template     string // path to the .pptx/.potx template (required)
	Guidance     string
	Provider     string // "", openai, anthropic, gemini
	APIKey       string // falls back to DECKGEN_API_KEY
	SpeakerNotes bool
	Output       string // destination file or directory
	Endpoint     string // overrides config/env endpoint
}

// Run executes a single generation request in CLI mode
func Run(opts RunOptions) error {
	fc, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var st form.State

	if opts.Template == "" {
		opts.Template = fc.Template
	}
	if opts.Template == "" {
		return fmt.Errorf("no template provided (use --template)")
	}
	if err := st.LoadTemplate(opts.Template); err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}
	if !form.HasTemplateExt(opts.Template) {
		fmt.Fprintf(os.Stderr, "Warning: %s does not look like a .pptx or .potx file\n", opts.Template)
	}

	text, err := readText(opts)
	if err != nil {
		return err
	}
	st.SetText(text)
	st.SetGuidance(opts.Guidance)

	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = fc.Provider
	}
	if !form.IsValidProvider(provider) {
		return fmt.Errorf("unknown provider %q (use openai, anthropic or gemini)", opts.Provider)
	}
	st.SetProvider(provider)

	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(config.APIKeyEnv)
	}
	st.SetAPIKey(apiKey)
	st.SetSpeakerNotes(opts.SpeakerNotes)

	endpoint := config.ResolveEndpoint(opts.Endpoint, fc)

	store := artifact.NewStore(config.ArtifactsDir)
	defer store.Close()

	ctrl := submit.NewController(transport.New(endpoint), store)
	ctrl.State = st

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Generating presentation via %s...\n", endpoint)
	started := time.Now()
	err = ctrl.Submit(ctx)
	elapsed := time.Since(started)

	recordHistory(endpoint, provider, opts.SpeakerNotes, ctrl, elapsed)

	if err != nil {
		return fmt.Errorf("generation failed: %s", ctrl.ErrorMessage())
	}

	handle := ctrl.Handle()
	output := opts.Output
	if output == "" {
		output = fc.Output
	}
	saved, err := handle.SaveTo(output)
	if err != nil {
		return fmt.Errorf("failed to save presentation: %w", err)
	}

	fmt.Printf("Saved %s (%d bytes, %s)\n", saved, len(handle.Bytes()), elapsed.Round(time.Millisecond))
	return nil
}

// readText resolves the text source: inline flag, file, or piped stdin.
func readText(opts RunOptions) (string, error) {
	if opts.Text != "" {
		return opts.Text, nil
	}
	if opts.TextFile != "" {
		data, err := os.ReadFile(opts.TextFile)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	}
	if !isInteractive() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), nil
		}
	}
	return "", fmt.Errorf("no text provided (use --text, --text-file, or pipe it in)")
}

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// recordHistory saves submission metadata; the text, template and
// credential are never stored. Failures here don't fail the run.
func recordHistory(endpoint, provider string, notes bool, ctrl *submit.Controller, elapsed time.Duration) {
	if config.DatabasePath == "" {
		return
	}
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return
	}
	defer mgr.Close()

	entry := history.Entry{
		Timestamp:    time.Now(),
		Endpoint:     endpoint,
		Provider:     provider,
		SpeakerNotes: notes,
		DurationMs:   elapsed.Milliseconds(),
	}
	if ctrl.Status() == submit.StatusSucceeded {
		entry.Outcome = "succeeded"
		entry.ArtifactSize = int64(len(ctrl.Handle().Bytes()))
	} else {
		entry.Outcome = "failed"
		entry.Message = ctrl.ErrorMessage()
	}
	mgr.Save(entry)
}
