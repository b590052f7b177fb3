package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/slidecraft/deckgen/internal/cli"
	"github.com/slidecraft/deckgen/internal/config"
	"github.com/slidecraft/deckgen/internal/history"
	"github.com/slidecraft/deckgen/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "deckgen",
	Short: "deckgen - turn text into a styled PowerPoint presentation",
	Long: `deckgen turns pasted text or markdown into a presentation styled by
your own .pptx/.potx template.

Run without arguments to start the interactive TUI, or use the
generate subcommand for one-shot usage in scripts and pipelines.

The structuring step can use an LLM provider (openai, anthropic,
gemini) with your API key, or a local markdown heuristic when no
provider is given. The key is sent with the request only; it is never
saved or logged.

Examples:
  deckgen                                          # interactive TUI
  deckgen generate -T theme.pptx -f notes.md
  cat notes.md | deckgen generate -T theme.pptx -o out.pptx
  deckgen generate -T theme.pptx -f notes.md -P openai
  deckgen history                                  # past submissions`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return tui.Run(tui.Options{
			Endpoint:     flagEndpoint,
			Template:     flagTemplate,
			Provider:     flagProvider,
			SpeakerNotes: flagNotes,
			Output:       flagOutput,
		})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a presentation in one shot",
	Long: `Generate a presentation without the TUI.

The text comes from --text, --text-file, or stdin when piped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.Run(cli.RunOptions{
			Text:         flagText,
			TextFile:     flagTextFile,
			Template:     flagTemplate,
			Guidance:     flagGuidance,
			Provider:     flagProvider,
			APIKey:       flagAPIKey,
			SpeakerNotes: flagNotes,
			Output:       flagOutput,
			Endpoint:     flagEndpoint,
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past submissions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return runHistory(historyLimit, historyClear)
	},
}

var (
	flagEndpoint string
	flagTemplate string
	flagText     string
	flagTextFile string
	flagGuidance string
	flagProvider string
	flagAPIKey   string
	flagNotes    bool
	flagOutput   string

	historyLimit int
	historyClear bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagEndpoint, "endpoint", "e", "", "Generation backend URL (default from config or DECKGEN_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&flagTemplate, "template", "T", "", "Path to the .pptx/.potx template")
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "P", "", "LLM provider (openai/anthropic/gemini), empty for heuristic")
	rootCmd.PersistentFlags().BoolVarP(&flagNotes, "notes", "n", false, "Include generated speaker notes")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output file or directory")

	generateCmd.Flags().StringVarP(&flagText, "text", "t", "", "Inline text to structure")
	generateCmd.Flags().StringVarP(&flagTextFile, "text-file", "f", "", "Read the text from a file")
	generateCmd.Flags().StringVarP(&flagGuidance, "guidance", "g", "", "Optional structuring guidance")
	generateCmd.Flags().StringVarP(&flagAPIKey, "api-key", "k", "", "Provider API key (or set DECKGEN_API_KEY)")

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of entries to show")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all history entries")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
}

// runHistory prints or clears the submission log.
func runHistory(limit int, clear bool) error {
	mgr, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer mgr.Close()

	if clear {
		if err := mgr.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared")
		return nil
	}

	entries, err := mgr.List(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No submissions yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tOUTCOME\tPROVIDER\tNOTES\tSIZE\tMESSAGE")
	for _, e := range entries {
		provider := e.Provider
		if provider == "" {
			provider = "heuristic"
		}
		notes := "no"
		if e.SpeakerNotes {
			notes = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04"),
			e.Outcome, provider, notes, e.ArtifactSize, e.Message)
	}
	return w.Flush()
}
