package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slidecraft/deckgen/internal/submit"
)

// Color definitions with adaptive light/dark variants
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleLabel = lipgloss.NewStyle().
			Bold(true)

	styleFocusedLabel = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleFormBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	case ModeHistoryClearConfirm:
		return m.renderHistoryClearConfirm()
	default:
		return m.renderForm()
	}
}

func (m Model) renderForm() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("deckgen - text to presentation"))
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldTemplate, "Template (.pptx/.potx)"))
	b.WriteString("\n")
	b.WriteString(m.templateInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldText, "Text"))
	b.WriteString("\n")
	b.WriteString(m.textArea.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldGuidance, "Guidance"))
	b.WriteString("\n")
	b.WriteString(m.guidanceInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldProvider, "Provider"))
	b.WriteString("  ")
	b.WriteString(m.renderProviderPicker())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldAPIKey, "API key"))
	b.WriteString("\n")
	b.WriteString(m.apiKeyInput.View())
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldNotes, "Speaker notes"))
	b.WriteString("  ")
	if m.speakerNotes {
		b.WriteString(styleSuccess.Render("[x] enabled"))
	} else {
		b.WriteString(styleSubtle.Render("[ ] disabled"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.fieldLabel(fieldOutput, "Output"))
	b.WriteString("\n")
	b.WriteString(m.outputInput.View())
	b.WriteString("\n")

	form := styleFormBox.Render(b.String())
	return form + "\n" + m.renderStatusBar() + "\n" + m.renderFooter()
}

func (m Model) fieldLabel(field int, label string) string {
	if m.focus == field {
		return styleFocusedLabel.Render("> " + label)
	}
	return styleLabel.Render("  " + label)
}

func (m Model) renderProviderPicker() string {
	var parts []string
	for i, p := range providerNames() {
		label := providerLabel(p)
		if i == m.providerIndex {
			parts = append(parts, styleFocusedLabel.Render("["+label+"]"))
		} else {
			parts = append(parts, styleSubtle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}

// renderStatusBar shows the submission state plus the latest status or
// error message.
func (m Model) renderStatusBar() string {
	var state string
	switch m.ctrl.Status() {
	case submit.StatusSubmitting:
		state = styleWarning.Render(m.spin.View() + "submitting")
	case submit.StatusSucceeded:
		state = styleSuccess.Render("succeeded")
	case submit.StatusFailed:
		state = styleError.Render("failed")
	default:
		state = styleSubtle.Render("idle")
	}

	msg := ""
	if m.errorMsg != "" {
		msg = styleError.Render(truncate(m.errorMsg, 100))
	} else if m.statusMsg != "" {
		msg = styleSuccess.Render(truncate(m.statusMsg, 100))
	}

	return fmt.Sprintf(" %s  %s", state, msg)
}

func (m Model) renderFooter() string {
	return styleSubtle.Render(" ctrl+s generate | ctrl+d save | ctrl+y copy path | ctrl+r history | ctrl+g help | tab next field | ctrl+c quit")
}

func (m Model) renderHelp() string {
	help := `deckgen

Fill in the form and press ctrl+s to generate a presentation.

  Template      path to the .pptx or .potx file used for styling
  Text          the content to structure into slides
  Guidance      optional instructions for the structuring step
  Provider      LLM used to structure the text; auto uses a local
                markdown heuristic and needs no key
  API key       credential for the chosen provider; sent with the
                request only, never saved or logged
  Speaker notes include generated speaker notes in the deck
  Output        file or directory to save the result into

Keys:
  ctrl+s   generate
  esc      cancel a running generation / quit
  ctrl+d   save the generated deck
  ctrl+y   copy the saved path to the clipboard
  ctrl+r   submission history
  ctrl+c   quit

Press esc to go back.`
	return styleFormBox.Render(help)
}

func (m Model) renderHistory() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Submission history"))
	b.WriteString("\n\n")

	if len(m.historyEntries) == 0 {
		b.WriteString(styleSubtle.Render("No submissions yet."))
	}
	for i, e := range m.historyEntries {
		line := fmt.Sprintf("%s  %-9s  %-10s  %s",
			e.Timestamp.Format("2006-01-02 15:04"),
			e.Outcome,
			providerLabel(e.Provider),
			truncate(e.Message, 50))
		switch {
		case i == m.historyIndex:
			line = styleFocusedLabel.Render("> " + line)
		case e.Outcome == "failed":
			line = "  " + styleError.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styleSubtle.Render("x clear | esc back"))
	return styleFormBox.Render(b.String())
}

func (m Model) renderHistoryClearConfirm() string {
	return styleFormBox.Render("Clear all submission history?\n\n" +
		styleWarning.Render("y") + " yes    " + styleSubtle.Render("n") + " no")
}

func (m *Model) resizeInputs() {
	w := m.width - 10
	if w < 20 {
		w = 20
	}
	m.templateInput.Width = w
	m.guidanceInput.Width = w
	m.apiKeyInput.Width = w
	m.outputInput.Width = w
	m.textArea.SetWidth(w)

	h := m.height - 24
	if h < 4 {
		h = 4
	}
	if h > 12 {
		h = 12
	}
	m.textArea.SetHeight(h)
}

// truncate shortens s to at most max runes. Backend detail messages can
// carry multi-byte text, so never cut on byte boundaries.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
