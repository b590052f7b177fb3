package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slidecraft/deckgen/internal/form"
)

// sendSubmission performs the exchange off the event loop. The command
// resolves to exactly one generationDoneMsg; esc cancels through the
// stored cancel func.
func (m *Model) sendSubmission(sub *form.Submission) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.requestCancelFunc = cancel
	sender := m.sender

	return func() tea.Msg {
		type result struct {
			data []byte
			err  error
		}
		resultChan := make(chan result, 1)

		go func() {
			data, err := sender.Send(ctx, sub)
			resultChan <- result{data: data, err: err}
		}()

		select {
		case <-ctx.Done():
			return generationDoneMsg{err: fmt.Errorf("generation cancelled")}
		case res := <-resultChan:
			return generationDoneMsg{data: res.data, err: res.err}
		}
	}
}

// saveArtifact writes the current deck to the output path.
func (m *Model) saveArtifact() tea.Cmd {
	return func() tea.Msg {
		handle := m.ctrl.Handle()
		if handle == nil {
			return errorMsg("No presentation to save yet")
		}

		saved, err := handle.SaveTo(m.outputInput.Value())
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to save presentation: %v", err))
		}

		m.savedPath = saved
		m.errorMsg = ""
		m.statusMsg = fmt.Sprintf("Saved to %s", saved)
		return nil
	}
}

// copySavedPath puts the last saved path on the clipboard.
func (m *Model) copySavedPath() tea.Cmd {
	return func() tea.Msg {
		if m.savedPath == "" {
			return errorMsg("Nothing saved yet")
		}
		if err := clipboard.WriteAll(m.savedPath); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		m.errorMsg = ""
		m.statusMsg = "Path copied to clipboard"
		return nil
	}
}

// loadHistory fetches recent submissions for the history view.
func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		if m.historyManager == nil {
			return errorMsg("History unavailable")
		}
		entries, err := m.historyManager.List(50)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to load history: %v", err))
		}
		return historyLoadedMsg{entries: entries}
	}
}

// clearHistory wipes the submission log.
func (m *Model) clearHistory() tea.Cmd {
	return func() tea.Msg {
		if m.historyManager == nil {
			return errorMsg("History unavailable")
		}
		if err := m.historyManager.Clear(); err != nil {
			return errorMsg(fmt.Sprintf("Failed to clear history: %v", err))
		}
		return historyLoadedMsg{entries: nil}
	}
}
