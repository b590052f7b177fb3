package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Global keys (work in all modes)
	switch msg.String() {
	case "ctrl+c":
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	case ModeHistoryClearConfirm:
		return m.handleHistoryClearConfirmKeys(msg)
	}
	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return m.submitForm()

	case "ctrl+d":
		return m.saveArtifact()

	case "ctrl+y":
		return m.copySavedPath()

	case "ctrl+r":
		return m.loadHistory()

	case "ctrl+g":
		m.mode = ModeHelp
		return nil

	case "esc":
		if m.loading && m.requestCancelFunc != nil {
			m.requestCancelFunc()
			m.requestCancelFunc = nil
			return nil
		}
		m.Cleanup()
		return tea.Quit

	case "tab":
		m.setFocus((m.focus + 1) % fieldCount)
		return nil

	case "shift+tab":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	// Field-specific keys
	switch m.focus {
	case fieldProvider:
		switch msg.String() {
		case "left", "h":
			m.providerIndex = (m.providerIndex + len(providerNames()) - 1) % len(providerNames())
			return nil
		case "right", "l", " ", "enter":
			m.providerIndex = (m.providerIndex + 1) % len(providerNames())
			return nil
		}

	case fieldNotes:
		switch msg.String() {
		case " ", "enter", "left", "right":
			m.speakerNotes = !m.speakerNotes
			return nil
		}
	}

	return m.updateFocusedInput(msg)
}

// setFocus moves keyboard focus between form fields.
func (m *Model) setFocus(field int) {
	m.focus = field
	m.templateInput.Blur()
	m.textArea.Blur()
	m.guidanceInput.Blur()
	m.apiKeyInput.Blur()
	m.outputInput.Blur()

	switch field {
	case fieldTemplate:
		m.templateInput.Focus()
	case fieldText:
		m.textArea.Focus()
	case fieldGuidance:
		m.guidanceInput.Focus()
	case fieldAPIKey:
		m.apiKeyInput.Focus()
	case fieldOutput:
		m.outputInput.Focus()
	}
}

// updateFocusedInput forwards a key to whichever widget has focus.
func (m *Model) updateFocusedInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldTemplate:
		m.templateInput, cmd = m.templateInput.Update(msg)
		// Re-reading happens at submit; editing the path invalidates
		// any previously loaded bytes.
		m.ctrl.State.SetTemplate("", nil)
	case fieldText:
		m.textArea, cmd = m.textArea.Update(msg)
	case fieldGuidance:
		m.guidanceInput, cmd = m.guidanceInput.Update(msg)
	case fieldAPIKey:
		m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
	case fieldOutput:
		m.outputInput, cmd = m.outputInput.Update(msg)
	}
	return cmd
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "ctrl+g":
		m.mode = ModeForm
	}
	return nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q", "ctrl+r":
		m.mode = ModeForm
	case "up", "k":
		if m.historyIndex > 0 {
			m.historyIndex--
		}
	case "down", "j":
		if m.historyIndex < len(m.historyEntries)-1 {
			m.historyIndex++
		}
	case "x":
		m.mode = ModeHistoryClearConfirm
	}
	return nil
}

func (m *Model) handleHistoryClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeHistory
		return m.clearHistory()
	case "n", "N", "esc":
		m.mode = ModeHistory
	}
	return nil
}
