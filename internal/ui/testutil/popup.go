package testutil

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/ui/action"
	"github.com/llehouerou/tempo/internal/ui/popup"
)

// PopupHarness feeds keys to a popup.Popup and keeps every command it
// returns, starting with the one from Init.
type PopupHarness struct {
	popup popup.Popup
	cmds  []tea.Cmd
}

func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{popup: p}
	h.record(p.Init())
	return h
}

func (h *PopupHarness) record(cmd tea.Cmd) tea.Cmd {
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// Popup returns the popup as last returned by Update.
func (h *PopupHarness) Popup() popup.Popup { return h.popup }

func (h *PopupHarness) SetSize(width, height int) { h.popup.SetSize(width, height) }

func (h *PopupHarness) View() string { return h.popup.View() }

// SendMsg delivers msg and returns the command Update produced.
func (h *PopupHarness) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	return h.record(cmd)
}

// SendKey types key as runes, so "q" and "G" work but "esc" does not.
func (h *PopupHarness) SendKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func (h *PopupHarness) SendSpecialKey(t tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: t})
}

func (h *PopupHarness) SendEnter() tea.Cmd  { return h.SendSpecialKey(tea.KeyEnter) }
func (h *PopupHarness) SendEscape() tea.Cmd { return h.SendSpecialKey(tea.KeyEscape) }
func (h *PopupHarness) SendUp() tea.Cmd     { return h.SendSpecialKey(tea.KeyUp) }
func (h *PopupHarness) SendDown() tea.Cmd   { return h.SendSpecialKey(tea.KeyDown) }

// LastCommand returns the newest recorded command, or nil.
func (h *PopupHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

func (h *PopupHarness) ClearCommands() { h.cmds = nil }

// LastAction runs LastCommand and reports whether it produced an action.Msg.
func (h *PopupHarness) LastAction() (action.Msg, bool) {
	msg, ok := ExecuteCmd(h.LastCommand()).(action.Msg)
	return msg, ok
}

// ExecuteCmd runs cmd, tolerating nil.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func (h *PopupHarness) AssertViewContains(substr string) string {
	return AssertContains(h.View(), substr)
}

func (h *PopupHarness) AssertViewNotContains(substr string) string {
	return AssertNotContains(h.View(), substr)
}
