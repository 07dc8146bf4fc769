package testutil

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/ui/action"
	"github.com/llehouerou/tempo/internal/ui/popup"
)

type pick struct{ source string }

func (pick) ActionType() string { return "test.pick" }

// mockPopup records keys and reports a pick on enter.
type mockPopup struct {
	content    string
	width      int
	height     int
	keyHistory []string
}

var _ popup.Popup = (*mockPopup)(nil)

func newMockPopup(content string) *mockPopup {
	return &mockPopup{content: content}
}

func (m *mockPopup) Init() tea.Cmd {
	return func() tea.Msg { return "init" }
}

func (m *mockPopup) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		m.keyHistory = append(m.keyHistory, key.String())
		if key.Type == tea.KeyEnter {
			return m, func() tea.Msg {
				return action.Msg{Source: "mock", Action: pick{source: m.content}}
			}
		}
	}
	return m, nil
}

func (m *mockPopup) View() string {
	return m.content
}

func (m *mockPopup) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func TestNewPopupHarness_CapturesInit(t *testing.T) {
	mock := newMockPopup("test")
	h := NewPopupHarness(mock)

	if h.Popup() != mock {
		t.Error("Popup() should return the underlying popup")
	}
	if msg := ExecuteCmd(h.LastCommand()); msg != "init" {
		t.Errorf("init message = %v, want init", msg)
	}
}

func TestPopupHarness_SetSize(t *testing.T) {
	mock := newMockPopup("test")
	h := NewPopupHarness(mock)

	h.SetSize(80, 24)

	if mock.width != 80 || mock.height != 24 {
		t.Errorf("SetSize not propagated: got %dx%d, want 80x24", mock.width, mock.height)
	}
}

func TestPopupHarness_Keys(t *testing.T) {
	mock := newMockPopup("test")
	h := NewPopupHarness(mock)

	h.SendKey("a")
	h.SendEnter()
	h.SendEscape()
	h.SendUp()
	h.SendDown()

	want := []string{"a", "enter", "esc", "up", "down"}
	if len(mock.keyHistory) != len(want) {
		t.Fatalf("key history = %v, want %v", mock.keyHistory, want)
	}
	for i := range want {
		if mock.keyHistory[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, mock.keyHistory[i], want[i])
		}
	}
}

func TestPopupHarness_LastAction(t *testing.T) {
	h := NewPopupHarness(newMockPopup("tone:440"))

	if _, ok := h.LastAction(); ok {
		t.Error("init message is not an action")
	}

	h.SendEnter()

	msg, ok := h.LastAction()
	if !ok {
		t.Fatal("expected action.Msg")
	}
	p, ok := msg.Action.(pick)
	if !ok || p.source != "tone:440" || msg.Source != "mock" {
		t.Errorf("action = %+v", msg)
	}
}

func TestPopupHarness_ClearCommands(t *testing.T) {
	h := NewPopupHarness(newMockPopup("test"))

	h.ClearCommands()

	if h.LastCommand() != nil {
		t.Error("LastCommand() should be nil after clear")
	}
	if _, ok := h.LastAction(); ok {
		t.Error("LastAction() should fail after clear")
	}
}

func TestPopupHarness_AssertView(t *testing.T) {
	h := NewPopupHarness(newMockPopup("\x1b[1mRecently played\x1b[0m"))

	if err := h.AssertViewContains("Recently played"); err != "" {
		t.Errorf("unexpected error: %s", err)
	}
	if err := h.AssertViewNotContains("Help"); err != "" {
		t.Errorf("unexpected error: %s", err)
	}
	if err := h.AssertViewContains("Help"); err == "" {
		t.Error("expected error for missing content")
	}
}

func TestExecuteCmd_Nil(t *testing.T) {
	if msg := ExecuteCmd(nil); msg != nil {
		t.Errorf("ExecuteCmd(nil) = %v, want nil", msg)
	}
}
