package openprompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/ui/testutil"
)

func newTestPrompt(initial string) (*Model, *testutil.PopupHarness) {
	m := New()
	m.Start(initial, 80, 24)
	return &m, testutil.NewPopupHarness(&m)
}

func typeText(h *testutil.PopupHarness, s string) {
	for _, r := range s {
		h.SendKey(string(r))
	}
}

func getOpen(t *testing.T, h *testutil.PopupHarness) Open {
	t.Helper()
	msg, ok := h.LastAction()
	if !ok {
		t.Fatal("expected action.Msg")
	}
	if msg.Source != "openprompt" {
		t.Errorf("Source = %q, want openprompt", msg.Source)
	}
	open, ok := msg.Action.(Open)
	if !ok {
		t.Fatalf("expected Open, got %T", msg.Action)
	}
	return open
}

func TestOpenPrompt_TypeAndOpen(t *testing.T) {
	_, h := newTestPrompt("")

	typeText(h, "tone:880")
	h.SendEnter()

	if got := getOpen(t, h); got.Source != "tone:880" {
		t.Errorf("Source = %q, want tone:880", got.Source)
	}
}

func TestOpenPrompt_InitialValue(t *testing.T) {
	m, h := newTestPrompt("/music/a.mp3")

	if m.Value() != "/music/a.mp3" {
		t.Errorf("Value = %q", m.Value())
	}

	h.SendEnter()

	if got := getOpen(t, h); got.Source != "/music/a.mp3" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestOpenPrompt_TrimsSpace(t *testing.T) {
	_, h := newTestPrompt("  song.ogg ")

	h.SendEnter()

	if got := getOpen(t, h); got.Source != "song.ogg" {
		t.Errorf("Source = %q, want song.ogg", got.Source)
	}
}

func TestOpenPrompt_Backspace(t *testing.T) {
	m, h := newTestPrompt("ab")

	h.SendSpecialKey(tea.KeyBackspace)

	if m.Value() != "a" {
		t.Errorf("Value = %q, want a", m.Value())
	}
}

func TestOpenPrompt_EmptyShowsHint(t *testing.T) {
	_, h := newTestPrompt("")
	h.ClearCommands()

	if cmd := h.SendEnter(); cmd != nil {
		t.Error("empty input should not produce a command")
	}
	if err := h.AssertViewContains(emptySourceHint); err != "" {
		t.Error(err)
	}

	typeText(h, "x")
	h.SendEnter()
	if err := h.AssertViewNotContains(emptySourceHint); err != "" {
		t.Error(err)
	}
}

func TestOpenPrompt_Cancel(t *testing.T) {
	_, h := newTestPrompt("tone:")

	h.SendEscape()

	msg, ok := h.LastAction()
	if !ok {
		t.Fatal("expected action.Msg")
	}
	if _, ok := msg.Action.(Cancel); !ok {
		t.Errorf("expected Cancel, got %T", msg.Action)
	}
}

func TestOpenPrompt_View(t *testing.T) {
	_, h := newTestPrompt("tone:440")

	for _, want := range []string{"Open", "tone:440", "Esc: cancel"} {
		if err := h.AssertViewContains(want); err != "" {
			t.Error(err)
		}
	}
}

func TestOpenPrompt_EmptyViewWhenNoSize(t *testing.T) {
	m := New()
	h := testutil.NewPopupHarness(&m)

	if h.View() != "" {
		t.Errorf("view = %q, want empty when no size", h.View())
	}
}

func TestOpenPrompt_StartClearsProblem(t *testing.T) {
	m, h := newTestPrompt("")
	h.SendEnter()

	m.Start("b.mp3", 80, 24)

	if err := h.AssertViewNotContains(emptySourceHint); err != "" {
		t.Error(err)
	}
}
