package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a modal component. The manager draws the border and centers it,
// so View renders content only.
type Popup interface {
	Init() tea.Cmd
	Update(tea.Msg) (Popup, tea.Cmd)
	View() string
	// SetSize receives the content area left inside the border.
	SetSize(width, height int)
}
