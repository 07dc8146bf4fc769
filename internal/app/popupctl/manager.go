// Package popupctl owns the modal popups shown over the player.
package popupctl

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tempo/internal/state"
	"github.com/llehouerou/tempo/internal/ui/helpbindings"
	"github.com/llehouerou/tempo/internal/ui/openprompt"
	"github.com/llehouerou/tempo/internal/ui/popup"
	"github.com/llehouerou/tempo/internal/ui/recent"
	"github.com/llehouerou/tempo/internal/ui/styles"
)

// Manager tracks which popups are open and routes keys to the top one.
type Manager struct {
	popups   map[Type]popup.Popup
	sizes    map[Type]popup.SizeConfig
	errorMsg string
	width    int
	height   int
}

// New creates a Manager with no popup open.
func New() *Manager {
	return &Manager{
		popups: make(map[Type]popup.Popup),
		sizes: map[Type]popup.SizeConfig{
			Help:   popup.SizeAuto,
			Open:   popup.SizeAuto,
			Recent: popup.SizeLarge,
			Error:  popup.SizeAuto,
		},
	}
}

// SetSize updates the screen dimensions and resizes open popups.
func (p *Manager) SetSize(width, height int) {
	p.width = width
	p.height = height
	for t, pop := range p.popups {
		if pop == nil {
			continue
		}
		pop.SetSize(p.contentSize(p.sizes[t]))
	}
}

// IsVisible returns true if the popup of type t is open.
func (p *Manager) IsVisible(t Type) bool {
	switch t {
	case None:
		return false
	case Error:
		return p.errorMsg != ""
	case Help, Open, Recent:
		return p.popups[t] != nil
	}
	return false
}

// ActivePopup returns the open popup that receives keys, or None.
func (p *Manager) ActivePopup() Type {
	for _, t := range Priority {
		if p.IsVisible(t) {
			return t
		}
	}
	return None
}

// Show opens pop as type t and returns its init command.
func (p *Manager) Show(t Type, pop popup.Popup) tea.Cmd {
	pop.SetSize(p.contentSize(p.sizes[t]))
	p.popups[t] = pop
	return pop.Init()
}

// Hide closes the popup of type t.
func (p *Manager) Hide(t Type) {
	switch t {
	case None:
	case Error:
		p.errorMsg = ""
	case Help, Open, Recent:
		delete(p.popups, t)
	}
}

// Get returns the popup of type t, or nil.
func (p *Manager) Get(t Type) popup.Popup {
	return p.popups[t]
}

func (p *Manager) contentSize(size popup.SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return p.width * size.WidthPct / 100, p.height * size.HeightPct / 100
	}
	return p.width, p.height
}

// ShowHelp opens the key bindings of the given contexts.
func (p *Manager) ShowHelp(contexts []string) tea.Cmd {
	help := helpbindings.New()
	help.SetContexts(contexts)
	return p.Show(Help, &help)
}

// ShowOpen opens the source prompt prefilled with current.
func (p *Manager) ShowOpen(current string) tea.Cmd {
	prompt := openprompt.New()
	w, h := p.contentSize(p.sizes[Open])
	prompt.Start(current, w, h)
	return p.Show(Open, &prompt)
}

// ShowRecent opens the recently played list.
func (p *Manager) ShowRecent(items []state.Recent) tea.Cmd {
	list := recent.New()
	list.SetItems(items)
	return p.Show(Recent, &list)
}

// Recent returns the open recent list, or nil.
func (p *Manager) Recent() *recent.Model {
	if m, ok := p.popups[Recent].(*recent.Model); ok {
		return m
	}
	return nil
}

// ShowError displays msg until the next key press.
func (p *Manager) ShowError(msg string) {
	p.errorMsg = msg
}

// ErrorMsg returns the error being displayed, if any.
func (p *Manager) ErrorMsg() string {
	return p.errorMsg
}

// HandleKey routes msg to the active popup and reports whether one
// consumed it.
func (p *Manager) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if p.errorMsg != "" {
		p.errorMsg = ""
		return true, nil
	}

	active := p.ActivePopup()
	if active == None {
		return false, nil
	}
	pop := p.popups[active]
	updated, cmd := pop.Update(msg)
	p.popups[active] = updated
	return true, cmd
}

// RenderOverlay draws the open popups over base.
func (p *Manager) RenderOverlay(base string) string {
	for _, t := range RenderOrder {
		if !p.IsVisible(t) {
			continue
		}

		var content string
		if t == Error {
			content = p.renderError()
		} else {
			content = p.popups[t].View()
		}
		if content == "" {
			continue
		}
		rendered := popup.RenderBordered(content, p.width, p.height, p.sizes[t])
		base = popup.Compose(base, rendered, p.width)
	}
	return base
}

func (p *Manager) renderError() string {
	t := styles.T()
	return t.S().Error.Bold(true).Render("Error") + "\n\n" +
		p.errorMsg + "\n\n" +
		t.S().Subtle.Render("Press any key to dismiss")
}
