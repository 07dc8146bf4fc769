package popupctl

// Type identifies a popup.
type Type int

const (
	None Type = iota
	Help
	Open
	Recent
	Error
)

// Priority lists popups by which one takes keys first.
var Priority = []Type{
	Error,
	Help,
	Open,
	Recent,
}

// RenderOrder lists popups bottom to top.
var RenderOrder = []Type{
	Recent,
	Open,
	Help,
	Error,
}
