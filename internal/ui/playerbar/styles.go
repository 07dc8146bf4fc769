package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tempo/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
	waitSymbol  = "◌"
)

func barStyle() lipgloss.Style { return styles.T().S().Panel }

func titleStyle() lipgloss.Style { return styles.T().S().Title }

func artistStyle() lipgloss.Style { return styles.T().S().Muted }

func metaStyle() lipgloss.Style { return styles.T().S().Subtle }

func timeStyle() lipgloss.Style { return styles.T().S().Base }

func bufferedStyle() lipgloss.Style { return styles.T().S().Muted }

func emptyStyle() lipgloss.Style { return styles.T().S().Subtle }

func markerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.T().Secondary).Bold(true)
}
