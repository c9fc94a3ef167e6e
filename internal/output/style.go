package output

import "github.com/charmbracelet/lipgloss"

// Catppuccin Macchiato accents.
const (
	colorGreen    = lipgloss.Color("#a6da95")
	colorRed      = lipgloss.Color("#ed8796")
	colorOverlay0 = lipgloss.Color("#6e738d")
)

type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle().Foreground(colorGreen),
		Warning: lipgloss.NewStyle().Foreground(colorRed),
		Muted:   lipgloss.NewStyle().Foreground(colorOverlay0),
	}
}

// PlainStyles renders without escape codes, for --no-color and piped output.
func PlainStyles() Styles {
	return Styles{
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
	}
}
