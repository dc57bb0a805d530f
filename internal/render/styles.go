package render

import "github.com/charmbracelet/lipgloss"

// Color palette for diff output
var (
	EqualColor    = lipgloss.Color("#8BC34A") // Lime green
	MismatchColor = lipgloss.Color("#e53935") // Red
	LeftColor     = lipgloss.Color("#ff8a65") // Orange
	RightColor    = lipgloss.Color("#2196F3") // Blue
	KeyColor      = lipgloss.Color("#ffd54f") // Yellow
	HeaderColor   = lipgloss.Color("#4db6ac") // Teal
	MutedColor    = lipgloss.Color("#9e9e9e") // Grey
)

// Styles holds the lipgloss styles used by the text renderer
type Styles struct {
	Equal     lipgloss.Style
	Mismatch  lipgloss.Style
	Left      lipgloss.Style
	Right     lipgloss.Style
	Key       lipgloss.Style
	Container lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Title     lipgloss.Style
}

// DefaultStyles returns the colored style set
func DefaultStyles() Styles {
	return Styles{
		Equal: lipgloss.NewStyle().
			Foreground(EqualColor),
		Mismatch: lipgloss.NewStyle().
			Foreground(MismatchColor).
			Bold(true),
		Left: lipgloss.NewStyle().
			Foreground(LeftColor),
		Right: lipgloss.NewStyle().
			Foreground(RightColor),
		Key: lipgloss.NewStyle().
			Foreground(KeyColor),
		Container: lipgloss.NewStyle().
			Foreground(HeaderColor).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(MismatchColor).
			Bold(true),
		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
	}
}
