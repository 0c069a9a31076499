package styles

import "github.com/charmbracelet/lipgloss"

// Palette is one color scheme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	Bg        lipgloss.Color
	// SelectedText is drawn on a Primary background.
	SelectedText lipgloss.Color
	// Dim is the background of an unfocused table selection.
	Dim lipgloss.Color
}

var (
	DarkPalette = Palette{
		Primary:      "#F59E0B", // amber
		Secondary:    "#06B6D4", // cyan
		Success:      "#22C55E",
		Warning:      "#EAB308",
		Error:        "#EF4444",
		Muted:        "#6B7280",
		Text:         "#E5E7EB",
		Bg:           "#111827",
		SelectedText: "#111827",
		Dim:          "#333333",
	}

	LightPalette = Palette{
		Primary:      "#B45309",
		Secondary:    "#0E7490",
		Success:      "#15803D",
		Warning:      "#A16207",
		Error:        "#B91C1C",
		Muted:        "#6B7280",
		Text:         "#1F2937",
		Bg:           "#F9FAFB",
		SelectedText: "#FFFFFF",
		Dim:          "#D1D5DB",
	}
)

var (
	dark = true

	// Colors
	Primary      lipgloss.Color
	Secondary    lipgloss.Color
	Success      lipgloss.Color
	Warning      lipgloss.Color
	Error        lipgloss.Color
	Muted        lipgloss.Color
	Text         lipgloss.Color
	SelectedText lipgloss.Color
	Dim          lipgloss.Color

	// Component styles
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	ActiveItem    lipgloss.Style
	InactiveItem  lipgloss.Style
	StatusBar     lipgloss.Style
	Border        lipgloss.Style
	FocusedBorder lipgloss.Style
	ErrorText     lipgloss.Style
	Hint          lipgloss.Style
)

func init() {
	Apply(true)
}

// Dark reports whether the dark palette is active.
func Dark() bool {
	return dark
}

// Apply switches every color and style to the dark or light palette.
// Views read the package variables at render time, so the change shows on
// the next frame.
func Apply(isDark bool) {
	dark = isDark
	p := LightPalette
	if isDark {
		p = DarkPalette
	}

	Primary = p.Primary
	Secondary = p.Secondary
	Success = p.Success
	Warning = p.Warning
	Error = p.Error
	Muted = p.Muted
	Text = p.Text
	SelectedText = p.SelectedText
	Dim = p.Dim

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(14)

	Value = lipgloss.NewStyle().
		Foreground(Text)

	ActiveItem = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	InactiveItem = lipgloss.NewStyle().
		Foreground(Muted)

	StatusBar = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	Border = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	FocusedBorder = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(1, 2)

	ErrorText = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true)
}
