package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string
	SurfaceAlt string

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// CategoryColors color the category badge of a notification.
	CategoryColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Danger)).
			Bold(true).
			Padding(0, 1),

		categoryColors: t.CategoryColors,
		muted:          t.Muted,
	}
}

// TableStyles styles the notification table.
func (t Theme) TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(t.Accent)).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(t.Text))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(t.SelectionText)).
		Background(lipgloss.Color(t.SelectionBg)).
		Bold(false)
	return s
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style
	Badge  lipgloss.Style

	categoryColors map[string]string
	muted          string
}

// CategoryStyle returns a foreground style for a notification category.
func (s Styles) CategoryStyle(category string) lipgloss.Style {
	color := s.categoryColors[strings.ToLower(strings.TrimSpace(category))]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func nightfoxTheme() Theme {
	// Nightfox palette: https://github.com/EdenEast/nightfox.nvim
	return Theme{
		Name: "Nightfox",

		Background: "#131a24", // bg0
		Surface:    "#192330", // bg1
		SurfaceAlt: "#212e3f", // bg2

		SelectionBg:   "#2b3b51", // sel0
		SelectionText: "#cdcecf", // fg1

		Border:      "#39506d", // bg4
		BorderFocus: "#719cd6", // blue

		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#71839b",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Info:    "#63cdcf",

		CategoryColors: map[string]string{
			"billing":  "#dbc074", // yellow
			"document": "#63cdcf", // cyan
			"system":   "#9d79d6", // magenta
			"account":  "#81b29a", // green
		},
	}
}

func kanagawaTheme() Theme {
	// Kanagawa palette: https://github.com/rebelot/kanagawa.nvim
	return Theme{
		Name: "Kanagawa",

		Background: "#16161D", // sumiInk0
		Surface:    "#1F1F28", // sumiInk3
		SurfaceAlt: "#2A2A37", // sumiInk4

		SelectionBg:   "#2D4F67", // waveBlue1
		SelectionText: "#DCD7BA", // fujiWhite

		Border:      "#54546D", // sumiInk6
		BorderFocus: "#7E9CD8", // crystalBlue

		Text:    "#DCD7BA",
		Muted:   "#C8C093",
		Faint:   "#727169",
		Accent:  "#7E9CD8",
		Success: "#98BB6C",
		Warning: "#E6C384",
		Danger:  "#E46876",
		Info:    "#7FB4CA",

		CategoryColors: map[string]string{
			"billing":  "#E6C384", // carpYellow
			"document": "#7FB4CA", // springBlue
			"system":   "#957FB8", // oniViolet
			"account":  "#98BB6C", // springGreen
		},
	}
}

func slateTheme() Theme {
	// Tailwind CSS Slate/Sky palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Slate",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		SurfaceAlt: "#1e293b", // slate-800

		SelectionBg:   "#0284c7", // sky-600
		SelectionText: "#f8fafc", // slate-50

		Border:      "#334155", // slate-700
		BorderFocus: "#38bdf8", // sky-400

		Text:    "#f1f5f9",
		Muted:   "#94a3b8",
		Faint:   "#64748b",
		Accent:  "#38bdf8",
		Success: "#22c55e",
		Warning: "#f59e0b",
		Danger:  "#ef4444",
		Info:    "#06b6d4",

		CategoryColors: map[string]string{
			"billing":  "#f59e0b", // amber-500
			"document": "#22d3ee", // cyan-400
			"system":   "#a78bfa", // violet-400
			"account":  "#22c55e", // green-500
		},
	}
}
