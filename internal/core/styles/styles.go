// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"sort"

	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/colonyops/assess/internal/core/assessment"
)

// Palette defines a minimal semantic theme palette. Colors are hex strings.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    "#7aa2f7",
		Secondary:  "#7dcfff",
		Foreground: "#c0caf5",
		Muted:      "#565f89",
		Surface:    "#3b4261",
		Success:    "#9ece6a",
		Warning:    "#e0af68",
		Error:      "#f7768e",
	},
	"gruvbox": {
		Primary:    "#83a598",
		Secondary:  "#8ec07c",
		Foreground: "#ebdbb2",
		Muted:      "#665c54",
		Surface:    "#3c3836",
		Success:    "#b8bb26",
		Warning:    "#fabd2f",
		Error:      "#fb4934",
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	HeaderStyle  lipgloss.Style
	LabelStyle   lipgloss.Style
	ValueStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	DividerStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	LabelStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	ValueStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	MutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	DividerStyle = lipgloss.NewStyle().Foreground(p.Surface)
	SuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

// StatusStyle returns the style for a task status.
func StatusStyle(s assessment.Status) lipgloss.Style {
	switch s {
	case assessment.StatusCompleted:
		return SuccessStyle
	case assessment.StatusInProgress:
		return WarningStyle
	}
	return MutedStyle
}

// RatingStyle returns the style for an item rating.
func RatingStyle(r assessment.Rating) lipgloss.Style {
	switch r {
	case assessment.RatingCompliant:
		return SuccessStyle
	case assessment.RatingPartial:
		return WarningStyle
	case assessment.RatingNonCompliant:
		return ErrorStyle
	}
	return MutedStyle
}

// ScoreStyle colors a compliance percentage: 80 and above is good, below 60
// is failing.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return SuccessStyle
	case score >= 60:
		return WarningStyle
	}
	return ErrorStyle
}

// Table renders rows under headers with the active palette.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(DividerStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return ValueStyle.Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

func hex(c lipgloss.Color) *string {
	s := string(c)
	return &s
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig
	p := CurrentPalette

	cfg.Document.Color = hex(p.Foreground)
	cfg.Paragraph.Color = hex(p.Foreground)

	cfg.Heading.Color = hex(p.Primary)
	cfg.H1.Color = hex(p.Foreground)
	cfg.H1.BackgroundColor = hex(p.Surface)
	cfg.H2.Color = hex(p.Primary)
	cfg.H3.Color = hex(p.Secondary)

	cfg.Strong.Color = hex(p.Success)
	cfg.HorizontalRule.Color = hex(p.Muted)
	cfg.Table.Color = hex(p.Foreground)

	return cfg
}
