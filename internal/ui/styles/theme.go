// Package styles holds the color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the application.
type Theme struct {
	// Brand/accent colors
	Primary   lipgloss.Color // Purple - focused items, active section
	Secondary lipgloss.Color // Gold - queued section

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color
	FgBadge  lipgloss.Color // text on badges

	BgCursor lipgloss.Color

	// Borders
	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	// Section type colors
	Intro lipgloss.Color
	Loop  lipgloss.Color
	Outro lipgloss.Color

	Error lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Active  lipgloss.Style // section currently audible
	Pending lipgloss.Style // section queued to play next
	Cursor  lipgloss.Style
	Error   lipgloss.Style
	Badge   lipgloss.Style // base for status badges, colored per use
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),
	FgBadge:  lipgloss.Color("#1a1a1a"),

	BgCursor: lipgloss.Color("#303030"),

	Border:      lipgloss.Color("#585858"),
	BorderFocus: lipgloss.Color("#a78bfa"),

	Intro: lipgloss.Color("#42b883"),
	Loop:  lipgloss.Color("#5fafff"),
	Outro: lipgloss.Color("#ff8787"),

	Error: lipgloss.Color("#ff5555"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Active:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Error: lipgloss.NewStyle().Foreground(t.Error),
		Badge: lipgloss.NewStyle().
			Foreground(t.FgBadge).
			Bold(true).
			Padding(0, 1),
	}
}

// TypeColor returns the color for a section type name ("intro", "loop",
// "outro"); unknown names get the muted color.
func (t *Theme) TypeColor(typ string) lipgloss.Color {
	switch typ {
	case "intro":
		return t.Intro
	case "loop":
		return t.Loop
	case "outro":
		return t.Outro
	default:
		return t.FgMuted
	}
}

// Badge renders text as a filled badge in the given color.
func (t *Theme) Badge(text string, bg lipgloss.Color) string {
	return t.S().Badge.Background(bg).Render(text)
}

// Panel returns a bordered pane, highlighted when focused.
func (t *Theme) Panel(focused bool) lipgloss.Style {
	border := t.Border
	if focused {
		border = t.BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
