package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyBoldGradient renders bold text with a horizontal color gradient.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return paint(clusters, from, to, true)
}

// GradientBar renders n copies of cell blended from one color to another.
func GradientBar(cell string, n int, from, to lipgloss.Color) string {
	if n <= 0 {
		return ""
	}
	cells := make([]string, n)
	for i := range cells {
		cells[i] = cell
	}
	return paint(cells, from, to, false)
}

func paint(cells []string, from, to lipgloss.Color, bold bool) string {
	if len(cells) == 0 {
		return ""
	}
	colors := Blend(len(cells), from, to)
	var b strings.Builder
	for i, c := range cells {
		style := lipgloss.NewStyle().Foreground(colors[i])
		if bold {
			style = style.Bold(true)
		}
		b.WriteString(style.Render(c))
	}
	return b.String()
}

// Blend returns size colors spaced evenly from one color to another in HCL
// space.
func Blend(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size < 2 {
		return []lipgloss.Color{from}
	}

	c1, _ := colorful.MakeColor(toColor(from))
	c2, _ := colorful.MakeColor(toColor(to))

	out := make([]lipgloss.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		out[i] = lipgloss.Color(c1.BlendHcl(c2, t).Clamped().Hex())
	}
	return out
}

// toColor converts a hex lipgloss.Color; ANSI indices become neutral gray.
func toColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		if col, err := colorful.Hex(hex); err == nil {
			return col
		}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
