package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/mysxn/internal/clock"
	"github.com/llehouerou/mysxn/internal/ui/styles"
)

var (
	filledCell = "━"
	emptyCell  = "─"
	seekCell   = "●"
)

// RenderProgressBar renders position within the section.
// Format: 1:23.4  ━━━━━●──────  4:56.0
func RenderProgressBar(position, duration time.Duration, width int, seeking bool) string {
	posStr := clock.Format(position)
	durStr := clock.Format(duration)

	fixedWidth := lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return posStr + " / " + durStr
	}

	filled := Filled(position, duration, barWidth)
	t := styles.T()
	var bar string
	if seeking && filled < barWidth {
		bar = styles.GradientBar(filledCell, filled, t.Primary, t.Secondary) +
			t.S().Pending.Render(seekCell) +
			t.S().Subtle.Render(strings.Repeat(emptyCell, barWidth-filled-1))
	} else {
		bar = styles.GradientBar(filledCell, filled, t.Primary, t.Secondary) +
			t.S().Subtle.Render(strings.Repeat(emptyCell, barWidth-filled))
	}
	return posStr + "  " + bar + "  " + durStr
}

// Filled returns how many of width cells represent position.
func Filled(position, duration time.Duration, width int) int {
	if duration <= 0 || width <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	return min(max(int(float64(width)*ratio), 0), width)
}
