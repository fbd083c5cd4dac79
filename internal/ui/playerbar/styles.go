package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/mysxn/internal/ui/styles"
)

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(styles.T().Border).
	Padding(0, 1)
