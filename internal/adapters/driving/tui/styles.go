package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	badgeReady = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("28")).
			Padding(0, 1)

	badgePending = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("94")).
			Padding(0, 1)

	badgeError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("124")).
			Padding(0, 1)
)

// statusBadge renders a colored badge for a summary status.
func statusBadge(status domain.SummaryStatus) string {
	switch status {
	case domain.StatusReady:
		return badgeReady.Render("READY")
	case domain.StatusError:
		return badgeError.Render("ERROR")
	default:
		return badgePending.Render("PENDING")
	}
}
