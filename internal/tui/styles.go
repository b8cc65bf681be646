package tui

import (
	"github.com/MKhiriev/lks-registry/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	bannerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	activeTabStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	tabStyle        = lipgloss.NewStyle().Faint(true)
	selectedStyle   = lipgloss.NewStyle().Reverse(true)
	unreadStyle     = lipgloss.NewStyle().Bold(true)
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

var statusStyles = map[models.SyncStatus]lipgloss.Style{
	models.SyncIdle:      lipgloss.NewStyle().Faint(true),
	models.SyncConnected: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	models.SyncSyncing:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	models.SyncError:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
}
