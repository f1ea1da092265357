package cli

import (
	"github.com/DeBrosOfficial/cable/pkg/socket"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00D4AA"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D4AA")).
			Bold(true)

	kindStyles = map[socket.Kind]lipgloss.Style{
		socket.KindCreate:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00D4AA")).Bold(true),
		socket.KindUpdate:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C542")).Bold(true),
		socket.KindDelete:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		socket.KindError:   errorStyle,
		socket.KindMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7")),
	}
)

func kindLabel(kind socket.Kind) string {
	style, ok := kindStyles[kind]
	if !ok {
		style = labelStyle
	}
	return style.Render(kind.String())
}
