package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/google/uuid"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	userTag = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("28")).
			Padding(0, 1)

	botTag = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("208")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// renderMessage formats one transcript line. User messages are pushed to the
// right edge when the width is known; bot messages stay on the left.
func renderMessage(m models.Message, width int) string {
	if m.Sender == models.SenderUser {
		line := m.Content + " " + userTag.Render("you")
		if width > 0 {
			return lipgloss.PlaceHorizontal(width, lipgloss.Right, line)
		}
		return line
	}
	return botTag.Render("bot") + " " + m.Content
}

// renderSessions formats the numbered session list, newest first.
func renderSessions(list []models.Session, selected uuid.UUID) string {
	if len(list) == 0 {
		return dimStyle.Render("No chats yet. Start one with /new")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Chats") + "\n")
	for i, s := range list {
		line := fmt.Sprintf("%2d. %s  %s", i+1, s.Label(), dimStyle.Render(s.CreatedAt.Local().Format("2006-01-02 15:04")))
		if s.ID == selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(list)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderError(msg string) string {
	return errorStyle.Render(msg)
}

const emptyStatePlaceholder = "Select a chat with /open <n> or start a new one with /new"
