package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/nexuschat/internal/client/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRenderMessage_UserRightBotLeft(t *testing.T) {
	user := models.Message{Content: "hello", Sender: models.SenderUser}
	bot := models.Message{Content: "hi there", Sender: models.SenderBot}

	out := renderMessage(user, 40)
	assert.Equal(t, 40, lipgloss.Width(out))
	assert.True(t, strings.HasPrefix(out, " "))
	assert.Contains(t, out, "hello")

	out = renderMessage(bot, 40)
	assert.False(t, strings.HasPrefix(out, " "+" "))
	assert.True(t, strings.HasSuffix(out, "hi there"))
}

func TestRenderMessage_UnknownWidth(t *testing.T) {
	out := renderMessage(models.Message{Content: "hello", Sender: models.SenderUser}, 0)
	assert.True(t, strings.HasPrefix(out, "hello"))
}

func TestRenderSessions(t *testing.T) {
	assert.Contains(t, renderSessions(nil, uuid.Nil), "No chats yet")

	out := renderSessions([]models.Session{s1, s2}, s2.ID)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[1], " 1. "+s1.Label())
	assert.NotContains(t, lines[1], ">")
	assert.Contains(t, lines[2], "> ")
	assert.Contains(t, lines[2], " 2. "+s2.Label())
}

func TestIsNarrow(t *testing.T) {
	assert.False(t, isNarrow(0))
	assert.True(t, isNarrow(60))
	assert.False(t, isNarrow(narrowWidth))
	assert.False(t, isNarrow(200))
}

func TestTerminalWidth(t *testing.T) {
	orig := getTermSize
	t.Cleanup(func() { getTermSize = orig })

	getTermSize = func(int) (int, int, error) { return 100, 40, nil }
	assert.Equal(t, 100, terminalWidth())

	getTermSize = func(int) (int, int, error) { return 0, 0, errBoom }
	assert.Equal(t, 0, terminalWidth())
}
