package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"prostavabot/internal/pkg/logger"
)

// MockEditor is a mock of cardEditor.
type MockEditor struct {
	mock.Mock
}

func (m *MockEditor) ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, messageID, embed)
	msg, _ := args.Get(0).(*discordgo.Message)
	return msg, args.Error(1)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	original := logger.Get()
	t.Cleanup(func() { logger.Set(original) })
	core, logs := observer.New(zap.WarnLevel)
	logger.Set(zap.New(core))
	return logs
}

func TestRefreshCard(t *testing.T) {
	embed := &discordgo.MessageEmbed{Title: "Promotion"}

	t.Run("edits the card", func(t *testing.T) {
		logs := observeLogs(t)
		editor := new(MockEditor)
		editor.On("ChannelMessageEditEmbed", "chan-1", "msg-1", embed).Return(&discordgo.Message{ID: "msg-1"}, nil).Once()

		refreshCard(editor, "chan-1", "msg-1", embed)

		editor.AssertExpectations(t)
		assert.Zero(t, logs.Len())
	})

	t.Run("failed edit is logged", func(t *testing.T) {
		logs := observeLogs(t)
		editor := new(MockEditor)
		editor.On("ChannelMessageEditEmbed", "chan-1", "msg-1", embed).Return(nil, errors.New("missing access")).Once()

		refreshCard(editor, "chan-1", "msg-1", embed)

		entries := logs.FilterMessage("refresh record card").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		assert.Equal(t, "msg-1", entries[0].ContextMap()["message"])
		assert.Equal(t, "missing access", entries[0].ContextMap()["error"])
	})
}
