package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"prostavabot/internal/pkg/logger"
)

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	guildID string
	handler *Handler
}

// NewSession builds the client shared by the bot and the dispatcher. The
// gateway connection opens in Bot.Start.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

// NewBot routes interactions on session to handler. guildID scopes command
// registration; empty registers them globally.
func NewBot(session *discordgo.Session, guildID string, handler *Handler) *Bot {
	bot := &Bot{
		session: session,
		guildID: guildID,
		handler: handler,
	}
	bot.setupHandlers()
	return bot
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handleInteraction)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handler.HandleCommand(s, i)
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handler.HandleAutocomplete(s, i)
	case discordgo.InteractionModalSubmit:
		b.handler.HandleModalSubmit(s, i)
	case discordgo.InteractionMessageComponent:
		if strings.HasPrefix(i.MessageComponentData().CustomID, ratePrefix) {
			b.handler.HandleRateButton(s, i)
		}
	}
}

// Start opens the gateway, registers the commands and blocks until ctx ends.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range applicationCommands(b.handler.t.Languages()) {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd); err != nil {
			logger.Warn("register command", zap.String("command", cmd.Name), zap.Error(err))
		}
	}

	logger.Info("🤖 bot online", zap.String("user", b.session.State.User.Username))
	<-ctx.Done()
	return nil
}
