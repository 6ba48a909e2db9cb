package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/ports/output"
	pkgdiscord "prostavabot/pkg/discord"
)

var _ output.Dispatcher = (*Dispatcher)(nil)

// messageSender is the part of *discordgo.Session the dispatcher needs.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Dispatcher posts command notifications into the group's channel, mentioning the recipient.
type Dispatcher struct {
	sender        messageSender
	groups        output.GroupRepository
	t             output.T
	defaultLocale string
}

func NewDispatcher(sender messageSender, groups output.GroupRepository, t output.T, defaultLocale string) *Dispatcher {
	return &Dispatcher{
		sender:        sender,
		groups:        groups,
		t:             t,
		defaultLocale: defaultLocale,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, groupID, userID string, code entities.CommandCode) error {
	locale := d.defaultLocale
	if group, err := d.groups.FindByID(ctx, groupID); err == nil && group.Settings.Language != "" {
		locale = group.Settings.Language
	}

	text := d.t.T(locale, "notify."+string(code), map[string]any{"Mention": pkgdiscord.Mention(userID)})
	if _, err := d.sender.ChannelMessageSend(groupID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send %s to channel %s: %w", code, groupID, err)
	}
	return nil
}
