package discord

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/pkg/tz"
)

func (h *Handler) handleSettingsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	ic, cancel := h.begin(i)
	defer cancel()

	name, opts := subcommand(data)
	settings := ic.settings
	if name == "set" {
		if err := checkSettingsOptions(opts, h.t.Languages()); err != nil {
			h.fail(s, i, ic, "settings", err)
			return
		}
		updated, err := h.groups.UpdateSettings(ic.ctx, ic.groupID, func(gs *entities.GroupSettings) {
			applySettingsOptions(gs, opts)
		})
		if err != nil {
			h.fail(s, i, ic, "settings", err)
			return
		}
		settings = updated
		ic.tr = func(key string, data map[string]any) string {
			return h.t.T(settings.Language, key, data)
		}
	}

	text := ic.tr("settings.show", settingsView(settings))
	if name == "set" {
		text = "✅ " + ic.tr("reply.settings_saved", nil) + "\n" + text
	}
	respondEphemeral(s, i.Interaction, text)
}

// checkSettingsOptions rejects values the group service cannot judge: time
// zones missing from the tz database and languages without a bundle.
func checkSettingsOptions(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, languages []string) error {
	if o, ok := opts["timezone"]; ok && !tz.Valid(o.StringValue()) {
		return fmt.Errorf("%w: unknown time zone %q", domain.ErrInvalidSettings, o.StringValue())
	}
	if o, ok := opts["language"]; ok && !slices.Contains(languages, o.StringValue()) {
		return fmt.Errorf("%w: no messages for language %q", domain.ErrInvalidSettings, o.StringValue())
	}
	return nil
}

func applySettingsOptions(gs *entities.GroupSettings, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	for name, o := range opts {
		switch name {
		case "members":
			gs.ChatMembersCount = int(o.IntValue())
		case "percent":
			gs.ParticipantsMinPercent = int(o.IntValue())
		case "pending_hours":
			gs.PendingHours = int(o.IntValue())
		case "days_ago":
			gs.CreateDaysAgo = int(o.IntValue())
		case "currency":
			gs.Currency = strings.TrimSpace(o.StringValue())
		case "language":
			gs.Language = o.StringValue()
		case "timezone":
			gs.Timezone = o.StringValue()
		case "name":
			gs.Name = strings.TrimSpace(o.StringValue())
		}
	}
}

func settingsView(gs entities.GroupSettings) map[string]any {
	return map[string]any{
		"Name":     gs.Name,
		"Members":  gs.ChatMembersCount,
		"Percent":  gs.ParticipantsMinPercent,
		"Hours":    gs.PendingHours,
		"Days":     gs.CreateDaysAgo,
		"Language": gs.Language,
		"Currency": gs.Currency,
		"Timezone": gs.Timezone,
	}
}
