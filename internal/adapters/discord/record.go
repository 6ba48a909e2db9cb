package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/pkg/logger"
	pkgdiscord "prostavabot/pkg/discord"
)

// autocompleteLimit is the most choices Discord accepts in one autocomplete answer.
const autocompleteLimit = 25

func recordEmbed(r *entities.Record, ic *interactionCtx) *discordgo.MessageEmbed {
	return pkgdiscord.BuildRecordEmbed(r, ic.loc, ic.tr)
}

// announce opens rating and posts the card with the rating buttons to the channel.
func (h *Handler) announce(s *discordgo.Session, i *discordgo.InteractionCreate, ic *interactionCtx, id string) {
	r, err := h.records.Announce(ic.ctx, id, ic.userID)
	if err != nil {
		h.fail(s, i, ic, "announce", err)
		return
	}
	respond(s, i.Interaction, &discordgo.InteractionResponseData{
		Content:    ic.tr("reply.announced", map[string]any{"Closing": pkgdiscord.FormatEventDateTime(r.ClosingDate, ic.loc)}),
		Embeds:     []*discordgo.MessageEmbed{recordEmbed(r, ic)},
		Components: ratingComponents(r.ID, ic.tr),
	})
}

func (h *Handler) list(s *discordgo.Session, i *discordgo.InteractionCreate, ic *interactionCtx) {
	records, err := h.records.ListByGroup(ic.ctx, ic.groupID)
	if err != nil {
		h.fail(s, i, ic, "list", err)
		return
	}
	if len(records) == 0 {
		respondEphemeral(s, i.Interaction, ic.tr("reply.no_records", nil))
		return
	}
	lines := make([]string, 0, len(records))
	for idx := range records {
		lines = append(lines, pkgdiscord.RecordLine(&records[idx], ic.tr))
	}
	respondEphemeral(s, i.Interaction, truncate(strings.Join(lines, "\n"), 2000))
}

// HandleAutocomplete suggests the chat's records for the id option, newest first.
func (h *Handler) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ic, cancel := h.begin(i)
	defer cancel()

	records, err := h.records.ListByGroup(ic.ctx, ic.groupID)
	if err != nil {
		logger.Warn("autocomplete records", zap.String("group", ic.groupID), zap.Error(err))
		records = nil
	}

	typed := ""
	if _, opts := subcommand(i.ApplicationCommandData()); opts != nil {
		if o, ok := opts[optionID]; ok && o.Focused {
			typed = o.StringValue()
		}
	}

	choices := recordChoices(records, typed, ic.tr)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		logger.Warn("autocomplete respond", zap.Error(err))
	}
}

func recordChoices(records []entities.Record, typed string, tr pkgdiscord.Translate) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, autocompleteLimit)
	for idx := len(records) - 1; idx >= 0 && len(choices) < autocompleteLimit; idx-- {
		r := &records[idx]
		if typed != "" && !strings.Contains(strings.ToLower(r.Data.Title), typed) && !strings.HasPrefix(r.ID, typed) {
			continue
		}
		name := r.Data.Title
		if name == "" {
			name = r.ID
		}
		name = truncate(name+" · "+tr("status."+string(r.Status), nil), 100)
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: r.ID})
	}
	return choices
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
