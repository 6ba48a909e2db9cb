package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/domain/quorum"
)

// Translate renders a message key in the caller's locale.
type Translate func(key string, data map[string]any) string

var statusColors = map[entities.Status]int{
	entities.StatusNew:      0x99AAB5,
	entities.StatusPending:  0x5865F2,
	entities.StatusApproved: 0x57F287,
	entities.StatusRejected: 0xED4245,
}

func Mention(userID string) string {
	if userID == "" {
		return ""
	}
	return fmt.Sprintf("<@%s>", userID)
}

// BuildRecordEmbed renders a record card. Vote and rating fields appear once
// the record has been announced.
func BuildRecordEmbed(r *entities.Record, loc *time.Location, t Translate) *discordgo.MessageEmbed {
	kind := t("embed.event", nil)
	if r.IsRequest {
		kind = t("embed.request", nil)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: t("embed.status", nil), Value: t("status."+string(r.Status), nil), Inline: true},
	}
	author := Mention(r.Author)
	if author == "" {
		author = t("embed.nobody", nil)
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: t("embed.author", nil), Value: author, Inline: true})
	if r.IsRequest {
		fields = append(fields, &discordgo.MessageEmbedField{Name: t("embed.creator", nil), Value: Mention(r.Creator), Inline: true})
	}
	if !r.Data.Date.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: t("embed.date", nil), Value: FormatEventDateTime(r.Data.Date, loc), Inline: true})
	}
	if venue := venueText(r.Data.Venue); venue != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: t("embed.venue", nil), Value: venue, Inline: true})
	}
	if cost := r.Data.Cost.String(); cost != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: t("embed.cost", nil), Value: cost, Inline: true})
	}
	if r.Status != entities.StatusNew {
		fields = append(fields,
			&discordgo.MessageEmbedField{Name: t("embed.votes", nil), Value: quorum.ParticipantsVotesString(r), Inline: true},
			&discordgo.MessageEmbedField{Name: t("embed.rating", nil), Value: quorum.RatingString(r.Rating), Inline: true},
		)
	}
	if r.Status == entities.StatusPending && !r.ClosingDate.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: t("embed.closing", nil), Value: FormatEventDateTime(r.ClosingDate, loc), Inline: true})
	}

	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s · %s", kind, r.Data.Title),
		Color:  statusColors[r.Status],
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: r.ID},
	}
}

func venueText(v entities.Venue) string {
	parts := make([]string, 0, 3)
	if s := v.String(); s != "" {
		parts = append(parts, s)
	}
	if v.Address != "" {
		parts = append(parts, v.Address)
	}
	if v.Location != nil {
		parts = append(parts, fmt.Sprintf("[%.5f, %.5f](https://maps.google.com/?q=%f,%f)",
			v.Location.Latitude, v.Location.Longitude, v.Location.Latitude, v.Location.Longitude))
	}
	return strings.Join(parts, "\n")
}

// RecordLine is the one-line summary used in listings.
func RecordLine(r *entities.Record, t Translate) string {
	line := fmt.Sprintf("`%s` **%s** · %s", r.ID, r.Data.Title, t("status."+string(r.Status), nil))
	if r.Status == entities.StatusApproved || r.Status == entities.StatusRejected {
		line += " · " + quorum.RatingString(r.Rating)
	}
	return line
}
