package discord

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/pkg/logger"
	pkgdiscord "prostavabot/pkg/discord"
)

const ratePrefix = "rate:"

func ratingLabel(v int) string {
	return strings.Repeat("🍺", v)
}

// rateCustomID encodes the record and value a rating button submits.
func rateCustomID(recordID string, rating int) string {
	return ratePrefix + recordID + ":" + strconv.Itoa(rating)
}

func parseRateCustomID(customID string) (recordID string, rating int, ok bool) {
	rest, found := strings.CutPrefix(customID, ratePrefix)
	if !found {
		return "", 0, false
	}
	sep := strings.LastIndex(rest, ":")
	if sep <= 0 {
		return "", 0, false
	}
	rating, err := strconv.Atoi(rest[sep+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:sep], rating, true
}

// ratingComponents is the button grid under an announced record: one row of
// 1..5 and a row with the "not attended" button.
func ratingComponents(recordID string, tr pkgdiscord.Translate) []discordgo.MessageComponent {
	stars := make([]discordgo.MessageComponent, 0, entities.RatingMax)
	for v := entities.RatingMin; v <= entities.RatingMax; v++ {
		stars = append(stars, discordgo.Button{
			Label:    strconv.Itoa(v),
			Emoji:    &discordgo.ComponentEmoji{Name: "🍺"},
			Style:    discordgo.PrimaryButton,
			CustomID: rateCustomID(recordID, v),
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: stars},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    tr("button.absent", nil),
				Style:    discordgo.SecondaryButton,
				CustomID: rateCustomID(recordID, entities.RatingAbsent),
			},
		}},
	}
}

type cardEditor interface {
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// refreshCard redraws the record card under the buttons. The rating is
// already stored, so a failed edit is only logged.
func refreshCard(editor cardEditor, channelID, messageID string, embed *discordgo.MessageEmbed) {
	if _, err := editor.ChannelMessageEditEmbed(channelID, messageID, embed); err != nil {
		logger.Warn("refresh record card",
			zap.String("channel", channelID),
			zap.String("message", messageID),
			zap.Error(err))
	}
}

func (h *Handler) HandleRateButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	recordID, rating, ok := parseRateCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	ic, cancel := h.begin(i)
	defer cancel()
	h.rate(s, i, ic, recordID, rating, true)
}

// rate stores the rating. Button clicks also refresh the card they came from.
func (h *Handler) rate(s *discordgo.Session, i *discordgo.InteractionCreate, ic *interactionCtx, id string, rating int, fromButton bool) {
	r, err := h.records.SubmitRating(ic.ctx, id, ic.userID, rating)
	if err != nil {
		h.fail(s, i, ic, "rate", err)
		return
	}
	if fromButton && i.Message != nil {
		refreshCard(s, i.ChannelID, i.Message.ID, recordEmbed(r, ic))
	}
	key := "reply.rated"
	if rating == entities.RatingAbsent {
		key = "reply.rated_absent"
	}
	respondEphemeral(s, i.Interaction, "🍻 "+ic.tr(key, nil))
}
