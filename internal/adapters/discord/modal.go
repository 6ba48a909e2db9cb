package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/ports/input"
	pkgdiscord "prostavabot/pkg/discord"
)

// Modal custom IDs. Request and edit modals carry the author or record ID after the prefix.
const (
	modalCreate  = "record_create"
	modalRequest = "record_request:"
	modalEdit    = "record_edit:"
)

const (
	fieldTitle   = "title"
	fieldDate    = "date"
	fieldVenue   = "venue"
	fieldAddress = "address"
	fieldCost    = "cost"
)

// recordModal builds the event form, prefilled from data when editing.
func recordModal(customID, title string, data *entities.EventData, ic *interactionCtx) *discordgo.InteractionResponseData {
	var values [5]string
	if data != nil {
		values[0] = data.Title
		values[1] = pkgdiscord.FormatEventDateTime(data.Date, ic.loc)
		values[2] = data.Venue.Title
		values[3] = data.Venue.Address
		if values[3] == "" && data.Venue.Location != nil {
			values[3] = fmt.Sprintf("%f, %f", data.Venue.Location.Latitude, data.Venue.Location.Longitude)
		}
		if data.Cost.Amount > 0 {
			values[4] = data.Cost.String()
		}
	}

	return &discordgo.InteractionResponseData{
		CustomID: customID,
		Title:    title,
		Components: []discordgo.MessageComponent{
			pkgdiscord.TextRow(discordgo.TextInput{CustomID: fieldTitle, Label: ic.tr("field.title", nil), Style: discordgo.TextInputShort, Required: true, MaxLength: 100, Value: values[0]}),
			pkgdiscord.TextRow(discordgo.TextInput{CustomID: fieldDate, Label: ic.tr("field.date", nil), Style: discordgo.TextInputShort, Required: true, Placeholder: "15.02.2026 19:30", Value: values[1]}),
			pkgdiscord.TextRow(discordgo.TextInput{CustomID: fieldVenue, Label: ic.tr("field.venue", nil), Style: discordgo.TextInputShort, Required: false, MaxLength: 100, Value: values[2]}),
			pkgdiscord.TextRow(discordgo.TextInput{CustomID: fieldAddress, Label: ic.tr("field.address", nil), Style: discordgo.TextInputShort, Required: false, Value: values[3]}),
			pkgdiscord.TextRow(discordgo.TextInput{CustomID: fieldCost, Label: ic.tr("field.cost", nil), Style: discordgo.TextInputShort, Required: true, Placeholder: "1500 " + ic.settings.Currency, Value: values[4]}),
		},
	}
}

// parseEventData turns the submitted form into event data in the group's zone and currency.
func parseEventData(values map[string]string, ic *interactionCtx) (entities.EventData, error) {
	date, err := pkgdiscord.ParseEventDateTime(values[fieldDate], ic.loc)
	if err != nil {
		return entities.EventData{}, err
	}
	cost, err := pkgdiscord.ParseCost(values[fieldCost], ic.settings.Currency)
	if err != nil {
		return entities.EventData{}, err
	}
	venue := entities.Venue{Title: strings.TrimSpace(values[fieldVenue])}
	address := strings.TrimSpace(values[fieldAddress])
	if loc, ok := pkgdiscord.ParseLocation(address); ok {
		venue.Location = loc
	} else {
		venue.Address = address
	}
	return entities.EventData{
		Title: strings.TrimSpace(values[fieldTitle]),
		Date:  date,
		Venue: venue,
		Cost:  cost,
	}, nil
}

func (h *Handler) openEditModal(s *discordgo.Session, i *discordgo.InteractionCreate, ic *interactionCtx, id string) {
	r, err := h.records.Get(ic.ctx, id)
	if err != nil {
		h.fail(s, i, ic, "edit", err)
		return
	}
	respondModal(s, i.Interaction, recordModal(modalEdit+r.ID, ic.tr("modal.edit", nil), &r.Data, ic))
}

func (h *Handler) HandleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ic, cancel := h.begin(i)
	defer cancel()

	modal := i.ModalSubmitData()
	data, err := parseEventData(pkgdiscord.ModalValues(modal), ic)
	if err != nil {
		h.fail(s, i, ic, "submit", err)
		return
	}

	switch {
	case modal.CustomID == modalCreate:
		r, err := h.records.Create(ic.ctx, input.CreateRecordInput{GroupID: ic.groupID, Creator: ic.userID, Data: data})
		if err != nil {
			h.fail(s, i, ic, "create", err)
			return
		}
		respond(s, i.Interaction, &discordgo.InteractionResponseData{
			Content: ic.tr("reply.created", map[string]any{"ID": r.ID}),
			Embeds:  []*discordgo.MessageEmbed{recordEmbed(r, ic)},
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	case strings.HasPrefix(modal.CustomID, modalRequest):
		author := strings.TrimPrefix(modal.CustomID, modalRequest)
		r, err := h.records.Create(ic.ctx, input.CreateRecordInput{
			GroupID:   ic.groupID,
			Creator:   ic.userID,
			Author:    author,
			IsRequest: true,
			Data:      data,
		})
		if err != nil {
			h.fail(s, i, ic, "request", err)
			return
		}
		respond(s, i.Interaction, &discordgo.InteractionResponseData{
			Content: ic.tr("reply.request_created", map[string]any{"ID": r.ID, "Mention": pkgdiscord.Mention(author)}),
			Embeds:  []*discordgo.MessageEmbed{recordEmbed(r, ic)},
		})
	case strings.HasPrefix(modal.CustomID, modalEdit):
		r, err := h.records.UpdateData(ic.ctx, strings.TrimPrefix(modal.CustomID, modalEdit), ic.userID, data)
		if err != nil {
			h.fail(s, i, ic, "edit", err)
			return
		}
		respond(s, i.Interaction, &discordgo.InteractionResponseData{
			Content: "✏️ " + ic.tr("reply.updated", nil),
			Embeds:  []*discordgo.MessageEmbed{recordEmbed(r, ic)},
			Flags:   discordgo.MessageFlagsEphemeral,
		})
	}
}
