package discord

import (
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	commandRecord   = "record"
	commandSettings = "settings"

	optionID     = "id"
	optionAuthor = "author"
	optionRating = "rating"
)

var minZero = 0.0

func recordIDOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         optionID,
		Description:  "Record",
		Required:     true,
		Autocomplete: true,
	}
}

// languageChoices offers every bundled language under its own name.
func languageChoices(languages []string) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(languages))
	for _, lang := range languages {
		name := display.Self.Name(language.Make(lang))
		if name == "" {
			name = lang
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: lang})
	}
	return choices
}

// applicationCommands lists the slash commands registered at startup.
func applicationCommands(languages []string) []*discordgo.ApplicationCommand {
	dmPermission := false
	ratingChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "I wasn't there", Value: -1},
	}
	for v := 1; v <= 5; v++ {
		ratingChoices = append(ratingChoices, &discordgo.ApplicationCommandOptionChoice{Name: ratingLabel(v), Value: v})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:         commandRecord,
			Description:  "Create, announce and rate events",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "create", Description: "Create an event you are treating the group to"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "request", Description: "Ask someone to treat the group",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionUser, Name: optionAuthor, Description: "Who owes the treat"},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "edit", Description: "Edit a draft", Options: []*discordgo.ApplicationCommandOption{recordIDOption()}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "claim", Description: "Become the author of a request", Options: []*discordgo.ApplicationCommandOption{recordIDOption()}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "announce", Description: "Open rating", Options: []*discordgo.ApplicationCommandOption{recordIDOption()}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "withdraw", Description: "Cancel an announcement", Options: []*discordgo.ApplicationCommandOption{recordIDOption()}},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "rate", Description: "Rate an announced event",
					Options: []*discordgo.ApplicationCommandOption{
						recordIDOption(),
						{Type: discordgo.ApplicationCommandOptionInteger, Name: optionRating, Description: "Rating", Required: true, Choices: ratingChoices},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show a record", Options: []*discordgo.ApplicationCommandOption{recordIDOption()}},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List the records of this chat"},
			},
		},
		{
			Name:         commandSettings,
			Description:  "Chat settings",
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "show", Description: "Show the settings"},
				{
					Type: discordgo.ApplicationCommandOptionSubCommand, Name: "set", Description: "Change the settings",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "members", Description: "Chat members count", MinValue: &minZero},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "percent", Description: "Minimum participants, %", MinValue: &minZero, MaxValue: 100},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "pending_hours", Description: "Rating window, hours", MinValue: &minZero},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "days_ago", Description: "How far back an event may be dated", MinValue: &minZero},
						{Type: discordgo.ApplicationCommandOptionString, Name: "currency", Description: "Default currency"},
						{
							Type: discordgo.ApplicationCommandOptionString, Name: "language", Description: "Language",
							Choices: languageChoices(languages),
						},
						{Type: discordgo.ApplicationCommandOptionString, Name: "timezone", Description: "IANA time zone, e.g. Europe/Moscow"},
						{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Group name"},
					},
				},
			},
		},
	}
}

// subcommand returns the invoked subcommand and its options by name.
func subcommand(data discordgo.ApplicationCommandInteractionData) (string, map[string]*discordgo.ApplicationCommandInteractionDataOption) {
	if len(data.Options) == 0 {
		return "", nil
	}
	sub := data.Options[0]
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, o := range sub.Options {
		opts[o.Name] = o
	}
	return sub.Name, opts
}

func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	switch data.Name {
	case commandRecord:
		h.handleRecordCommand(s, i, data)
	case commandSettings:
		h.handleSettingsCommand(s, i, data)
	}
}

func (h *Handler) handleRecordCommand(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	ic, cancel := h.begin(i)
	defer cancel()

	name, opts := subcommand(data)
	var id string
	if o, ok := opts[optionID]; ok {
		id = o.StringValue()
	}

	switch name {
	case "create":
		respondModal(s, i.Interaction, recordModal(modalCreate, ic.tr("modal.create", nil), nil, ic))
	case "request":
		author := ""
		if o, ok := opts[optionAuthor]; ok {
			author = o.UserValue(nil).ID
		}
		respondModal(s, i.Interaction, recordModal(modalRequest+author, ic.tr("modal.request", nil), nil, ic))
	case "edit":
		h.openEditModal(s, i, ic, id)
	case "claim":
		r, err := h.records.Claim(ic.ctx, id, ic.userID)
		if err != nil {
			h.fail(s, i, ic, "claim", err)
			return
		}
		respondEphemeral(s, i.Interaction, "✅ "+ic.tr("reply.claimed", map[string]any{"Title": r.Data.Title}))
	case "announce":
		h.announce(s, i, ic, id)
	case "withdraw":
		if _, err := h.records.Withdraw(ic.ctx, id, ic.userID); err != nil {
			h.fail(s, i, ic, "withdraw", err)
			return
		}
		respondEphemeral(s, i.Interaction, "↩️ "+ic.tr("reply.withdrawn", nil))
	case "rate":
		h.rate(s, i, ic, id, int(opts[optionRating].IntValue()), false)
	case "show":
		r, err := h.records.Get(ic.ctx, id)
		if err != nil {
			h.fail(s, i, ic, "show", err)
			return
		}
		respondEmbed(s, i.Interaction, recordEmbed(r, ic), true)
	case "list":
		h.list(s, i, ic)
	}
}
