package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"prostavabot/internal/domain/entities"
	"prostavabot/internal/pkg/logger"
	"prostavabot/internal/ports/input"
	"prostavabot/internal/ports/output"
	pkgdiscord "prostavabot/pkg/discord"
	"prostavabot/pkg/tz"
)

// interactionTimeout bounds the use-case calls behind one interaction.
// Discord expects the first response within three seconds.
const interactionTimeout = 3 * time.Second

// Handler handles Discord interactions using use cases. A group is the
// channel the interaction happened in.
type Handler struct {
	records input.RecordUseCase
	groups  input.GroupUseCase
	t       output.T
}

func NewHandler(records input.RecordUseCase, groups input.GroupUseCase, t output.T) *Handler {
	return &Handler{
		records: records,
		groups:  groups,
		t:       t,
	}
}

// interactionCtx carries what every handler resolves first.
type interactionCtx struct {
	ctx      context.Context
	groupID  string
	userID   string
	settings entities.GroupSettings
	tr       pkgdiscord.Translate
	loc      *time.Location
}

func (h *Handler) begin(i *discordgo.InteractionCreate) (*interactionCtx, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	ic := &interactionCtx{
		ctx:     ctx,
		groupID: i.ChannelID,
		userID:  interactionUserID(i),
	}
	settings, err := h.groups.Settings(ctx, ic.groupID)
	if err != nil {
		logger.Warn("load group settings", zap.String("group", ic.groupID), zap.Error(err))
		settings = entities.DefaultGroupSettings(ic.groupID)
	}
	ic.settings = settings
	ic.loc = tz.Load(settings.Timezone)
	ic.tr = func(key string, data map[string]any) string {
		return h.t.T(settings.Language, key, data)
	}
	return ic, cancel
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// fail answers the interaction with the translated error and logs unexpected ones.
func (h *Handler) fail(s *discordgo.Session, i *discordgo.InteractionCreate, ic *interactionCtx, action string, err error) {
	key := pkgdiscord.ErrorKey(err)
	if key == "error.unknown" || key == "error.store_unavailable" {
		logger.Error("interaction failed",
			zap.String("action", action),
			zap.String("group", ic.groupID),
			zap.String("user", ic.userID),
			zap.Error(err))
	}
	respondEphemeral(s, i.Interaction, "❌ "+ic.tr(key, nil))
}
