package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/ports/output"
)

var _ output.GroupRepository = (*GroupRepository)(nil)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*entities.Group, error) {
	var (
		g                         entities.Group
		members, percent, pending int32
		daysAgo                   int32
	)
	err := r.pool.QueryRow(ctx, `SELECT id, name, language, currency, timezone,
			chat_members_count, participants_min_percent, pending_hours, create_days_ago
		FROM groups WHERE id = $1`, id).Scan(
		&g.ID, &g.Settings.Name, &g.Settings.Language, &g.Settings.Currency, &g.Settings.Timezone,
		&members, &percent, &pending, &daysAgo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGroupNotFound
	}
	if err != nil {
		return nil, unavailable("get group", err)
	}
	g.Settings.ChatMembersCount = int(members)
	g.Settings.ParticipantsMinPercent = int(percent)
	g.Settings.PendingHours = int(pending)
	g.Settings.CreateDaysAgo = int(daysAgo)
	return &g, nil
}

// Save inserts the group or overwrites its settings.
func (r *GroupRepository) Save(ctx context.Context, group *entities.Group) error {
	s := group.Settings
	_, err := r.pool.Exec(ctx, `INSERT INTO groups (id, name, language, currency, timezone,
			chat_members_count, participants_min_percent, pending_hours, create_days_ago)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, language = EXCLUDED.language, currency = EXCLUDED.currency,
			timezone = EXCLUDED.timezone, chat_members_count = EXCLUDED.chat_members_count,
			participants_min_percent = EXCLUDED.participants_min_percent,
			pending_hours = EXCLUDED.pending_hours, create_days_ago = EXCLUDED.create_days_ago,
			updated_at = now()`,
		group.ID, s.Name, s.Language, s.Currency, s.Timezone,
		int32(s.ChatMembersCount), int32(s.ParticipantsMinPercent), int32(s.PendingHours), int32(s.CreateDaysAgo),
	)
	if err != nil {
		return unavailable("save group", err)
	}
	return nil
}
