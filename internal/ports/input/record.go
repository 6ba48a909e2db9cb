package input

import (
	"context"

	"prostavabot/internal/domain/entities"
)

// CreateRecordInput carries what an interactive create provides.
type CreateRecordInput struct {
	GroupID   string
	Creator   string
	Author    string // requests only; ignored otherwise
	IsRequest bool
	Data      entities.EventData
}

type RecordUseCase interface {
	Create(ctx context.Context, in CreateRecordInput) (*entities.Record, error)
	Get(ctx context.Context, id string) (*entities.Record, error)
	ListByGroup(ctx context.Context, groupID string) ([]entities.Record, error)
	PendingForAuthor(ctx context.Context, groupID, userID string) (*entities.Record, error)
	UpdateData(ctx context.Context, id, userID string, data entities.EventData) (*entities.Record, error)
	Claim(ctx context.Context, id, userID string) (*entities.Record, error)
	Announce(ctx context.Context, id, userID string) (*entities.Record, error)
	Withdraw(ctx context.Context, id, userID string) (*entities.Record, error)
	SubmitRating(ctx context.Context, id, userID string, rating int) (*entities.Record, error)
}

type GroupUseCase interface {
	Settings(ctx context.Context, groupID string) (entities.GroupSettings, error)
	UpdateSettings(ctx context.Context, groupID string, update func(s *entities.GroupSettings)) (entities.GroupSettings, error)
}

// Sweep is a periodic pass the scheduler triggers.
type Sweep interface {
	Name() string
	Run(ctx context.Context) error
}
