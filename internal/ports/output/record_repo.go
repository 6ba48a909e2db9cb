package output

import (
	"context"
	"time"

	"prostavabot/internal/domain/entities"
)

// Mutation edits a freshly read record inside a compare-and-set. Returning an
// error aborts the write and the error is handed back to the caller.
type Mutation func(r *entities.Record) error

type RecordRepository interface {
	Create(ctx context.Context, record *entities.Record) error
	FindByID(ctx context.Context, id string) (*entities.Record, error)
	FindByGroupID(ctx context.Context, groupID string) ([]entities.Record, error)
	FindPendingByAuthor(ctx context.Context, groupID, author string) (*entities.Record, error)
	// FindPendingCompleted returns Pending records whose window closed at now
	// or whose participant count reached the maximum.
	FindPendingCompleted(ctx context.Context, now time.Time) ([]entities.Record, error)
	// FindPendingUncompleted returns Pending records with fewer participants than the maximum.
	FindPendingUncompleted(ctx context.Context) ([]entities.Record, error)
	// CompareAndSet applies mutation and persists the result only if the stored
	// status still equals expected. It reports false when the status differs or
	// a concurrent writer won.
	CompareAndSet(ctx context.Context, id string, expected entities.Status, mutation Mutation) (bool, error)
}
