package output

import (
	"context"

	"prostavabot/internal/domain/entities"
)

// Dispatcher delivers a command code to a user of a group. Delivery is best
// effort: callers log failures and never retry.
type Dispatcher interface {
	Dispatch(ctx context.Context, groupID, userID string, code entities.CommandCode) error
}
