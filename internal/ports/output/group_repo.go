package output

import (
	"context"

	"prostavabot/internal/domain/entities"
)

type GroupRepository interface {
	FindByID(ctx context.Context, id string) (*entities.Group, error)
	Save(ctx context.Context, group *entities.Group) error
}
