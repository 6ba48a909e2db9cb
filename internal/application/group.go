package application

import (
	"context"
	"errors"
	"fmt"

	"prostavabot/internal/domain"
	"prostavabot/internal/domain/entities"
	"prostavabot/internal/ports/input"
	"prostavabot/internal/ports/output"
)

var _ input.GroupUseCase = (*GroupService)(nil)

type GroupService struct {
	groups output.GroupRepository
}

func NewGroupService(groups output.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// Settings returns the group's settings, registering the group with defaults on first use.
func (s *GroupService) Settings(ctx context.Context, groupID string) (entities.GroupSettings, error) {
	group, err := s.ensure(ctx, groupID)
	if err != nil {
		return entities.GroupSettings{}, err
	}
	return group.Settings, nil
}

func (s *GroupService) UpdateSettings(ctx context.Context, groupID string, update func(s *entities.GroupSettings)) (entities.GroupSettings, error) {
	group, err := s.ensure(ctx, groupID)
	if err != nil {
		return entities.GroupSettings{}, err
	}
	settings := group.Settings
	update(&settings)
	if err := validateSettings(settings); err != nil {
		return entities.GroupSettings{}, err
	}
	group.Settings = settings
	if err := s.groups.Save(ctx, group); err != nil {
		return entities.GroupSettings{}, fmt.Errorf("save group: %w", err)
	}
	return settings, nil
}

func (s *GroupService) ensure(ctx context.Context, groupID string) (*entities.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID)
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, domain.ErrGroupNotFound) {
		return nil, err
	}
	group = &entities.Group{ID: groupID, Settings: entities.DefaultGroupSettings(groupID)}
	if err := s.groups.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("register group: %w", err)
	}
	return group, nil
}

func validateSettings(s entities.GroupSettings) error {
	switch {
	case s.ParticipantsMinPercent < 0 || s.ParticipantsMinPercent > 100:
		return fmt.Errorf("%w: participants percent must be within 0..100", domain.ErrInvalidSettings)
	case s.ChatMembersCount < 0:
		return fmt.Errorf("%w: members count must not be negative", domain.ErrInvalidSettings)
	case s.PendingHours < 0:
		return fmt.Errorf("%w: pending hours must not be negative", domain.ErrInvalidSettings)
	case s.CreateDaysAgo < 0:
		return fmt.Errorf("%w: create days ago must not be negative", domain.ErrInvalidSettings)
	}
	return nil
}
