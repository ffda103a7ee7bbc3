package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"projecthub/internal/domain"
)

type eventAssociationService struct {
	assocRepo      domain.EventAssociationRepository
	contextTimeout time.Duration
}

func NewEventAssociationService(assocRepo domain.EventAssociationRepository, timeout time.Duration) domain.EventAssociationService {
	return &eventAssociationService{
		assocRepo:      assocRepo,
		contextTimeout: timeout,
	}
}

func (s *eventAssociationService) GetByEventID(ctx context.Context, eventID string) (*domain.EventAssociation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	assoc, err := s.assocRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get association: %w", err)
	}
	return assoc, nil
}

// Update applies the change to the association belonging to eventID.
// Relations are processed in the order organizers, recipients, projects;
// within each, additions are applied before removals. All steps are
// idempotent set operations, so re-sending the same change is a no-op.
func (s *eventAssociationService) Update(ctx context.Context, eventID string, change domain.AssociationChange) (*domain.EventAssociation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	assoc, err := s.assocRepo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get association: %w", err)
	}

	assoc.Organizers = addMembers(assoc.Organizers, change.AddOrganizers)
	assoc.Organizers = removeMembers(assoc.Organizers, change.RemoveOrganizers)
	assoc.Recipients = addMembers(assoc.Recipients, change.AddRecipients)
	assoc.Recipients = removeMembers(assoc.Recipients, change.RemoveRecipients)
	assoc.Projects = addMembers(assoc.Projects, change.AddProjects)
	assoc.Projects = removeMembers(assoc.Projects, change.RemoveProjects)

	if err := s.assocRepo.Update(ctx, assoc); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update association: %w", err)
	}
	return assoc, nil
}

// addMembers appends each id not already present. Duplicates in the
// add-list itself collapse to one entry.
func addMembers(members, add []string) []string {
	for _, id := range add {
		if !contains(members, id) {
			members = append(members, id)
		}
	}
	return members
}

// removeMembers drops the first matching entry for each id; absent ids are
// no-ops.
func removeMembers(members, remove []string) []string {
	for _, id := range remove {
		for i, m := range members {
			if m == id {
				members = append(members[:i], members[i+1:]...)
				break
			}
		}
	}
	return members
}

func contains(members []string, id string) bool {
	for _, m := range members {
		if m == id {
			return true
		}
	}
	return false
}
