package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"projecthub/internal/domain"
)

const defaultListLimit = 30

type eventService struct {
	eventRepo      domain.EventRepository
	assocRepo      domain.EventAssociationRepository
	feed           domain.HolidayFeed
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	assocRepo domain.EventAssociationRepository,
	feed domain.HolidayFeed,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		assocRepo:      assocRepo,
		feed:           feed,
		contextTimeout: timeout,
	}
}

// parseTimestamp accepts RFC 3339 or a bare calendar date.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (s *eventService) ListEvents(ctx context.Context, q domain.ListEventsQuery) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	startTime := time.Now()
	if q.StartTime != "" {
		t, err := parseTimestamp(q.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date string %q", domain.ErrInvalidInput, q.StartTime)
		}
		startTime = t
	}
	var endTime *time.Time
	if q.EndTime != "" {
		t, err := parseTimestamp(q.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date string %q", domain.ErrInvalidInput, q.EndTime)
		}
		endTime = &t
	}

	limit := defaultListLimit
	if q.Limit != "" {
		v, err := strconv.Atoi(q.Limit)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: invalid limit value %q", domain.ErrInvalidInput, q.Limit)
		}
		limit = v
	}

	// The external source is not retried; its failures surface as a bad
	// request, matching the feed's read-only advisory role.
	holidays, err := s.feed.HolidayEvents(ctx, startTime, endTime, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: holiday feed: %v", domain.ErrInvalidInput, err)
	}

	filter := domain.EventFilter{
		StartsAfter: startTime,
		EndsBefore:  endTime,
		Limit:       limit,
	}
	assocFilter := domain.AssociationFilter{
		UserID:      q.UserID,
		OrganizerID: q.OrganizerID,
		RecipientID: q.RecipientID,
		ProjectID:   q.ProjectID,
	}
	if !assocFilter.Empty() {
		ids, err := s.assocRepo.ListEventIDs(ctx, assocFilter)
		if err != nil {
			return nil, fmt.Errorf("list associations: %w", err)
		}
		// An empty candidate set restricts the event query to nothing:
		// a relational filter that matches no association must exclude
		// all stored events.
		filter.IDs = ids
		filter.RestrictIDs = true
	}

	stored, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	// External events first, then stored events. The sources keep their
	// own ordering and are not interleaved by time.
	merged := make([]*domain.Event, 0, len(holidays)+len(stored))
	merged = append(merged, holidays...)
	merged = append(merged, stored...)
	return merged, nil
}

func (s *eventService) CreateEvent(ctx context.Context, creatorID string, draft domain.EventDraft) (*domain.Event, *domain.EventAssociation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if creatorID == "" {
		return nil, nil, fmt.Errorf("%w: event creator is required", domain.ErrInvalidInput)
	}

	status := draft.Status
	if status == "" {
		status = domain.StatusConfirmed
	}
	category := draft.Category
	if category == "" {
		category = domain.CategoryDefault
	}

	now := time.Now()
	event := domain.NewEvent(draft.Name, draft.Description, status, category, creatorID, draft.StartAt, draft.EndAt, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("create event: %v: %w", err, domain.ErrOperationFailed)
	}

	assoc := domain.NewEventAssociation(
		event.ID,
		creatorID,
		unionWithCreator(creatorID, draft.Organizers),
		dedupe(draft.Recipients),
		dedupe(draft.Projects),
		now, now,
	)
	if err := s.assocRepo.Create(ctx, assoc); err != nil {
		// The event row already exists at this point; the reconciler
		// repairs the orphan on its next sweep.
		return nil, nil, fmt.Errorf("create event association: %v: %w", err, domain.ErrOperationFailed)
	}
	return event, assoc, nil
}

// unionWithCreator puts the creator first and appends the requested
// organizers, dropping duplicates.
func unionWithCreator(creatorID string, organizers []string) []string {
	out := []string{creatorID}
	seen := map[string]struct{}{creatorID: {}}
	for _, id := range organizers {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, *domain.EventAssociation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	assoc, err := s.assocRepo.GetByEventID(ctx, id)
	if err != nil {
		// An event without an association is an orphan from a failed
		// create; report it missing until the reconciler repairs it.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event association: %w", err)
	}
	return event, assoc, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Deletion does not cascade to the association record.
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
