package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across services. Controllers map these onto the
// HTTP error taxonomy.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrOperationFailed = errors.New("operation failed")
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	StatusConfirmed EventStatus = "confirmed"
	StatusTentative EventStatus = "tentative"
	StatusCancelled EventStatus = "cancelled"
)

// ParseEventStatus maps s onto an EventStatus, returning fallback for
// unrecognized values. The holiday feed uses this to normalize provider
// status strings.
func ParseEventStatus(s string, fallback EventStatus) EventStatus {
	switch EventStatus(s) {
	case StatusConfirmed, StatusTentative, StatusCancelled:
		return EventStatus(s)
	}
	return fallback
}

// ValidEventStatus reports whether s is one of the known statuses.
func ValidEventStatus(s EventStatus) bool {
	return s == StatusConfirmed || s == StatusTentative || s == StatusCancelled
}

// EventCategory classifies an event. CategoryHoliday is reserved for
// externally sourced events and is never persisted locally.
type EventCategory string

const (
	CategoryDefault EventCategory = "default"
	CategoryMeet    EventCategory = "meet"
	CategoryHoliday EventCategory = "holiday"
)

// ValidEventCategory reports whether c is one of the known categories.
func ValidEventCategory(c EventCategory) bool {
	return c == CategoryDefault || c == CategoryMeet || c == CategoryHoliday
}

// Event represents a calendar event owned by a user. Externally sourced
// holiday events share the same shape with an empty CreatedBy.
// swagger:model Event
type Event struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Status      EventStatus   `json:"status"`
	Category    EventCategory `json:"category"`
	CreatedBy   string        `json:"createdBy,omitempty"`
	StartAt     time.Time     `json:"startAt"`
	EndAt       time.Time     `json:"endAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name string, description *string, status EventStatus, category EventCategory, createdBy string, startAt, endAt, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Status:      status,
		Category:    category,
		CreatedBy:   createdBy,
		StartAt:     startAt,
		EndAt:       endAt,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventFilter is the query specification for listing stored events. The
// repository compiles it into a store-specific query; callers never build
// query fragments themselves.
type EventFilter struct {
	// StartsAfter keeps events with StartAt >= StartsAfter.
	StartsAfter time.Time
	// EndsBefore, when set, keeps events with EndAt <= EndsBefore.
	EndsBefore *time.Time
	// IDs restricts results to the candidate set when RestrictIDs is true.
	// An empty candidate set matches nothing.
	IDs         []string
	RestrictIDs bool
	Limit       int
}

// EventPatch carries the optional fields of a partial event update.
// Nil fields are left unchanged.
type EventPatch struct {
	Name        *string
	Description *string
	Status      *EventStatus
	Category    *EventCategory
	StartAt     *time.Time
	EndAt       *time.Time
}

// EventDraft is the payload for creating an event together with its
// association. Relational fields are stripped before the event itself is
// persisted.
type EventDraft struct {
	Name        string
	Description *string
	Status      EventStatus
	Category    EventCategory
	StartAt     time.Time
	EndAt       time.Time
	Organizers  []string
	Recipients  []string
	Projects    []string
}

// ListEventsQuery holds the raw query parameters of an event listing.
// Values are kept as strings so the service owns validation and defaults
// (current time for StartTime, "30" for Limit).
type ListEventsQuery struct {
	StartTime   string
	EndTime     string
	UserID      string
	OrganizerID string
	RecipientID string
	ProjectID   string
	Limit       string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, f EventFilter) ([]*Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
	// ListMissingAssociation returns locally stored events that have no
	// association record, oldest first, up to limit.
	ListMissingAssociation(ctx context.Context, limit int) ([]*Event, error)
}

// HolidayFeed is a read-only source of externally managed calendar events.
type HolidayFeed interface {
	// HolidayEvents returns holiday events between from and to (to may be
	// nil for an open range), capped at limit.
	HolidayEvents(ctx context.Context, from time.Time, to *time.Time, limit int) ([]*Event, error)
}

// EventService defines the business logic for events and their lifecycle.
type EventService interface {
	// ListEvents merges holiday events from the external feed with stored
	// events matching the query. External events come first; the two
	// sources are not interleaved by time.
	ListEvents(ctx context.Context, q ListEventsQuery) ([]*Event, error)
	// CreateEvent persists the event and its association as one logical
	// unit. The creator is always added to the association's organizers.
	// The two writes are not transactional; a failure between them leaves
	// an orphan event that the reconciler repairs out of band.
	CreateEvent(ctx context.Context, creatorID string, draft EventDraft) (*Event, *EventAssociation, error)
	// GetEventByID returns the event and its association. A missing
	// association is reported as ErrNotFound.
	GetEventByID(ctx context.Context, id string) (*Event, *EventAssociation, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	// DeleteEvent removes the event only. Its association is not cascaded.
	DeleteEvent(ctx context.Context, id string) error
}
