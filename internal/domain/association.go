package domain

import (
	"context"
	"time"
)

// EventAssociation links one event to its organizers, recipients, and
// projects. Exactly one association exists per event; it is created with
// the event and mutated independently.
// swagger:model EventAssociation
type EventAssociation struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	CreatedBy  string    `json:"createdBy"`
	Organizers []string  `json:"organizers"`
	Recipients []string  `json:"recipients"`
	Projects   []string  `json:"projects"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewEventAssociation returns a new EventAssociation. ID is typically set by the repository on create.
func NewEventAssociation(eventID, createdBy string, organizers, recipients, projects []string, createdAt, updatedAt time.Time) *EventAssociation {
	return &EventAssociation{
		EventID:    eventID,
		CreatedBy:  createdBy,
		Organizers: organizers,
		Recipients: recipients,
		Projects:   projects,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
}

// AssociationFilter selects association records by relational identity.
// The identity predicates (UserID against createdBy, OrganizerID against
// organizers membership, RecipientID against recipients membership) are
// OR-combined; ProjectID, when set, is AND-combined with them. Empty
// fields are absent predicates.
type AssociationFilter struct {
	UserID      string
	OrganizerID string
	RecipientID string
	ProjectID   string
}

// Empty reports whether the filter carries no predicate at all.
func (f AssociationFilter) Empty() bool {
	return f.UserID == "" && f.OrganizerID == "" && f.RecipientID == "" && f.ProjectID == ""
}

// AssociationChange describes idempotent set mutations on one association.
// Per relation, additions are applied before removals; adding a present
// member or removing an absent one is a no-op.
type AssociationChange struct {
	AddOrganizers    []string
	RemoveOrganizers []string
	AddRecipients    []string
	RemoveRecipients []string
	AddProjects      []string
	RemoveProjects   []string
}

// EventAssociationRepository defines the interface for association storage.
type EventAssociationRepository interface {
	Create(ctx context.Context, assoc *EventAssociation) error
	// GetByEventID returns the association for the event, or ErrNotFound.
	GetByEventID(ctx context.Context, eventID string) (*EventAssociation, error)
	// Update persists the association's relation sets as a whole-row
	// write. Concurrent updates are last-write-wins.
	Update(ctx context.Context, assoc *EventAssociation) error
	// ListEventIDs returns the event IDs of associations matching f.
	ListEventIDs(ctx context.Context, f AssociationFilter) ([]string, error)
}

// EventAssociationService defines the business logic for association reads
// and mutations.
type EventAssociationService interface {
	GetByEventID(ctx context.Context, eventID string) (*EventAssociation, error)
	// Update applies the change to the association of the given event and
	// persists the result. Relations are processed in the order
	// organizers, recipients, projects; adds before removes.
	Update(ctx context.Context, eventID string, change AssociationChange) (*EventAssociation, error)
}
