package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"projecthub/internal/domain"
)

const associationColumns = "id, event_id, created_by, organizers, recipients, projects, created_at, updated_at"

type eventAssociationRepository struct {
	DB *sql.DB
}

func NewEventAssociationRepository(db *sql.DB) domain.EventAssociationRepository {
	return &eventAssociationRepository{
		DB: db,
	}
}

func scanAssociation(row interface{ Scan(...any) error }) (*domain.EventAssociation, error) {
	a := &domain.EventAssociation{}
	var organizers, recipients, projects pq.StringArray
	err := row.Scan(
		&a.ID, &a.EventID, &a.CreatedBy, &organizers, &recipients, &projects,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Organizers = []string(organizers)
	a.Recipients = []string(recipients)
	a.Projects = []string(projects)
	return a, nil
}

func (r *eventAssociationRepository) Create(ctx context.Context, a *domain.EventAssociation) error {
	query := `
		INSERT INTO event_associations (event_id, created_by, organizers, recipients, projects, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		a.EventID, a.CreatedBy,
		pq.Array(a.Organizers), pq.Array(a.Recipients), pq.Array(a.Projects),
		a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
}

func (r *eventAssociationRepository) GetByEventID(ctx context.Context, eventID string) (*domain.EventAssociation, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_associations WHERE event_id = $1`, associationColumns)
	a, err := scanAssociation(r.DB.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *eventAssociationRepository) Update(ctx context.Context, a *domain.EventAssociation) error {
	query := `
		UPDATE event_associations
		SET organizers = $1, recipients = $2, projects = $3, updated_at = NOW()
		WHERE event_id = $4
		RETURNING updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		pq.Array(a.Organizers), pq.Array(a.Recipients), pq.Array(a.Projects), a.EventID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ListEventIDs compiles the association filter into SQL: identity
// predicates are OR-combined, a project predicate is AND-combined with
// them. An empty filter matches nothing.
func (r *eventAssociationRepository) ListEventIDs(ctx context.Context, f domain.AssociationFilter) ([]string, error) {
	if f.Empty() {
		return []string{}, nil
	}

	identity := []string{}
	args := []interface{}{}
	n := 1
	if f.UserID != "" {
		identity = append(identity, fmt.Sprintf("created_by = $%d", n))
		args = append(args, f.UserID)
		n++
	}
	if f.OrganizerID != "" {
		identity = append(identity, fmt.Sprintf("$%d = ANY(organizers)", n))
		args = append(args, f.OrganizerID)
		n++
	}
	if f.RecipientID != "" {
		identity = append(identity, fmt.Sprintf("$%d = ANY(recipients)", n))
		args = append(args, f.RecipientID)
		n++
	}

	where := []string{}
	if len(identity) > 0 {
		where = append(where, "("+strings.Join(identity, " OR ")+")")
	}
	if f.ProjectID != "" {
		where = append(where, fmt.Sprintf("$%d = ANY(projects)", n))
		args = append(args, f.ProjectID)
		n++
	}

	query := fmt.Sprintf(`
		SELECT event_id
		FROM event_associations
		WHERE %s
	`, strings.Join(where, " AND "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
