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

const eventColumns = "id, name, description, status, category, created_by, start_at, end_at, created_at, updated_at"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Name, &descNull, &e.Status, &e.Category, &e.CreatedBy,
		&e.StartAt, &e.EndAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, status, category, created_by, start_at, end_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var desc sql.NullString
	if e.Description != nil {
		desc = sql.NullString{String: *e.Description, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Name, desc, e.Status, e.Category, e.CreatedBy, e.StartAt, e.EndAt, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.Event, error) {
	where := []string{"start_at >= $1"}
	args := []interface{}{f.StartsAfter}
	n := 2
	if f.EndsBefore != nil {
		where = append(where, fmt.Sprintf("end_at <= $%d", n))
		args = append(args, *f.EndsBefore)
		n++
	}
	if f.RestrictIDs {
		ids := f.IDs
		if ids == nil {
			ids = []string{}
		}
		where = append(where, fmt.Sprintf("id = ANY($%d)", n))
		args = append(args, pq.Array(ids))
		n++
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE %s
		ORDER BY start_at ASC
		LIMIT $%d
	`, eventColumns, strings.Join(where, " AND "), n)
	args = append(args, f.Limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, p domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if p.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *p.Name)
		n++
	}
	if p.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *p.Description)
		n++
	}
	if p.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *p.Status)
		n++
	}
	if p.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", n))
		args = append(args, *p.Category)
		n++
	}
	if p.StartAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_at = $%d", n))
		args = append(args, *p.StartAt)
		n++
	}
	if p.EndAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_at = $%d", n))
		args = append(args, *p.EndAt)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListMissingAssociation(ctx context.Context, limit int) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM events e
		LEFT JOIN event_associations a ON a.event_id = e.id
		WHERE a.id IS NULL
		ORDER BY e.created_at ASC
		LIMIT $1
	`, prefixedEventColumns("e"))
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func prefixedEventColumns(alias string) string {
	cols := strings.Split(eventColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}
