package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"projecthub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{"id", "name", "description", "status", "category", "created_by", "start_at", "end_at", "created_at", "updated_at"}

func eventRow(id string, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(eventRowColumns).
		AddRow(id, "Kickoff", nil, "confirmed", "default", "user-1", at, at.Add(time.Hour), at, at)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Name:      "Kickoff",
				Status:    domain.StatusConfirmed,
				Category:  domain.CategoryDefault,
				CreatedBy: "user-1",
				StartAt:   at,
				EndAt:     at.Add(time.Hour),
				CreatedAt: at,
				UpdatedAt: at,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(name, description, status, category, created_by, start_at, end_at, created_at, updated_at\)`).
					WithArgs("Kickoff", sql.NullString{}, domain.StatusConfirmed, domain.CategoryDefault, "user-1", at, at.Add(time.Hour), at, at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID: "ev-uuid-1",
		},
		{
			name: "with description",
			event: &domain.Event{
				Name:        "Kickoff",
				Description: strPtr("quarterly planning"),
				Status:      domain.StatusTentative,
				Category:    domain.CategoryMeet,
				CreatedBy:   "user-1",
				StartAt:     at,
				EndAt:       at.Add(time.Hour),
				CreatedAt:   at,
				UpdatedAt:   at,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WithArgs("Kickoff", sql.NullString{String: "quarterly planning", Valid: true}, domain.StatusTentative, domain.CategoryMeet, "user-1", at, at.Add(time.Hour), at, at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-2"))
			},
			wantID: "ev-uuid-2",
		},
		{
			name: "db error",
			event: &domain.Event{
				Name:      "Kickoff",
				CreatedBy: "user-1",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, name, description, status, category, created_by, start_at, end_at, created_at, updated_at FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", at))

		repo := NewEventRepository(db)
		e, err := repo.GetByID(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
		require.Equal(t, domain.StatusConfirmed, e.Status)
		require.Nil(t, e.Description)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	until := at.Add(30 * 24 * time.Hour)

	tests := []struct {
		name   string
		filter domain.EventFilter
		mock   func(mock sqlmock.Sqlmock)
		want   int
	}{
		{
			name:   "time window only",
			filter: domain.EventFilter{StartsAfter: at, Limit: 30},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE start_at >= \$1 ORDER BY start_at ASC LIMIT \$2`).
					WithArgs(at, 30).
					WillReturnRows(eventRow("ev-1", at.Add(time.Hour)))
			},
			want: 1,
		},
		{
			name:   "with end bound",
			filter: domain.EventFilter{StartsAfter: at, EndsBefore: &until, Limit: 10},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE start_at >= \$1 AND end_at <= \$2 ORDER BY start_at ASC LIMIT \$3`).
					WithArgs(at, until, 10).
					WillReturnRows(eventRow("ev-1", at.Add(time.Hour)))
			},
			want: 1,
		},
		{
			name:   "restricted to candidate ids",
			filter: domain.EventFilter{StartsAfter: at, IDs: []string{"ev-1", "ev-2"}, RestrictIDs: true, Limit: 30},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE start_at >= \$1 AND id = ANY\(\$2\) ORDER BY start_at ASC LIMIT \$3`).
					WillReturnRows(eventRow("ev-1", at.Add(time.Hour)))
			},
			want: 1,
		},
		{
			name:   "restricted to empty candidate set",
			filter: domain.EventFilter{StartsAfter: at, IDs: nil, RestrictIDs: true, Limit: 30},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE start_at >= \$1 AND id = ANY\(\$2\) ORDER BY start_at ASC LIMIT \$3`).
					WillReturnRows(sqlmock.NewRows(eventRowColumns))
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			events, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			require.Len(t, events, tt.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("partial update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), name = \$1, status = \$2 WHERE id = \$3 RETURNING`).
			WithArgs("Renamed", domain.StatusCancelled, "ev-1").
			WillReturnRows(eventRow("ev-1", at))

		repo := NewEventRepository(db)
		status := domain.StatusCancelled
		_, err = repo.Update(ctx, "ev-1", domain.EventPatch{Name: strPtr("Renamed"), Status: &status})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch fetches current row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", at))

		repo := NewEventRepository(db)
		e, err := repo.Update(ctx, "ev-1", domain.EventPatch{})
		require.NoError(t, err)
		require.Equal(t, "ev-1", e.ID)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events SET`).
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.Update(ctx, "missing", domain.EventPatch{Name: strPtr("x")})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, "ev-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrNotFound)
	})
}

func TestEventRepository_ListMissingAssociation(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`LEFT JOIN event_associations a ON a\.event_id = e\.id WHERE a\.id IS NULL ORDER BY e\.created_at ASC LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(eventRow("ev-orphan", at))

	repo := NewEventRepository(db)
	events, err := repo.ListMissingAssociation(ctx, 100)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "ev-orphan", events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
