package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conferencecentral/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const conferenceColumns = `id, organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available, created_at, updated_at`

const codeCheckViolation = "23514"

type conferenceRepository struct {
	DB *sql.DB
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var topics pq.StringArray
	var start, end sql.NullTime
	if err := row.Scan(&c.ID, &c.OrganizerUserID, &c.Name, &c.Description, &topics, &c.City,
		&start, &end, &c.Month, &c.MaxAttendees, &c.SeatsAvailable, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Topics = []string(topics)
	if c.Topics == nil {
		c.Topics = []string{}
	}
	c.StartDate = datePtr(start)
	c.EndDate = datePtr(end)
	return c, nil
}

func (r *conferenceRepository) queryConferences(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (` + conferenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, query,
		id, c.OrganizerUserID, c.Name, c.Description, pq.StringArray(c.Topics), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *conferenceRepository) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1`
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetMulti(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	if len(ids) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = ANY($1) ORDER BY id`
	return r.queryConferences(ctx, query, pq.Array(ids))
}

// Update writes the editable fields. Seats available shift by the change in capacity
// and the new count is read back into c.
func (r *conferenceRepository) Update(ctx context.Context, c *domain.Conference) error {
	query := `
		UPDATE conferences
		SET name = $2, description = $3, topics = $4, city = $5, start_date = $6, end_date = $7, month = $8,
			seats_available = seats_available + ($9 - max_attendees), max_attendees = $9, updated_at = $10
		WHERE id = $1
		RETURNING seats_available
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Description, pq.StringArray(c.Topics), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.UpdatedAt,
	).Scan(&c.SeatsAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeCheckViolation {
			return fmt.Errorf("%w: maxAttendees is below the number of registered attendees", domain.ErrInvalidInput)
		}
		return err
	}
	return nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE organizer_user_id = $1 ORDER BY name`
	return r.queryConferences(ctx, query, organizerID)
}

func (r *conferenceRepository) ListAll(ctx context.Context) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences ORDER BY name`
	return r.queryConferences(ctx, query)
}

func (r *conferenceRepository) QueryKeys(ctx context.Context, f domain.Filter) ([]string, error) {
	where, arg, err := conferencePredicate(f, "$1")
	if err != nil {
		return nil, err
	}
	query := `SELECT id FROM conferences WHERE ` + where
	return queryIDs(ctx, r.DB, query, arg)
}

func (r *conferenceRepository) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE seats_available > 0 AND seats_available <= $1 ORDER BY name`
	return r.queryConferences(ctx, query, maxSeats)
}

// queryIDs runs a key-only query and collects the returned IDs.
func queryIDs(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
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
