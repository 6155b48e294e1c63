package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Sessions are read joined with their conference to resolve the organizer of the key path.
const sessionSelect = `
	SELECT s.id, s.conference_id, c.organizer_user_id, s.name, s.highlights, s.speaker_id,
		s.type_of_session, s.date, s.duration, s.start_time, s.created_at
	FROM sessions s
	JOIN conferences c ON c.id = s.conference_id
`

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var speaker sql.NullString
	var typeOfSession string
	if err := row.Scan(&s.ID, &s.ConferenceID, &s.OrganizerUserID, &s.Name, &s.Highlights, &speaker,
		&typeOfSession, &s.Date, &s.Duration, &s.StartTime, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.SpeakerID = speaker.String
	s.TypeOfSession = domain.SessionType(typeOfSession)
	s.Date = dateValue(s.Date)
	return s, nil
}

func (r *sessionRepository) querySessions(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (id, conference_id, name, highlights, speaker_id, type_of_session, date, duration, start_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx, query,
		id, s.ConferenceID, s.Name, s.Highlights, nullString(s.SpeakerID), string(s.TypeOfSession),
		s.Date.Format(domain.DateLayout), s.Duration, s.StartTime.Format(timeOfDayLayout), s.CreatedAt,
	)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	s, err := scanSession(r.DB.QueryRowContext(ctx, sessionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetMulti(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	return r.querySessions(ctx, sessionSelect+` WHERE s.id = ANY($1) ORDER BY s.id`, pq.Array(ids))
}

func (r *sessionRepository) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.querySessions(ctx, sessionSelect+` WHERE s.conference_id = $1 ORDER BY s.created_at, s.id`, conferenceID)
}

func (r *sessionRepository) ListByConferenceOrderedBySpeaker(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.querySessions(ctx, sessionSelect+` WHERE s.conference_id = $1 ORDER BY s.speaker_id NULLS FIRST, s.created_at, s.id`, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID string, t domain.SessionType) ([]*domain.Session, error) {
	return r.querySessions(ctx, sessionSelect+` WHERE s.conference_id = $1 AND s.type_of_session = $2 ORDER BY s.created_at, s.id`, conferenceID, string(t))
}

func (r *sessionRepository) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID string) ([]*domain.Session, error) {
	return r.querySessions(ctx, sessionSelect+` WHERE s.conference_id = $1 AND s.speaker_id = $2 ORDER BY s.created_at, s.id`, conferenceID, speakerID)
}

func (r *sessionRepository) ListBySpeaker(ctx context.Context, speakerID string) ([]*domain.Session, error) {
	return r.querySessions(ctx, sessionSelect+` WHERE s.speaker_id = $1 ORDER BY s.created_at, s.id`, speakerID)
}

func (r *sessionRepository) QueryKeys(ctx context.Context, conferenceID string, f domain.Filter) ([]string, error) {
	where, arg, err := sessionPredicate(f, "$2")
	if err != nil {
		return nil, err
	}
	query := `SELECT id FROM sessions WHERE conference_id = $1 AND ` + where
	return queryIDs(ctx, r.DB, query, conferenceID, arg)
}
