package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type registrationStore struct {
	DB *sql.DB
}

// NewRegistrationStore returns a RegistrationStore running each unit of work in a
// Postgres transaction with row locks on the profile and conference.
func NewRegistrationStore(db *sql.DB) domain.RegistrationStore {
	return &registrationStore{DB: db}
}

func (r *registrationStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.RegistrationTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, &registrationTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return mapTxError(err)
	}
	if err := tx.Commit(); err != nil {
		return mapTxError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

type registrationTx struct {
	tx *sql.Tx
}

func (t *registrationTx) LockProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 FOR UPDATE`
	p, err := scanProfile(t.tx.QueryRowContext(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (t *registrationTx) LockConference(ctx context.Context, conferenceID string) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumns + ` FROM conferences WHERE id = $1 FOR UPDATE`
	c, err := scanConference(t.tx.QueryRowContext(ctx, query, conferenceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (t *registrationTx) SaveAttendance(ctx context.Context, profileID string, keys domain.KeySet) error {
	query := `UPDATE profiles SET conference_keys_to_attend = $2, updated_at = NOW() WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, query, profileID, pq.StringArray(keys.Clone()))
	return err
}

func (t *registrationTx) SaveSeatsAvailable(ctx context.Context, conferenceID string, seats int) error {
	query := `UPDATE conferences SET seats_available = $2, updated_at = NOW() WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, query, conferenceID, seats)
	return err
}
