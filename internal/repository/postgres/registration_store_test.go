package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationStore_WithinTx(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	errBoom := errors.New("boom")

	register := func(ctx context.Context, tx domain.RegistrationTx) error {
		p, err := tx.LockProfile(ctx, "u1")
		if err != nil {
			return err
		}
		c, err := tx.LockConference(ctx, "c1")
		if err != nil {
			return err
		}
		keys := p.ConferenceKeysToAttend.Clone()
		keys.Add("ck1")
		if err := tx.SaveAttendance(ctx, p.ID, keys); err != nil {
			return err
		}
		return tx.SaveSeatsAvailable(ctx, c.ID, c.SeatsAvailable-1)
	}

	expectLocks := func(mock sqlmock.Sqlmock) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM profiles WHERE id = \$1 FOR UPDATE`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(profileRowColumns).
				AddRow("u1", "Una", "", "NOT_SPECIFIED", []byte("{}"), []byte("{}"), now, now))
		mock.ExpectQuery(`FROM conferences WHERE id = \$1 FOR UPDATE`).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows(conferenceRowColumns).
				AddRow("c1", "org", "GopherCon", "", []byte("{}"), "London", nil, nil, 0, 10, 10, now, now))
	}

	tests := []struct {
		name    string
		fn      func(ctx context.Context, tx domain.RegistrationTx) error
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "commit",
			fn:   register,
			mock: func(mock sqlmock.Sqlmock) {
				expectLocks(mock)
				mock.ExpectExec(`UPDATE profiles SET conference_keys_to_attend = \$2`).
					WithArgs("u1", pq.StringArray{"ck1"}).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE conferences SET seats_available = \$2`).
					WithArgs("c1", 9).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx domain.RegistrationTx) error {
				if _, err := tx.LockProfile(ctx, "u1"); err != nil {
					return err
				}
				return errBoom
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FROM profiles WHERE id = \$1 FOR UPDATE`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows(profileRowColumns).
						AddRow("u1", "Una", "", "NOT_SPECIFIED", []byte("{}"), []byte("{}"), now, now))
				mock.ExpectRollback()
			},
			wantErr: errBoom,
		},
		{
			name: "missing conference",
			fn:   register,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FROM profiles WHERE id = \$1 FOR UPDATE`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows(profileRowColumns).
						AddRow("u1", "Una", "", "NOT_SPECIFIED", []byte("{}"), []byte("{}"), now, now))
				mock.ExpectQuery(`FROM conferences WHERE id = \$1 FOR UPDATE`).
					WithArgs("c1").
					WillReturnRows(sqlmock.NewRows(conferenceRowColumns))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "deadlock is transient",
			fn:   register,
			mock: func(mock sqlmock.Sqlmock) {
				expectLocks(mock)
				mock.ExpectExec(`UPDATE profiles SET conference_keys_to_attend`).
					WillReturnError(&pq.Error{Code: "40P01", Message: "deadlock detected"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrTransientConflict,
		},
		{
			name: "serialization failure on commit is transient",
			fn:   register,
			mock: func(mock sqlmock.Sqlmock) {
				expectLocks(mock)
				mock.ExpectExec(`UPDATE profiles SET conference_keys_to_attend`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE conferences SET seats_available`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})
			},
			wantErr: domain.ErrTransientConflict,
		},
		{
			name: "begin fails",
			fn:   register,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errBoom)
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewRegistrationStore(db).WithinTx(ctx, tt.fn)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
