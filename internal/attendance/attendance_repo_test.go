package attendance_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-attendance/internal/attendance"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (attendance.Repository, sqlmock.Sqlmock) {
	t.Helper()
	repo, _, sqlMock := setupRepoTestDB(t)
	return repo, sqlMock
}

func setupRepoTestDB(t *testing.T) (attendance.Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return attendance.NewRepository(gdb), db, sqlMock
}

func TestRepository_FindToday_NoRow(t *testing.T) {
	repo, sqlMock := setupRepoTest(t)

	sqlMock.ExpectQuery(`SELECT \* FROM "attendances" WHERE employee_id = \$1 AND attendance_date = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	row, err := repo.FindToday(context.Background(), "E1", day)
	assert.NoError(t, err)
	assert.Nil(t, row)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRepository_UpdateTimeOut_OnlyWhenOpen(t *testing.T) {
	update := attendance.TimeOutUpdate{
		TimeOut: time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
		Status:  attendance.StatusAttendanceComplete,
		Session: "Morning",
		Source:  attendance.SourceQR,
	}

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"open row", 1, true},
		{"already closed", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, sqlMock := setupRepoTest(t)

			sqlMock.ExpectBegin()
			sqlMock.ExpectExec(`UPDATE "attendances" SET .* WHERE id = \$\d+ AND time_out IS NULL`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			sqlMock.ExpectCommit()

			ok, err := repo.UpdateTimeOut(context.Background(), uuid.New(), update)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}

func TestRepository_WithinTx_OutboxCommitsWithAttendance(t *testing.T) {
	update := attendance.TimeOutUpdate{
		TimeOut: time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
		Status:  attendance.StatusAttendanceComplete,
		Session: "Morning",
		Source:  attendance.SourceQR,
	}

	tests := []struct {
		name      string
		outboxErr error
	}{
		{"both rows commit", nil},
		{"outbox failure rolls back the time-out", errors.New("outbox_events: disk full")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, db, sqlMock := setupRepoTestDB(t)
			pub := attendance.NewOutboxPublisher(kafka.NewOutboxRepository(db))
			id := uuid.New()

			sqlMock.ExpectBegin()
			sqlMock.ExpectExec(`UPDATE "attendances" SET .* WHERE id = \$\d+ AND time_out IS NULL`).
				WillReturnResult(sqlmock.NewResult(0, 1))
			outbox := sqlMock.ExpectExec(`INSERT INTO outbox_events`)
			if tt.outboxErr != nil {
				outbox.WillReturnError(tt.outboxErr)
				sqlMock.ExpectRollback()
			} else {
				outbox.WillReturnResult(sqlmock.NewResult(1, 1))
				sqlMock.ExpectCommit()
			}

			err := repo.WithinTx(context.Background(), func(r attendance.Repository, tx *sql.Tx) error {
				ok, err := r.UpdateTimeOut(context.Background(), id, update)
				if err != nil || !ok {
					return err
				}
				return pub.WithTx(tx).PublishAttendanceRecorded(context.Background(), events.AttendanceRecordedEvent{
					AttendanceID:   id.String(),
					EmployeeID:     "E1",
					AttendanceDate: "2026-03-02",
					Outcome:        "TIME_OUT",
				})
			})
			if tt.outboxErr != nil {
				assert.ErrorIs(t, err, tt.outboxErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}
