package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeOutUpdate struct {
	TimeOut      time.Time
	BreakMinutes *int
	Status       string
	Session      string
	Source       Source
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	// FindToday returns nil, nil when the employee has no row for date.
	FindToday(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	InsertTimeIn(ctx context.Context, a *Attendance) error
	// UpdateTimeOut only touches a row whose time_out is still NULL and
	// reports false when another writer got there first.
	UpdateTimeOut(ctx context.Context, id uuid.UUID, update TimeOutUpdate) (bool, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error)
	// WithinTx runs fn against a repository bound to one transaction. tx is
	// the same transaction, for stores outside gorm that must commit with it.
	WithinTx(ctx context.Context, fn func(repo Repository, tx *sql.Tx) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindToday(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) InsertTimeIn(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) UpdateTimeOut(ctx context.Context, id uuid.UUID, update TimeOutUpdate) (bool, error) {
	source := string(update.Source)
	res := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ? AND time_out IS NULL", id).
		Updates(map[string]any{
			"time_out":         update.TimeOut,
			"break_minutes":    update.BreakMinutes,
			"status":           update.Status,
			"time_out_session": update.Session,
			"time_out_source":  source,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) WithinTx(ctx context.Context, fn func(repo Repository, tx *sql.Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sqlTx, ok := tx.Statement.ConnPool.(*sql.Tx)
		if !ok {
			return errors.New("attendance: gorm transaction is not backed by *sql.Tx")
		}
		return fn(&repository{db: tx}, sqlTx)
	})
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	q := r.db.WithContext(ctx).Model(&Attendance{})
	if filter.Date != "" {
		q = q.Where("attendance_date = ?", filter.Date)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}

	var rows []Attendance
	err := q.Order("attendance_date DESC, time_in DESC").Find(&rows).Error
	return rows, err
}
