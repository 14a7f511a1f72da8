package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	attendanceerrors "go-attendance/internal/attendance/errors"
	"go-attendance/internal/events"
	"go-attendance/internal/session"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 5 * time.Second
	// maxClockSkew bounds how far into the future a device timestamp may be.
	maxClockSkew = time.Minute
)

type Outcome string

const (
	OutcomeTimeIn   Outcome = "TIME_IN"
	OutcomeTimeOut  Outcome = "TIME_OUT"
	OutcomeRejected Outcome = "REJECTED"
)

// Event is one attendance attempt from any input channel.
type Event struct {
	EmployeeID string
	// Timestamp is when the employee presented themselves. Zero means now.
	Timestamp time.Time
	Source    Source
	DeviceID  string
}

// Result is the gate's decision. Rejections are results, not errors.
type Result struct {
	Outcome    Outcome             `json:"outcome"`
	ReasonCode string              `json:"reason,omitempty"`
	Reason     *apperror.AppError  `json:"-"`
	Session    string              `json:"session,omitempty"`
	WindowKind session.WindowKind  `json:"window_kind,omitempty"`
	Degraded   bool                `json:"degraded"`
	Message    string              `json:"message"`
	Record     *AttendanceResponse `json:"record,omitempty"`
}

func (r Result) Success() bool {
	return r.Outcome == OutcomeTimeIn || r.Outcome == OutcomeTimeOut
}

type SessionResolver interface {
	Resolve(ctx context.Context, now time.Time) (session.Resolution, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, event Event) (Result, error)
	GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error)
	Summary(ctx context.Context, date string) (SummaryResponse, error)
}

type Options struct {
	// Location decides the calendar date and the wall clock compared to windows.
	Location  *time.Location
	Timeout   time.Duration
	Publisher EventPublisher
	Summary   *SummaryStore
	Now       func() time.Time
}

type service struct {
	repo      Repository
	resolver  SessionResolver
	publisher EventPublisher
	summary   *SummaryStore
	loc       *time.Location
	timeout   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, resolver SessionResolver, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}

	s := &service{
		repo:      repo,
		resolver:  resolver,
		publisher: opts.Publisher,
		summary:   opts.Summary,
		loc:       opts.Location,
		timeout:   opts.Timeout,
		now:       opts.Now,
		logger:    l,
	}
	if s.publisher == nil {
		s.publisher = noopPublisher{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Record(ctx context.Context, event Event) (Result, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	event.EmployeeID = strings.TrimSpace(event.EmployeeID)
	if event.EmployeeID == "" {
		return Result{}, attendanceerrors.ErrInvalidEmployeeID
	}
	now := s.now()
	if event.Timestamp.IsZero() {
		event.Timestamp = now
	}
	if event.Timestamp.After(now.Add(maxClockSkew)) {
		return Result{}, attendanceerrors.ErrTimestampInFuture
	}

	ctx, cancel := contextutil.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()

	local := event.Timestamp.In(s.loc)
	date := calendarDate(local)

	res, err := s.resolver.Resolve(ctx, local)
	if err != nil {
		return Result{}, transient(err)
	}
	if !res.Allowed {
		return reject(res, attendanceerrors.ErrOutOfSession, res.Message), nil
	}

	existing, err := s.repo.FindToday(ctx, event.EmployeeID, date)
	if err != nil {
		log.Error("find today's attendance failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		return Result{}, transient(err)
	}

	switch {
	case existing == nil && res.Kind == session.KindTimeOut:
		return reject(res, attendanceerrors.ErrNoTimeInYet, ""), nil
	case existing == nil:
		return s.timeIn(ctx, log, event, res, date)
	case existing.Completed():
		return reject(res, attendanceerrors.ErrAlreadyCompleted, ""), nil
	case res.Kind == session.KindTimeIn:
		return reject(res, attendanceerrors.ErrAlreadyTimedIn, ""), nil
	case res.Kind == session.KindFallback, res.Session == nil, res.Session.TimeOut == nil:
		return reject(res, attendanceerrors.ErrTimeOutNotConfigured, ""), nil
	default:
		return s.timeOut(ctx, log, event, res, existing)
	}
}

func (s *service) timeIn(
	ctx context.Context,
	log *zap.Logger,
	event Event,
	res session.Resolution,
	date time.Time,
) (Result, error) {
	late := res.Session != nil && res.Session.IsLate(res.At)
	status := StatusPresent
	if late {
		status = StatusLate
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     event.EmployeeID,
		AttendanceDate: date,
		TimeIn:         event.Timestamp,
		Session:        res.SessionName,
		Status:         status,
		IsLate:         late,
		Source:         string(event.Source),
		DeviceID:       optionalString(event.DeviceID),
	}

	err := s.repo.WithinTx(ctx, func(repo Repository, tx *sql.Tx) error {
		if err := repo.InsertTimeIn(ctx, row); err != nil {
			return err
		}
		return s.publish(ctx, tx, OutcomeTimeIn, row, res, event.Source)
	})
	if err != nil {
		if isDuplicateAttendance(err) {
			log.Info("concurrent time-in lost the race",
				zap.String("employee_id", event.EmployeeID),
			)
			return reject(res, attendanceerrors.ErrAlreadyTimedIn, ""), nil
		}
		log.Error("record time-in failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		return Result{}, transient(err)
	}

	msg := fmt.Sprintf("Time in recorded for %s session", res.SessionName)
	if late {
		msg += " (late)"
	}
	if res.Degraded {
		msg += ", no sessions configured"
	}

	log.Info("time-in recorded",
		zap.String("employee_id", event.EmployeeID),
		zap.String("session", res.SessionName),
		zap.String("status", status),
		zap.String("source", string(event.Source)),
		zap.Bool("degraded", res.Degraded),
	)

	return s.accepted(OutcomeTimeIn, res, msg, row), nil
}

func (s *service) timeOut(
	ctx context.Context,
	log *zap.Logger,
	event Event,
	res session.Resolution,
	existing *Attendance,
) (Result, error) {
	if !event.Timestamp.After(existing.TimeIn) {
		return Result{}, attendanceerrors.ErrTimeOutBeforeTimeIn
	}

	update := TimeOutUpdate{
		TimeOut:      event.Timestamp,
		BreakMinutes: res.Session.BreakMinutes,
		Status:       StatusAttendanceComplete,
		Session:      res.SessionName,
		Source:       event.Source,
	}
	row := *existing
	row.TimeOut = &update.TimeOut
	row.BreakMinutes = update.BreakMinutes
	row.Status = update.Status
	row.TimeOutSession = &update.Session
	row.TimeOutSource = optionalString(string(event.Source))

	var updated bool
	err := s.repo.WithinTx(ctx, func(repo Repository, tx *sql.Tx) error {
		ok, err := repo.UpdateTimeOut(ctx, existing.ID, update)
		if err != nil || !ok {
			return err
		}
		updated = true
		return s.publish(ctx, tx, OutcomeTimeOut, &row, res, event.Source)
	})
	if err != nil {
		log.Error("record time-out failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("attendance_id", existing.ID.String()),
			zap.Error(err),
		)
		return Result{}, transient(err)
	}
	if !updated {
		return reject(res, attendanceerrors.ErrAlreadyCompleted, ""), nil
	}

	log.Info("time-out recorded",
		zap.String("employee_id", event.EmployeeID),
		zap.String("session", res.SessionName),
		zap.String("source", string(event.Source)),
	)

	msg := fmt.Sprintf("Time out recorded for %s session", res.SessionName)
	return s.accepted(OutcomeTimeOut, res, msg, &row), nil
}

// publish writes the event through tx, so a failed event write rolls back
// the attendance row with it.
func (s *service) publish(
	ctx context.Context,
	tx *sql.Tx,
	outcome Outcome,
	row *Attendance,
	res session.Resolution,
	source Source,
) error {
	return s.publisher.WithTx(tx).PublishAttendanceRecorded(ctx, events.AttendanceRecordedEvent{
		AttendanceID:   row.ID.String(),
		EmployeeID:     row.EmployeeID,
		AttendanceDate: row.AttendanceDate.Format("2006-01-02"),
		Outcome:        string(outcome),
		Session:        res.SessionName,
		Status:         row.Status,
		Late:           row.IsLate && outcome == OutcomeTimeIn,
		Source:         string(source),
		Degraded:       res.Degraded,
		OccurredAt:     s.now().UTC(),
	})
}

func (s *service) accepted(outcome Outcome, res session.Resolution, msg string, row *Attendance) Result {
	resp := s.mapToResponse(*row)
	return Result{
		Outcome:    outcome,
		Session:    res.SessionName,
		WindowKind: res.Kind,
		Degraded:   res.Degraded,
		Message:    msg,
		Record:     &resp,
	}
}

func reject(res session.Resolution, reason *apperror.AppError, msg string) Result {
	if msg == "" {
		msg = reason.Message
	}
	return Result{
		Outcome:    OutcomeRejected,
		ReasonCode: reason.Code,
		Reason:     reason,
		Session:    res.SessionName,
		WindowKind: res.Kind,
		Degraded:   res.Degraded,
		Message:    msg,
	}
}

func transient(err error) error {
	if apperror.IsTransient(err) {
		return err
	}
	return apperror.Transient(err)
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]AttendanceResponse, error) {
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, transient(err)
	}

	resp := make([]AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, s.mapToResponse(row))
	}
	return resp, nil
}

func (s *service) Summary(ctx context.Context, date string) (SummaryResponse, error) {
	if date == "" {
		date = calendarDate(s.now().In(s.loc)).Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return SummaryResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	if s.summary == nil {
		return SummaryResponse{Date: date}, nil
	}

	summary, err := s.summary.Get(ctx, date)
	if err != nil {
		return SummaryResponse{}, transient(err)
	}
	return summary, nil
}

func (s *service) mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID,
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		TimeIn:         a.TimeIn.In(s.loc).Format(time.RFC3339),
		Session:        a.Session,
		TimeOutSession: a.TimeOutSession,
		BreakMinutes:   a.BreakMinutes,
		Status:         a.Status,
		Late:           a.IsLate,
		Source:         a.Source,
		DeviceID:       a.DeviceID,
	}
	if a.TimeOut != nil {
		out := a.TimeOut.In(s.loc).Format(time.RFC3339)
		resp.TimeOut = &out
	}
	return resp
}

// calendarDate keeps the local date but drops the zone so the value
// round-trips through a DATE column unchanged.
func calendarDate(local time.Time) time.Time {
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
