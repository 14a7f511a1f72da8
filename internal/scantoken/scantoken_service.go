package scantoken

import (
	"context"
	"strings"
	"time"

	"go-attendance/internal/attendance"
	"go-attendance/internal/ratelimit"
	scantokenerrors "go-attendance/internal/scantoken/errors"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EmployeeTTL     = 60 * time.Second
	MaxAdminTTL     = 300 * time.Second
	MaxIssuePerMin  = 10
	MaxScansPerMin  = 10
	rateLimitWindow = time.Minute
	DefaultTimeout  = 5 * time.Second
)

// Recorder is the attendance decision a successful scan feeds into.
type Recorder interface {
	Record(ctx context.Context, event attendance.Event) (attendance.Result, error)
}

//go:generate mockgen -source=scantoken_service.go -destination=mock/scantoken_service_mock.go -package=mock
type Service interface {
	Issue(ctx context.Context, employeeID string) (TokenResponse, error)
	IssueAdmin(ctx context.Context, issuedBy string, req AdminIssueRequest) (TokenResponse, error)
	Validate(ctx context.Context, token string, now time.Time) (*ScanToken, error)
	Consume(ctx context.Context, token string, mark UseMark) error
	Scan(ctx context.Context, req ScanRequest, ipAddress string) (attendance.Result, error)
}

type service struct {
	repo     Repository
	limiter  ratelimit.Limiter
	recorder Recorder
	timeout  time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewService bounds every call by timeout unless the caller's context
// already has a deadline. Zero means DefaultTimeout.
func NewService(repo Repository, limiter ratelimit.Limiter, recorder Recorder, timeout time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("scantoken.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("scantoken.service")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &service{
		repo:     repo,
		limiter:  limiter,
		recorder: recorder,
		timeout:  timeout,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Issue(ctx context.Context, employeeID string) (TokenResponse, error) {
	ctx, cancel := contextutil.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return TokenResponse{}, scantokenerrors.ErrEmployeeRequired
	}

	if !s.allow(ctx, "scan-token:issue:"+employeeID, MaxIssuePerMin) {
		s.logger.Warn("scan token issuance rate limited", zap.String("employee_id", employeeID))
		return TokenResponse{}, apperror.ErrTooManyRequests
	}

	return s.issue(ctx, employeeID, EmployeeTTL, nil)
}

func (s *service) IssueAdmin(ctx context.Context, issuedBy string, req AdminIssueRequest) (TokenResponse, error) {
	ctx, cancel := contextutil.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()
	ttl := time.Duration(req.TTLSeconds) * time.Second
	if req.TTLSeconds == 0 {
		ttl = EmployeeTTL
	}
	if ttl <= 0 || ttl > MaxAdminTTL {
		return TokenResponse{}, scantokenerrors.ErrInvalidTTL
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		return TokenResponse{}, apperror.RequiredField("Employee Id")
	}

	var by *string
	if issuedBy != "" {
		by = &issuedBy
	}
	return s.issue(ctx, employeeID, ttl, by)
}

func (s *service) issue(ctx context.Context, employeeID string, ttl time.Duration, issuedBy *string) (TokenResponse, error) {
	now := s.now()
	token := &ScanToken{
		ID:         uuid.New(),
		Token:      strings.ReplaceAll(uuid.NewString(), "-", ""),
		EmployeeID: employeeID,
		ExpiresAt:  now.Add(ttl),
		IssuedBy:   issuedBy,
	}

	if err := s.repo.Create(ctx, token); err != nil {
		s.logger.Error("create scan token failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return TokenResponse{}, apperror.Transient(err)
	}

	s.logger.Info("scan token issued",
		zap.String("employee_id", employeeID),
		zap.Duration("ttl", ttl),
		zap.Bool("admin", issuedBy != nil),
	)

	return TokenResponse{
		Token:      token.Token,
		EmployeeID: employeeID,
		ExpiresAt:  token.ExpiresAt.UTC().Format(time.RFC3339),
		TTLSeconds: int(ttl / time.Second),
	}, nil
}

// Validate checks existence, expiry and used-state, in that order.
func (s *service) Validate(ctx context.Context, token string, now time.Time) (*ScanToken, error) {
	ctx, cancel := contextutil.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()
	t, err := s.find(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := usable(t, now); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Consume(ctx context.Context, token string, mark UseMark) error {
	ctx, cancel := contextutil.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()
	ok, err := s.repo.MarkUsed(ctx, token, mark)
	if err != nil {
		return apperror.Transient(err)
	}
	if !ok {
		return scantokenerrors.ErrTokenAlreadyUsed
	}
	return nil
}

// Scan runs the QR path: resolve the token, limit attempts per employee,
// record attendance and consume the token only when attendance was written.
func (s *service) Scan(ctx context.Context, req ScanRequest, ipAddress string) (attendance.Result, error) {
	ctx, cancel := contextutil.WithDefaultTimeout(ctx, s.timeout)
	defer cancel()
	log := contextutil.GetLogger(ctx, s.logger)
	now := s.now()

	t, err := s.find(ctx, req.Token)
	if err != nil {
		return attendance.Result{}, err
	}

	if !s.allow(ctx, "scan:attempt:"+t.EmployeeID, MaxScansPerMin) {
		log.Warn("scan attempts rate limited", zap.String("employee_id", t.EmployeeID))
		return attendance.Result{}, apperror.ErrTooManyRequests
	}

	if err := usable(t, now); err != nil {
		log.Warn("scan token rejected",
			zap.String("employee_id", t.EmployeeID),
			zap.Error(err),
		)
		return attendance.Result{}, err
	}

	result, err := s.recorder.Record(ctx, attendance.Event{
		EmployeeID: t.EmployeeID,
		Timestamp:  now,
		Source:     attendance.SourceQR,
		DeviceID:   req.DeviceFingerprint,
	})
	if err != nil || !result.Success() {
		return result, err
	}

	// The attendance row is already committed. A token left unconsumed here
	// is caught by the attendance state machine on reuse.
	err = s.Consume(ctx, t.Token, UseMark{
		UsedAt:            now,
		DeviceFingerprint: req.DeviceFingerprint,
		IPAddress:         ipAddress,
	})
	if err != nil {
		log.Warn("consume scan token after attendance write failed",
			zap.String("employee_id", t.EmployeeID),
			zap.String("outcome", string(result.Outcome)),
			zap.Error(err),
		)
	}
	return result, nil
}

func (s *service) find(ctx context.Context, token string) (*ScanToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, scantokenerrors.ErrTokenNotFound
	}
	t, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		s.logger.Error("find scan token failed", zap.Error(err))
		return nil, apperror.Transient(err)
	}
	if t == nil {
		return nil, scantokenerrors.ErrTokenNotFound
	}
	return t, nil
}

func usable(t *ScanToken, now time.Time) error {
	if t.Expired(now) {
		return scantokenerrors.ErrTokenExpired
	}
	if t.Used() {
		return scantokenerrors.ErrTokenAlreadyUsed
	}
	return nil
}

// allow fails open when the limiter store is unavailable.
func (s *service) allow(ctx context.Context, key string, max int64) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Attempt(ctx, key, max, rateLimitWindow)
	if err != nil {
		s.logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}
