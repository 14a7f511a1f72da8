package session

import (
	"context"
	"time"

	sessionerrors "go-attendance/internal/session/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]SessionResponse, error)
	Active(ctx context.Context, at time.Time) (ActiveSessionResponse, error)
	Create(ctx context.Context, req SessionRequest) (SessionResponse, error)
	Update(ctx context.Context, id string, req SessionRequest) (SessionResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	resolver *Resolver
	loc      *time.Location
	logger   *zap.Logger
}

func NewService(repo Repository, resolver *Resolver, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, resolver: resolver, loc: loc, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]SessionResponse, error) {
	rows, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]SessionResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func (s *service) Active(ctx context.Context, at time.Time) (ActiveSessionResponse, error) {
	local := at.In(s.loc)
	res, err := s.resolver.Resolve(ctx, local)
	if err != nil {
		return ActiveSessionResponse{}, err
	}
	return ActiveSessionResponse{
		Allowed:    res.Allowed,
		Session:    res.SessionName,
		WindowKind: string(res.Kind),
		Degraded:   res.Degraded,
		At:         local.Format(time.RFC3339),
		ClockTime:  res.At.String(),
		Message:    res.Message,
	}, nil
}

func (s *service) Create(ctx context.Context, req SessionRequest) (SessionResponse, error) {
	row := &SessionConfig{ID: uuid.New()}
	applyRequest(row, req)

	if _, err := FromConfig(*row); err != nil {
		s.logger.Warn("create session rejected", zap.String("name", req.Name), zap.Error(err))
		return SessionResponse{}, sessionerrors.InvalidConfiguration(err)
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("create session persist failed", zap.String("name", req.Name), zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("create session success",
		zap.String("session_id", row.ID.String()),
		zap.String("name", row.Name),
	)
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, id string, req SessionRequest) (SessionResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SessionResponse{}, sessionerrors.ErrInvalidSessionID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SessionResponse{}, mapRepositoryError(err)
	}
	applyRequest(row, req)

	if _, err := FromConfig(*row); err != nil {
		s.logger.Warn("update session rejected", zap.String("session_id", id), zap.Error(err))
		return SessionResponse{}, sessionerrors.InvalidConfiguration(err)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("update session persist failed", zap.String("session_id", id), zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}
	s.logger.Info("update session success", zap.String("session_id", id))
	return mapToResponse(*row), nil
}

// Delete removes the configuration only; recorded attendance keeps its session name.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return sessionerrors.ErrInvalidSessionID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.logger.Info("delete session success", zap.String("session_id", id))
	return nil
}

func applyRequest(row *SessionConfig, req SessionRequest) {
	row.Name = req.Name
	row.Position = req.Position
	row.TimeInStart = req.TimeInStart
	row.TimeInEnd = req.TimeInEnd
	row.TimeOutStart = req.TimeOutStart
	row.TimeOutEnd = req.TimeOutEnd
	row.LateCutoff = req.LateCutoff
	row.BreakMinutes = req.BreakMinutes
}

func mapToResponse(row SessionConfig) SessionResponse {
	resp := SessionResponse{
		ID:       row.ID.String(),
		Name:     row.Name,
		Position: row.Position,
		TimeIn:   row.TimeInStart + "-" + row.TimeInEnd,
	}

	s, err := FromConfig(row)
	if err != nil {
		resp.Error = err.Error()
		if row.TimeOutStart != nil && row.TimeOutEnd != nil {
			v := *row.TimeOutStart + "-" + *row.TimeOutEnd
			resp.TimeOut = &v
		}
		resp.LateCutoff = row.LateCutoff
		resp.BreakMinutes = row.BreakMinutes
		return resp
	}

	resp.Valid = true
	resp.TimeIn = s.TimeIn.String()
	if s.TimeOut != nil {
		v := s.TimeOut.String()
		resp.TimeOut = &v
	}
	if s.LateCutoff != nil {
		v := s.LateCutoff.String()
		resp.LateCutoff = &v
	}
	resp.BreakMinutes = s.BreakMinutes
	return resp
}
