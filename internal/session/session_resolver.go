package session

import (
	"context"
	"fmt"
	"time"

	"go-attendance/internal/clock"
	"go-attendance/internal/shared/apperror"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const catalogLoadTimeout = 5 * time.Second

const (
	FallbackMorning   = "morning"
	FallbackAfternoon = "afternoon"
	FallbackNight     = "night"
)

// Resolution is the answer to "may attendance be taken right now, and for what".
type Resolution struct {
	Allowed bool
	// Session is nil when not allowed or when degraded.
	Session     *Session
	SessionName string
	Kind        WindowKind
	Degraded    bool
	At          clock.Time
	Message     string
}

// Resolver re-reads the catalog on every call. Concurrent loads are
// coalesced into one source read.
type Resolver struct {
	source ConfigSource
	sf     singleflight.Group
	logger *zap.Logger
}

func NewResolver(source ConfigSource, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("session.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.resolver")
	}
	return &Resolver{source: source, logger: l}
}

// Catalog loads the current catalog. The shared load runs detached from any
// single caller's cancellation, bounded by catalogLoadTimeout; each caller
// still stops waiting when its own ctx ends.
func (r *Resolver) Catalog(ctx context.Context) (*Catalog, error) {
	ch := r.sf.DoChan("catalog", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogLoadTimeout)
		defer cancel()

		rows, err := r.source.ListSessions(loadCtx)
		if err != nil {
			return nil, err
		}
		return BuildCatalog(rows), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, apperror.Transient(ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		r.logger.Error("load session catalog failed", zap.Error(res.Err))
		return nil, apperror.Transient(res.Err)
	}

	catalog := res.Val.(*Catalog)
	for _, inv := range catalog.Invalid() {
		r.logger.Warn("session configuration skipped",
			zap.String("session", inv.Name),
			zap.Error(inv.Err),
		)
	}
	return catalog, nil
}

// Resolve evaluates now (already in the business location) against the catalog.
func (r *Resolver) Resolve(ctx context.Context, now time.Time) (Resolution, error) {
	catalog, err := r.Catalog(ctx)
	if err != nil {
		return Resolution{}, err
	}
	return ResolveWith(catalog, now), nil
}

// ResolveWith is the pure part of Resolve.
func ResolveWith(catalog *Catalog, now time.Time) Resolution {
	at := clock.Of(now)

	if catalog.Empty() {
		name := fallbackSessionName(at)
		return Resolution{
			Allowed:     true,
			SessionName: name,
			Kind:        KindFallback,
			Degraded:    true,
			At:          at,
			Message:     fmt.Sprintf("No sessions configured, using %s fallback", name),
		}
	}

	match, ok := catalog.ActiveSessionFor(at)
	if !ok {
		return Resolution{
			Allowed: false,
			At:      at,
			Message: fmt.Sprintf("Attendance is not open at %s. Configured sessions: %s", at, catalog.Describe()),
		}
	}

	s := match.Session
	label := "time-in"
	if match.Kind == KindTimeOut {
		label = "time-out"
	}
	return Resolution{
		Allowed:     true,
		Session:     &s,
		SessionName: s.Name,
		Kind:        match.Kind,
		At:          at,
		Message:     fmt.Sprintf("%s %s window is open", s.Name, label),
	}
}

func fallbackSessionName(at clock.Time) string {
	switch h := at.Hour(); {
	case h >= 6 && h < 12:
		return FallbackMorning
	case h >= 12 && h < 18:
		return FallbackAfternoon
	default:
		return FallbackNight
	}
}
