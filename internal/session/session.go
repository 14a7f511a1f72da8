package session

import (
	"errors"
	"fmt"
	"strings"

	"go-attendance/internal/clock"
)

type WindowKind string

const (
	KindTimeIn  WindowKind = "TIME_IN"
	KindTimeOut WindowKind = "TIME_OUT"
	// KindFallback marks a degraded-mode resolution with no configured window.
	KindFallback WindowKind = "FALLBACK"
)

type Session struct {
	Name         string
	TimeIn       clock.Window
	TimeOut      *clock.Window
	LateCutoff   *clock.Time
	BreakMinutes *int
}

// IsLate reports whether an arrival at t is strictly after the late cutoff.
// For overnight time-in windows the comparison is made relative to the
// window start so that a cutoff after midnight behaves as expected.
func (s Session) IsLate(t clock.Time) bool {
	if s.LateCutoff == nil {
		return false
	}
	cutoff := *s.LateCutoff
	if !s.TimeIn.Overnight() {
		return t > cutoff
	}
	return sinceStart(s.TimeIn.Start, t) > sinceStart(s.TimeIn.Start, cutoff)
}

func sinceStart(start, t clock.Time) int {
	return (int(t) - int(start) + clock.SecondsPerDay) % clock.SecondsPerDay
}

func (s Session) Describe() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString(" (in ")
	b.WriteString(s.TimeIn.String())
	if s.TimeOut != nil {
		b.WriteString(", out ")
		b.WriteString(s.TimeOut.String())
	} else {
		b.WriteString(", no time-out")
	}
	if s.LateCutoff != nil {
		b.WriteString(", late after ")
		b.WriteString(s.LateCutoff.String())
	}
	b.WriteString(")")
	return b.String()
}

// FromConfig validates a configuration row and converts it to a Session.
func FromConfig(row SessionConfig) (Session, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return Session{}, errors.New("session name is required")
	}

	timeIn, err := clock.ParseWindow(row.TimeInStart, row.TimeInEnd)
	if err != nil {
		return Session{}, fmt.Errorf("session %q time-in window: %w", name, err)
	}

	s := Session{Name: name, TimeIn: timeIn}

	switch {
	case row.TimeOutStart != nil && row.TimeOutEnd != nil:
		timeOut, err := clock.ParseWindow(*row.TimeOutStart, *row.TimeOutEnd)
		if err != nil {
			return Session{}, fmt.Errorf("session %q time-out window: %w", name, err)
		}
		s.TimeOut = &timeOut
	case row.TimeOutStart != nil || row.TimeOutEnd != nil:
		return Session{}, fmt.Errorf("session %q time-out window needs both start and end", name)
	}

	if row.LateCutoff != nil {
		cutoff, err := clock.Parse(*row.LateCutoff)
		if err != nil {
			return Session{}, fmt.Errorf("session %q late cutoff: %w", name, err)
		}
		s.LateCutoff = &cutoff
	}

	if row.BreakMinutes != nil {
		if *row.BreakMinutes < 0 {
			return Session{}, fmt.Errorf("session %q break minutes must not be negative", name)
		}
		v := *row.BreakMinutes
		s.BreakMinutes = &v
	}

	return s, nil
}
