package session

import (
	"fmt"
	"strings"

	"go-attendance/internal/clock"
	sessionerrors "go-attendance/internal/session/errors"
)

type Match struct {
	Session Session
	Kind    WindowKind
}

// InvalidSession is a configured row that could not be turned into a Session.
// It is left out of resolution; the rest of the catalog keeps working.
type InvalidSession struct {
	Name string
	Err  error
}

// Catalog is an ordered, read-only set of sessions. Iteration order is the
// configuration order and decides ties.
type Catalog struct {
	sessions []Session
	invalid  []InvalidSession
}

func NewCatalog(sessions ...Session) *Catalog {
	c := &Catalog{}
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if _, dup := seen[s.Name]; dup {
			c.invalid = append(c.invalid, InvalidSession{
				Name: s.Name,
				Err:  fmt.Errorf("duplicate session name %q", s.Name),
			})
			continue
		}
		seen[s.Name] = struct{}{}
		c.sessions = append(c.sessions, s)
	}
	return c
}

// BuildCatalog converts configuration rows, isolating malformed ones.
func BuildCatalog(rows []SessionConfig) *Catalog {
	valid := make([]Session, 0, len(rows))
	var invalid []InvalidSession
	for _, row := range rows {
		s, err := FromConfig(row)
		if err != nil {
			invalid = append(invalid, InvalidSession{Name: row.Name, Err: err})
			continue
		}
		valid = append(valid, s)
	}

	c := NewCatalog(valid...)
	c.invalid = append(invalid, c.invalid...)
	return c
}

// Empty reports whether nothing at all is configured. A catalog whose rows
// are all malformed is not empty.
func (c *Catalog) Empty() bool {
	return len(c.sessions) == 0 && len(c.invalid) == 0
}

func (c *Catalog) Sessions() []Session {
	out := make([]Session, len(c.sessions))
	copy(out, c.sessions)
	return out
}

func (c *Catalog) Invalid() []InvalidSession {
	out := make([]InvalidSession, len(c.invalid))
	copy(out, c.invalid)
	return out
}

// ActiveSessionFor scans time-in windows first, then time-out windows, both
// in catalog order. The first hit wins.
func (c *Catalog) ActiveSessionFor(at clock.Time) (Match, bool) {
	for _, s := range c.sessions {
		if s.TimeIn.Contains(at) {
			return Match{Session: s, Kind: KindTimeIn}, true
		}
	}
	for _, s := range c.sessions {
		if s.TimeOut != nil && s.TimeOut.Contains(at) {
			return Match{Session: s, Kind: KindTimeOut}, true
		}
	}
	return Match{}, false
}

func (c *Catalog) SessionByName(name string) (Session, error) {
	for _, s := range c.sessions {
		if s.Name == name {
			return s, nil
		}
	}
	return Session{}, sessionerrors.ErrSessionNotFound
}

// Describe lists the configured windows for operator diagnosis.
func (c *Catalog) Describe() string {
	if len(c.sessions) == 0 && len(c.invalid) == 0 {
		return "no sessions configured"
	}

	parts := make([]string, 0, len(c.sessions)+len(c.invalid))
	for _, s := range c.sessions {
		parts = append(parts, s.Describe())
	}
	for _, inv := range c.invalid {
		parts = append(parts, fmt.Sprintf("%s (invalid: %v)", inv.Name, inv.Err))
	}
	return strings.Join(parts, "; ")
}
