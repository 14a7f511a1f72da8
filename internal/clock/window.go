package clock

import (
	"fmt"
	"strings"
)

// Window is a clock-time interval. A window whose start is after its end
// wraps past midnight. Both bounds are inclusive, so a window with equal
// bounds contains exactly that instant.
type Window struct {
	Start Time
	End   Time
}

func NewWindow(start, end Time) (Window, error) {
	if !start.Valid() || !end.Valid() {
		return Window{}, fmt.Errorf("%w: window %d-%d", ErrInvalidClockTime, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// ParseWindow builds a window from two textual clock times.
func ParseWindow(start, end string) (Window, error) {
	s, err := Parse(start)
	if err != nil {
		return Window{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Window{}, err
	}
	return NewWindow(s, e)
}

func (w Window) Overnight() bool {
	return w.Start > w.End
}

func (w Window) Contains(t Time) bool {
	if w.Overnight() {
		return t >= w.Start || t <= w.End
	}
	return w.Start <= t && t <= w.End
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// UnmarshalText accepts "HH:MM[:SS]-HH:MM[:SS]".
func (w *Window) UnmarshalText(text []byte) error {
	start, end, ok := strings.Cut(string(text), "-")
	if !ok {
		return fmt.Errorf("%w: %q, expected START-END", ErrInvalidClockTime, string(text))
	}
	v, err := ParseWindow(start, end)
	if err != nil {
		return err
	}
	*w = v
	return nil
}

func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}
