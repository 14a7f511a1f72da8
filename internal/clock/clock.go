package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay is the number of distinct clock times in a day.
const SecondsPerDay = 24 * 60 * 60

var ErrInvalidClockTime = errors.New("invalid clock time")

// Time is a time of day expressed as seconds since midnight.
type Time int32

func New(hour, minute, second int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidClockTime, hour, minute, second)
	}
	return Time(hour*3600 + minute*60 + second), nil
}

// MustParse is for tests and static tables only.
func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse accepts "HH:MM" or "HH:MM:SS".
func Parse(s string) (Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q, expected HH:MM or HH:MM:SS", ErrInvalidClockTime, s)
	}

	values := [3]int{}
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
		}
		values[i] = v
	}
	return New(values[0], values[1], values[2])
}

// Of returns the clock time of t in t's own location.
func Of(t time.Time) Time {
	return Time(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

func (t Time) Valid() bool {
	return t >= 0 && t < SecondsPerDay
}

func (t Time) Hour() int   { return int(t) / 3600 }
func (t Time) Minute() int { return int(t) % 3600 / 60 }
func (t Time) Second() int { return int(t) % 60 }

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// On places the clock time on the calendar day of day, in day's location.
func (t Time) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, day.Location())
}

func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Time) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
