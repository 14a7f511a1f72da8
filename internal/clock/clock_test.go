package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Time
		wantErr bool
	}{
		{name: "hours and minutes", in: "08:00", want: 8 * 3600},
		{name: "with seconds", in: "23:59:59", want: SecondsPerDay - 1},
		{name: "midnight", in: "00:00:00", want: 0},
		{name: "hour out of range", in: "24:00:00", wantErr: true},
		{name: "minute out of range", in: "10:60", wantErr: true},
		{name: "single digit", in: "8:00", wantErr: true},
		{name: "garbage", in: "noon", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidClockTime))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTime_StringAndOf(t *testing.T) {
	ts := time.Date(2026, 3, 2, 7, 5, 9, 0, time.UTC)
	assert.Equal(t, "07:05:09", Of(ts).String())

	loc := time.FixedZone("UTC+8", 8*3600)
	assert.Equal(t, "15:05:09", Of(ts.In(loc)).String())
}

func TestTime_On(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	day := time.Date(2026, 3, 2, 23, 0, 0, 0, loc)
	got := MustParse("08:30:00").On(day)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 0, 0, loc), got)
}

func TestTime_UnmarshalText(t *testing.T) {
	var v Time
	assert.NoError(t, v.UnmarshalText([]byte("12:30")))
	assert.Equal(t, "12:30:00", v.String())
	assert.Error(t, v.UnmarshalText([]byte("12:3")))
}
