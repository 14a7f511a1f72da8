package attendance

import (
	"context"
	"strconv"
	"time"

	"go-attendance/internal/events"

	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyPrefix = "attendance:summary:"
	summarySeenKey   = "attendance:summary:seen:"
	summaryTTL       = 35 * 24 * time.Hour
	seenTTL          = 48 * time.Hour
)

func SummaryKey(date string) string {
	return summaryKeyPrefix + date
}

// SummaryStore keeps per-day counters fed by attendance.recorded events.
type SummaryStore struct {
	rdb *redis.Client
}

func NewSummaryStore(rdb *redis.Client) *SummaryStore {
	return &SummaryStore{rdb: rdb}
}

// Apply counts event once. Redelivered events are recognised by event id
// and reported as not applied.
func (s *SummaryStore) Apply(ctx context.Context, event events.AttendanceRecordedEvent) (bool, error) {
	if event.EventID != "" {
		first, err := s.rdb.SetNX(ctx, summarySeenKey+event.EventID, 1, seenTTL).Result()
		if err != nil {
			return false, err
		}
		if !first {
			return false, nil
		}
	}

	key := SummaryKey(event.AttendanceDate)
	pipe := s.rdb.TxPipeline()
	switch Outcome(event.Outcome) {
	case OutcomeTimeIn:
		pipe.HIncrBy(ctx, key, "time_in", 1)
		if event.Late {
			pipe.HIncrBy(ctx, key, "late", 1)
		}
	case OutcomeTimeOut:
		pipe.HIncrBy(ctx, key, "time_out", 1)
	default:
		return false, nil
	}
	pipe.Expire(ctx, key, summaryTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		if event.EventID != "" {
			s.rdb.Del(ctx, summarySeenKey+event.EventID)
		}
		return false, err
	}
	return true, nil
}

func (s *SummaryStore) Get(ctx context.Context, date string) (SummaryResponse, error) {
	values, err := s.rdb.HGetAll(ctx, SummaryKey(date)).Result()
	if err != nil {
		return SummaryResponse{}, err
	}

	resp := SummaryResponse{Date: date}
	resp.TimeIn, _ = strconv.ParseInt(values["time_in"], 10, 64)
	resp.TimeOut, _ = strconv.ParseInt(values["time_out"], 10, 64)
	resp.Late, _ = strconv.ParseInt(values["late"], 10, 64)
	return resp, nil
}
