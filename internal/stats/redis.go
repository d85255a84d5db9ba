package stats

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"strings"
	"time"
)

// RedisRecorder keeps outcome counters in redis hashes:
//
//	<prefix>:total                 outcome -> count
//	<prefix>:lecture:<id>          outcome -> count
//	<prefix>:minute:<yyyymmddhhmm> outcome -> count (expires after ttl)
type RedisRecorder struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisOption func(*RedisRecorder)

func WithPrefix(prefix string) RedisOption {
	return func(r *RedisRecorder) { r.prefix = strings.Trim(prefix, ":") }
}

func WithTTL(d time.Duration) RedisOption {
	return func(r *RedisRecorder) { r.ttl = d }
}

func NewRedisRecorder(rdb *redis.Client, opts ...RedisOption) *RedisRecorder {
	r := &RedisRecorder{
		rdb:    rdb,
		prefix: "registrar:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisRecorder) Record(ctx context.Context, ev Event) error {
	if r == nil || r.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := string(ev.Outcome)

	pipe := r.rdb.Pipeline()
	pipe.HIncrBy(ctx, r.TotalKey(), field, 1)
	pipe.HIncrBy(ctx, r.LectureKey(ev.LectureID), field, 1)

	bucketKey := r.MinuteKey(at)
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if r.ttl > 0 {
		pipe.Expire(ctx, bucketKey, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("stats.RedisRecorder.Record: %w", err)
	}

	return nil
}

func (r *RedisRecorder) TotalKey() string {
	return r.prefix + ":total"
}

func (r *RedisRecorder) LectureKey(lectureID int64) string {
	return fmt.Sprintf("%s:lecture:%d", r.prefix, lectureID)
}

func (r *RedisRecorder) MinuteKey(at time.Time) string {
	return fmt.Sprintf("%s:minute:%s", r.prefix, at.UTC().Format("200601021504"))
}
