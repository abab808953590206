package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const progressTTL = 24 * time.Hour

// RedisProgress publishes job state into a Redis hash the dashboard polls.
type RedisProgress struct {
	rdb *redis.Client
}

func NewRedisProgress(rdb *redis.Client) *RedisProgress {
	return &RedisProgress{rdb: rdb}
}

func progressKey(jobID string) string {
	return "badgejob:" + jobID
}

func (r *RedisProgress) Update(ctx context.Context, jobID, state string, st Stats) {
	key := progressKey(jobID)
	r.rdb.HSet(ctx, key,
		"state", state,
		"processed", st.Processed,
		"succeeded", st.Succeeded,
		"failed", st.Failed,
		"updated_at", time.Now().UTC().Format(time.RFC3339),
	)
	r.rdb.Expire(ctx, key, progressTTL)
}

// Get returns the raw hash for a job, or an error if no such job exists.
func (r *RedisProgress) Get(ctx context.Context, jobID string) (map[string]string, error) {
	vals, err := r.rdb.HGetAll(ctx, progressKey(jobID)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("no badge job %q", jobID)
	}
	return vals, nil
}
