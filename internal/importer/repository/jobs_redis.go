package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hleeroa/Autoshop/internal/importer"
	"github.com/hleeroa/Autoshop/pkg/cache"
	"github.com/redis/go-redis/v9"
)

const jobTTL = 24 * time.Hour

// RedisJobStore keeps import-job status records keyed by correlation
// id so callers can poll instead of a fire-and-forget acknowledgment.
type RedisJobStore struct {
	cache *cache.RedisClient
}

func NewRedisJobStore(c *cache.RedisClient) *RedisJobStore {
	return &RedisJobStore{cache: c}
}

func jobKey(id string) string {
	return "import:job:" + id
}

func (s *RedisJobStore) Save(ctx context.Context, job *importer.Job) error {
	job.UpdatedAt = time.Now()
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.cache.Client.Set(ctx, jobKey(job.ID), data, jobTTL).Err()
}

func (s *RedisJobStore) Get(ctx context.Context, id string) (*importer.Job, error) {
	data, err := s.cache.Client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, importer.ErrJobNotFound
		}
		return nil, err
	}
	var job importer.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
