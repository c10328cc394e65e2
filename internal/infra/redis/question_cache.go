package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"interview-assessment-service/internal/domain"
)

// QuestionLoader fetches coding questions from the backing store.
type QuestionLoader interface {
	Get(ctx context.Context, id string) (domain.CodingQuestion, error)
}

// QuestionCache keeps coding questions in Redis as JSON (one key per question)
// and falls back to a loader on cache miss.
//
//	SET question:{id} {json} EX ttl+jitter
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (domain.CodingQuestion, error) {
	if q, ok := c.cached(ctx, id); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		// Re-check cache in case another caller filled it.
		if q, ok := c.cached(ctx, id); ok {
			return q, nil
		}
		q, err := c.loader.Get(ctx, id)
		if err != nil {
			return domain.CodingQuestion{}, err
		}
		if raw, err := json.Marshal(q); err == nil {
			_ = c.client.Set(ctx, c.key(id), raw, c.ttlWithJitter()).Err()
		}
		return q, nil
	})
	if err != nil {
		return domain.CodingQuestion{}, err
	}
	return result.(domain.CodingQuestion), nil
}

// Invalidate drops the cached copy of a question.
func (c *QuestionCache) Invalidate(ctx context.Context, id string) {
	_ = c.client.Del(ctx, c.key(id)).Err()
}

// cached treats any redis failure as a miss so reads degrade to the loader.
func (c *QuestionCache) cached(ctx context.Context, id string) (domain.CodingQuestion, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return domain.CodingQuestion{}, false
	}
	var q domain.CodingQuestion
	if err := json.Unmarshal(raw, &q); err != nil {
		return domain.CodingQuestion{}, false
	}
	return q, true
}

func (c *QuestionCache) key(id string) string {
	return "question:" + id
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// IsMiss reports whether err is a plain cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
