package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"interview-assessment-service/internal/domain"
)

// QuestionLoader fetches a coding question from the backing store.
type QuestionLoader interface {
	Get(ctx context.Context, id string) (domain.CodingQuestion, error)
}

// QuestionCache caches coding questions with a TTL to avoid repeated store hits.
type QuestionCache struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedQuestion
}

type cachedQuestion struct {
	question  domain.CodingQuestion
	expiresAt time.Time
}

func NewQuestionCache(loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestion),
	}
}

func (c *QuestionCache) GetQuestion(ctx context.Context, id string) (domain.CodingQuestion, error) {
	if q, ok := c.lookup(id); ok {
		return q, nil
	}

	result, err, _ := c.sf.Do(id, func() (interface{}, error) {
		if q, ok := c.lookup(id); ok {
			return q, nil
		}
		q, err := c.loader.Get(ctx, id)
		if err != nil {
			return domain.CodingQuestion{}, err
		}
		c.mu.Lock()
		c.cache[id] = cachedQuestion{question: q, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.CodingQuestion{}, err
	}
	return result.(domain.CodingQuestion), nil
}

// Invalidate drops a cached question, e.g. after it was deleted.
func (c *QuestionCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
}

func (c *QuestionCache) lookup(id string) (domain.CodingQuestion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[id]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.CodingQuestion{}, false
	}
	return entry.question, true
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
