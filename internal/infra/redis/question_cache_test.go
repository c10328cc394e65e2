package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"interview-assessment-service/internal/domain"
	"interview-assessment-service/internal/infra/memory"
)

func TestQuestionCacheStoresInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewQuestionStore(sampleQuestion())}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)

	q, err := cache.GetQuestion(context.Background(), "q-1")
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q.Title != "Two Sum" || len(q.TestCases) != 1 {
		t.Fatalf("unexpected question %+v", q)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("question:q-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("question:q-1"); ttl < time.Minute || ttl > time.Minute+6*time.Second {
		t.Fatalf("expected ttl within jitter bounds, got %s", ttl)
	}

	// Second call should hit cache, loader not incremented.
	_, _ = cache.GetQuestion(context.Background(), "q-1")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestQuestionCacheInvalidate(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewQuestionStore(sampleQuestion())}
	cache := NewQuestionCache(newClient(mr), loader, time.Minute)
	ctx := context.Background()

	_, _ = cache.GetQuestion(ctx, "q-1")
	cache.Invalidate(ctx, "q-1")
	if mr.Exists("question:q-1") {
		t.Fatalf("expected redis key to be removed")
	}
	_, _ = cache.GetQuestion(ctx, "q-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls=%d", loader.calls)
	}
}

func TestQuestionCacheDoesNotCacheMisses(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewQuestionCache(newClient(mr), memory.NewQuestionStore(), time.Minute)
	_, err = cache.GetQuestion(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists("question:missing") {
		t.Fatalf("miss must not be cached")
	}
}

func TestQuestionCacheFallsBackWhenRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := newClient(mr)
	mr.Close()

	loader := &countingLoader{QuestionLoader: memory.NewQuestionStore(sampleQuestion())}
	cache := NewQuestionCache(client, loader, time.Minute)
	if _, err := cache.GetQuestion(context.Background(), "q-1"); err != nil {
		t.Fatalf("expected loader fallback, got %v", err)
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) Get(ctx context.Context, id string) (domain.CodingQuestion, error) {
	l.calls++
	return l.QuestionLoader.Get(ctx, id)
}

func sampleQuestion() domain.CodingQuestion {
	return domain.CodingQuestion{
		ID:          "q-1",
		Title:       "Two Sum",
		Description: "Find two numbers adding up to target.",
		Difficulty:  domain.DifficultyEasy,
		TestCases:   []domain.TestCase{{Input: "[2,7,11,15] 9", ExpectedOutput: "[0,1]"}},
		CreatedBy:   "interviewer-1",
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
