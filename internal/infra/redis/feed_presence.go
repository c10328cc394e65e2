package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// FeedPresence counts live feed connections per interview in Redis so any
// instance can tell whether an interview has watchers.
//
//	INCR interview:feed:{id}  (refreshed with EXPIRE ttl)
type FeedPresence struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedPresence(client *redis.Client, ttl time.Duration) *FeedPresence {
	return &FeedPresence{client: client, ttl: ttl}
}

// Join records one more watcher of the interview.
func (p *FeedPresence) Join(ctx context.Context, interviewID string) error {
	pipe := p.client.TxPipeline()
	pipe.Incr(ctx, p.key(interviewID))
	if p.ttl > 0 {
		pipe.Expire(ctx, p.key(interviewID), p.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Leave removes one watcher and clears the key once nobody is left.
func (p *FeedPresence) Leave(ctx context.Context, interviewID string) error {
	n, err := p.client.Decr(ctx, p.key(interviewID)).Result()
	if err != nil {
		return err
	}
	if n <= 0 {
		return p.client.Del(ctx, p.key(interviewID)).Err()
	}
	return nil
}

// Watchers returns the number of live watchers recorded for the interview.
func (p *FeedPresence) Watchers(ctx context.Context, interviewID string) (int64, error) {
	n, err := p.client.Get(ctx, p.key(interviewID)).Int64()
	if IsMiss(err) {
		return 0, nil
	}
	return n, err
}

func (p *FeedPresence) key(interviewID string) string {
	return "interview:feed:" + interviewID
}
