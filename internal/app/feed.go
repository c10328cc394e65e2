package app

import (
	"sync"

	"interview-assessment-service/internal/domain"
)

// FeedHub fans assignment snapshots out to the live subscribers of each
// interview. It is process-local.
type FeedHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.AssignmentSnapshot]struct{}
}

func NewFeedHub() *FeedHub {
	return &FeedHub{subscribers: make(map[string]map[chan domain.AssignmentSnapshot]struct{})}
}

// Subscribe registers a subscriber for the interview and delivers initial
// first. The caller must invoke the returned cancel function to avoid leaks.
func (h *FeedHub) Subscribe(initial domain.AssignmentSnapshot) (<-chan domain.AssignmentSnapshot, func()) {
	ch := make(chan domain.AssignmentSnapshot, 8)
	ch <- initial

	h.mu.Lock()
	subs, ok := h.subscribers[initial.InterviewID]
	if !ok {
		subs = make(map[chan domain.AssignmentSnapshot]struct{})
		h.subscribers[initial.InterviewID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[initial.InterviewID]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, initial.InterviewID)
		}
	}
	return ch, cancel
}

// Publish delivers snapshot to every subscriber of its interview. A slow
// subscriber loses its oldest pending snapshot rather than blocking the
// publisher.
func (h *FeedHub) Publish(snapshot domain.AssignmentSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[snapshot.InterviewID] {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// Subscribers reports how many subscribers an interview has.
func (h *FeedHub) Subscribers(interviewID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[interviewID])
}
