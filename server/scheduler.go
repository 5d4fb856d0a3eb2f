package main

import (
	"sync"
	"time"

	"github.com/fmartingr/mattermost-plugin-affiliate-links/server/affiliate"
)

type scheduledDeletion struct {
	timer *time.Timer
}

// deletionScheduler deletes posts after a delay. Every scheduled deletion keeps a handle
// that can be cancelled, and Close stops all of them.
type deletionScheduler struct {
	mu      sync.Mutex
	pending map[string]*scheduledDeletion
	closed  bool

	deleteFn func(postID string) error
	log      affiliate.Logger
}

func newDeletionScheduler(deleteFn func(postID string) error, log affiliate.Logger) *deletionScheduler {
	return &deletionScheduler{
		pending:  make(map[string]*scheduledDeletion),
		deleteFn: deleteFn,
		log:      log,
	}
}

// Schedule deletes the post once after has elapsed. Scheduling a post again replaces its
// previous deletion. The returned function cancels the deletion.
func (s *deletionScheduler) Schedule(postID string, after time.Duration) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	if previous, ok := s.pending[postID]; ok {
		previous.timer.Stop()
	}

	entry := &scheduledDeletion{}
	entry.timer = time.AfterFunc(after, func() {
		if !s.release(postID, entry) {
			return
		}
		// The post may already be gone.
		if err := s.deleteFn(postID); err != nil {
			s.log.LogDebug("Scheduled post deletion failed", "postID", postID, "error", err.Error())
		}
	})
	s.pending[postID] = entry

	return func() {
		s.cancel(postID, entry)
	}
}

// release drops the handle of a timer that fired, and reports whether it was still scheduled.
func (s *deletionScheduler) release(postID string, entry *scheduledDeletion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[postID] != entry {
		return false
	}
	delete(s.pending, postID)
	return true
}

func (s *deletionScheduler) cancel(postID string, entry *scheduledDeletion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[postID] != entry {
		return
	}
	entry.timer.Stop()
	delete(s.pending, postID)
}

// Pending returns the number of deletions that have not run yet.
func (s *deletionScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Close stops every pending deletion. Later calls to Schedule are ignored.
func (s *deletionScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for postID, entry := range s.pending {
		entry.timer.Stop()
		delete(s.pending, postID)
	}
	s.closed = true
}
