package order

import (
	"context"
	"sync"
	"time"
)

// Scheduler defers work owned by the lifecycle engine. Tasks are detached
// from any request lifetime; cancel stops a task that has not fired yet.
type Scheduler interface {
	Schedule(d time.Duration, fn func(ctx context.Context)) (cancel func())
}

// TimerScheduler runs tasks on real timers.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func(ctx context.Context)) func() {
	t := time.AfterFunc(d, func() { fn(context.Background()) })
	return func() { t.Stop() }
}

// FakeScheduler records tasks and fires them when virtual time is advanced.
// Tests use it instead of waiting on real timers.
type FakeScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*fakeTask
}

type fakeTask struct {
	due      time.Duration
	fn       func(ctx context.Context)
	canceled bool
}

func NewFakeScheduler() *FakeScheduler { return &FakeScheduler{} }

func (s *FakeScheduler) Schedule(d time.Duration, fn func(ctx context.Context)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{due: s.now + d, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		t.canceled = true
	}
}

// Advance moves virtual time forward and runs every task that came due.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*fakeTask
	var rest []*fakeTask
	for _, t := range s.tasks {
		if !t.canceled && t.due <= s.now {
			due = append(due, t)
		} else if !t.canceled {
			rest = append(rest, t)
		}
	}
	s.tasks = rest
	s.mu.Unlock()

	for _, t := range due {
		t.fn(context.Background())
	}
}

// Pending reports how many tasks have not fired or been canceled.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}
