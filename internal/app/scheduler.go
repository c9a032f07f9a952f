package app

import (
	"sync"
	"time"
)

// Scheduler runs a task after a delay. Rooms use it for bot think time.
type Scheduler interface {
	Schedule(delay time.Duration, task func())
}

// TimerScheduler fires tasks on their own goroutine via time.AfterFunc.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[*time.Timer]struct{})}
}

func (s *TimerScheduler) Schedule(delay time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
		task()
	})
	s.timers[t] = struct{}{}
}

// Stop cancels every pending task. Later Schedule calls are ignored.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// QueueScheduler holds tasks until the owner drains them. The Nakama match
// loop drains it on every tick; tests drain it by hand.
type QueueScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []queuedTask
}

type queuedTask struct {
	due  time.Duration
	task func()
}

func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{}
}

func (s *QueueScheduler) Schedule(delay time.Duration, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, queuedTask{due: s.now + delay, task: task})
}

// Advance moves the queue clock forward and runs every task that became
// due, in scheduling order. Tasks scheduled while running are kept for a
// later call. It returns the number of tasks run.
func (s *QueueScheduler) Advance(elapsed time.Duration) int {
	s.mu.Lock()
	s.now += elapsed
	var due, later []queuedTask
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		} else {
			later = append(later, t)
		}
	}
	s.tasks = later
	s.mu.Unlock()

	for _, t := range due {
		t.task()
	}
	return len(due)
}

// RunAll runs queued tasks, including ones they schedule, until the queue
// is empty or limit tasks have run.
func (s *QueueScheduler) RunAll(limit int) int {
	ran := 0
	for ran < limit {
		s.mu.Lock()
		if len(s.tasks) == 0 {
			s.mu.Unlock()
			break
		}
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		if t.due > s.now {
			s.now = t.due
		}
		s.mu.Unlock()

		t.task()
		ran++
	}
	return ran
}

// Pending returns the number of queued tasks.
func (s *QueueScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
