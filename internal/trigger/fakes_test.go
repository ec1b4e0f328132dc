package trigger

import (
	"sort"
	"time"

	"huangdou/internal/loop"
)

// fakeScheduler runs tasks synchronously when the test advances its clock.
type fakeScheduler struct {
	now   time.Duration
	seq   int
	tasks []*fakeTask
}

type fakeTask struct {
	due      time.Duration
	seq      int
	fn       func()
	fired    bool
	canceled bool
}

func (t *fakeTask) Cancel() bool {
	if t.fired || t.canceled {
		return false
	}
	t.canceled = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) loop.Canceler {
	s.seq++
	t := &fakeTask{due: s.now + d, seq: s.seq, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward, running every task that comes due in
// order. Tasks scheduled by a running task are eligible in the same call.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *fakeScheduler) nextDue(limit time.Duration) *fakeTask {
	var due []*fakeTask
	for _, t := range s.tasks {
		if !t.fired && !t.canceled && t.due <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].seq < due[j].seq
		}
		return due[i].due < due[j].due
	})
	return due[0]
}

// pending counts tasks that have neither fired nor been canceled.
func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.fired && !t.canceled {
			n++
		}
	}
	return n
}

type fakeClipboard struct {
	text   string
	ok     bool
	reads  int
	writes []string
}

func (c *fakeClipboard) Read() (string, bool) {
	c.reads++
	return c.text, c.ok
}

func (c *fakeClipboard) Write(text string) error {
	c.writes = append(c.writes, text)
	c.text = text
	c.ok = true
	return nil
}

type fakeInjector struct {
	shortcuts int
	enters    int
	// enterTimes records the scheduler clock at each Enter.
	enterTimes []time.Duration
	sched      *fakeScheduler
}

func (i *fakeInjector) SendTriggerShortcut() error {
	i.shortcuts++
	return nil
}

func (i *fakeInjector) SendEnter() error {
	i.enters++
	if i.sched != nil {
		i.enterTimes = append(i.enterTimes, i.sched.now)
	}
	return nil
}
