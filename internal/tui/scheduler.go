package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inveropulse/interact/internal/host"
)

// DispatchMsg carries a scheduler callback into Update, which runs it on
// the program's UI goroutine.
type DispatchMsg struct {
	fn func()
}

// Run executes the callback.
func (m DispatchMsg) Run() {
	if m.fn != nil {
		m.fn()
	}
}

// Scheduler is the host.Scheduler of a bubbletea program. Timer, frame and
// posted callbacks are delivered to the program as DispatchMsg, in the
// order they were dispatched.
type Scheduler struct {
	*host.Runtime

	mu       sync.Mutex
	send     func(tea.Msg)
	queue    []func()
	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

var _ host.Scheduler = (*Scheduler)(nil)

// NewScheduler returns a scheduler that drops callbacks until Attach.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	s.Runtime = host.NewRuntime(s.dispatch)
	return s
}

// Attach connects the scheduler to p.
func (s *Scheduler) Attach(p *tea.Program) {
	s.attach(p.Send)
}

func (s *Scheduler) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.send != nil {
		return
	}
	s.send = send
	go s.pump(send)
}

// Stop cancels pending frames and ends delivery. Queued callbacks are
// dropped.
func (s *Scheduler) Stop() {
	s.Runtime.Stop()
	s.stopOnce.Do(func() { close(s.done) })
}

// dispatch may run on the UI goroutine, so it only queues.
func (s *Scheduler) dispatch(fn func()) {
	s.mu.Lock()
	if s.send == nil {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// pump is the single sender, so messages reach Update in queue order.
func (s *Scheduler) pump(send func(tea.Msg)) {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, fn := range batch {
			select {
			case <-s.done:
				return
			default:
			}
			send(DispatchMsg{fn: fn})
		}
	}
}
