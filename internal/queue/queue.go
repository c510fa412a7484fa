// Package queue hands commands from any number of producers to the single
// render loop.
package queue

import (
	"sync"

	"github.com/iburimskiy/led-ring/internal/animation"
)

// Queue is an unbounded FIFO. Push may be called from any goroutine; Drain
// belongs to the render loop alone.
type Queue struct {
	mu      sync.Mutex
	pending []animation.Command
}

func New() *Queue {
	return &Queue{}
}

// Push enqueues cmd. It never blocks on the consumer.
func (q *Queue) Push(cmd animation.Command) {
	q.mu.Lock()
	q.pending = append(q.pending, cmd)
	q.mu.Unlock()
}

// Drain removes and returns everything pushed since the previous drain, in
// arrival order. It returns nil when nothing is pending.
func (q *Queue) Drain() []animation.Command {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}

// Len is the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
