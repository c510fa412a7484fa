package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/ring"
)

func TestDrainEmpty(t *testing.T) {
	q := New()
	assert.Empty(t, q.Drain())
	assert.Empty(t, q.Drain())
	assert.Zero(t, q.Len())
}

func TestDrainFIFO(t *testing.T) {
	q := New()
	a := animation.NewCommand(animation.Solid, []ring.Color{ring.Red})
	b := animation.NewCommand(animation.Rainbow, nil)
	q.Push(a)
	q.Push(b)
	require.Equal(t, 2, q.Len())

	got := q.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
	assert.Empty(t, q.Drain())
}

// Concurrent producers lose nothing and keep their own order.
func TestConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 500

	q := New()
	var wg sync.WaitGroup
	wg.Add(producers)
	for p := range producers {
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Push(animation.NewCommand(animation.Solid, []ring.Color{{R: uint8(p), G: uint8(i >> 8), B: uint8(i)}}))
			}
		}()
	}

	var got []animation.Command
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		got = append(got, q.Drain()...)
	}
	got = append(got, q.Drain()...)

	require.Len(t, got, producers*perProducer)
	next := make([]int, producers)
	for _, cmd := range got {
		c := cmd.Colors[0]
		seq := int(c.G)<<8 | int(c.B)
		assert.Equal(t, next[c.R], seq, "producer %d out of order", c.R)
		next[c.R] = seq + 1
	}
}
