package orchestrator

import (
	"sync"

	"github.com/ytget/yt-mp3/internal/model"
)

// eventBufferSize is the capacity of the outbound event channel
const eventBufferSize = 16

// eventHub relays state change events to the subscriber without ever
// blocking the scheduler: publish appends to an internal queue and a
// dedicated goroutine feeds the outbound channel at whatever pace the
// subscriber consumes. Delivery order matches publish order.
type eventHub struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []model.StateChange
	closed  bool
	out     chan model.StateChange
}

func newEventHub() *eventHub {
	h := &eventHub{
		out: make(chan model.StateChange, eventBufferSize),
	}
	h.cond = sync.NewCond(&h.mu)
	go h.run()
	return h
}

// events returns the subscriber-facing channel. It is closed after the hub
// is closed and all pending events have been delivered. The consumer must
// drain the channel until it closes; an abandoned channel beyond its buffer
// strands the dispatcher goroutine.
func (h *eventHub) events() <-chan model.StateChange {
	return h.out
}

// publish enqueues an event for delivery. Events published after close are
// dropped.
func (h *eventHub) publish(ev model.StateChange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.pending = append(h.pending, ev)
	h.cond.Signal()
}

// close stops accepting events; queued events are still delivered before the
// outbound channel closes
func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.cond.Signal()
}

func (h *eventHub) run() {
	for {
		h.mu.Lock()
		for len(h.pending) == 0 && !h.closed {
			h.cond.Wait()
		}
		if len(h.pending) == 0 && h.closed {
			h.mu.Unlock()
			close(h.out)
			return
		}
		ev := h.pending[0]
		h.pending = h.pending[1:]
		h.mu.Unlock()

		h.out <- ev
	}
}
