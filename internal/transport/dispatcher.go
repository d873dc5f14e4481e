package transport

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
)

// Dispatcher copies snapshot payloads from one source to multiple
// subscribers. When a subscriber's buffer is full, payloads are dropped to
// prevent blocking the tick loop. Dropped payloads are counted for
// monitoring.
type Dispatcher struct {
	source       <-chan []byte
	subscribers  []chan []byte
	bufferSize   int
	mu           sync.Mutex
	droppedTotal int64
}

func NewDispatcher(source <-chan []byte, bufferSize int) *Dispatcher {
	return &Dispatcher{
		source:      source,
		subscribers: make([]chan []byte, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel that receives copies of all source payloads.
// Subscribers should be added before calling Run() to receive everything.
func (d *Dispatcher) Subscribe() <-chan []byte {
	ch := make(chan []byte, d.bufferSize)
	d.mu.Lock()
	d.subscribers = append(d.subscribers, ch)
	d.mu.Unlock()
	return ch
}

// GetSubscriberCount returns the current number of active subscribers.
func (d *Dispatcher) GetSubscriberCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subscribers)
}

// GetDroppedCount returns the total number of payloads dropped because a
// subscriber's buffer was full.
func (d *Dispatcher) GetDroppedCount() int64 {
	return atomic.LoadInt64(&d.droppedTotal)
}

// Run blocks until ctx is cancelled or the source closes, then closes every
// subscriber channel.
func (d *Dispatcher) Run(ctx context.Context) {
	defer d.closeSubscribers()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-d.source:
			if !ok {
				return
			}
			d.dispatch(ctx, payload)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, payload []byte) {
	d.mu.Lock()
	subs := d.subscribers
	d.mu.Unlock()

	dropped := 0
	for _, sub := range subs {
		select {
		case sub <- payload:
		case <-ctx.Done():
			return
		default:
			dropped++
			atomic.AddInt64(&d.droppedTotal, 1)
		}
	}

	if dropped > 0 {
		log.Printf("dispatcher: dropped snapshot for %d subscriber(s) (buffer full)", dropped)
	}
}

func (d *Dispatcher) closeSubscribers() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, sub := range d.subscribers {
		close(sub)
	}
}
