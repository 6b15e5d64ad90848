package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const memoryBufferSize = 64

// MemoryBus is an in-process Publisher and Subscriber used when redis is not
// configured. Each subscription gets a buffered channel; when it is full the
// event is dropped for that subscriber.
type MemoryBus struct {
	mu   sync.RWMutex
	subs map[string]map[*memorySub]struct{}
	log  *zap.Logger
}

type memorySub struct {
	ch chan Event
}

func NewMemoryBus(log *zap.Logger) *MemoryBus {
	return &MemoryBus{
		subs: make(map[string]map[*memorySub]struct{}),
		log:  log,
	}
}

func (b *MemoryBus) Publish(_ context.Context, stream string, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[stream] {
		select {
		case sub.ch <- event:
		default:
			b.log.Warn("subscriber buffer full, dropping event", zap.String("stream", stream), zap.String("type", event.Type))
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, stream string, handler func(Event)) error {
	sub := &memorySub{ch: make(chan Event, memoryBufferSize)}

	b.mu.Lock()
	if b.subs[stream] == nil {
		b.subs[stream] = make(map[*memorySub]struct{})
	}
	b.subs[stream][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer b.unsubscribe(stream, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-sub.ch:
				dispatch(b.log, stream, event, handler)
			}
		}
	}()

	return nil
}

func (b *MemoryBus) unsubscribe(stream string, sub *memorySub) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[stream], sub)
	if len(b.subs[stream]) == 0 {
		delete(b.subs, stream)
	}
}
