package bus

import (
	"sync"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("bus")

// UpdateHandler consumes normalized metric updates
type UpdateHandler func(update common.MetricUpdate)

type subscriber struct {
	id      uint64
	handler UpdateHandler
}

// updateBus republishes normalized metric updates to its subscribers, synchronously and in subscription order
type updateBus struct {
	mut         sync.RWMutex
	nextID      uint64
	subscribers []subscriber
}

// NewUpdateBus creates an update bus without subscribers
func NewUpdateBus() *updateBus {
	return &updateBus{}
}

// Subscribe registers the handler. The handler is no longer called once the returned subscription is disposed.
func (b *updateBus) Subscribe(handler UpdateHandler) Subscription {
	b.mut.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers = append(b.subscribers, subscriber{
		id:      id,
		handler: handler,
	})
	b.mut.Unlock()

	log.Trace("subscribed to metric updates", "id", id)

	return NewSubscription(func() {
		b.unsubscribe(id)
	})
}

func (b *updateBus) unsubscribe(id uint64) {
	b.mut.Lock()
	defer b.mut.Unlock()

	for i, s := range b.subscribers {
		if s.id == id {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			log.Trace("unsubscribed from metric updates", "id", id)
			return
		}
	}
}

// Publish delivers the update to every live subscriber
func (b *updateBus) Publish(update common.MetricUpdate) {
	b.mut.RLock()
	handlers := make([]UpdateHandler, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		handlers = append(handlers, s.handler)
	}
	b.mut.RUnlock()

	for _, handler := range handlers {
		handler(update)
	}
}

// NumSubscribers returns the number of live subscribers
func (b *updateBus) NumSubscribers() int {
	b.mut.RLock()
	defer b.mut.RUnlock()

	return len(b.subscribers)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (b *updateBus) IsInterfaceNil() bool {
	return b == nil
}
