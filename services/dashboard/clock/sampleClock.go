package clock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/commonGo"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("clock")

// ErrInvalidPeriod signals a non-positive sampling period
var ErrInvalidPeriod = errors.New("invalid sample clock period")

// ErrNilTimeProvider signals a nil time provider
var ErrNilTimeProvider = errors.New("nil time provider")

// TickHandler reacts to one sample clock tick
type TickHandler func(now time.Time)

// sampleClock is the single fixed-period trigger shared by every active sampler
type sampleClock struct {
	period       time.Duration
	timeProvider func() time.Time

	mutHandlers sync.RWMutex
	nextID      uint64
	order       []uint64
	handlers    map[uint64]TickHandler

	mutCancel sync.Mutex
	cancel    func()
	done      <-chan struct{}
}

// NewSampleClock creates a stopped sample clock
func NewSampleClock(period time.Duration, timeProvider func() time.Time) (*sampleClock, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if timeProvider == nil {
		return nil, ErrNilTimeProvider
	}

	return &sampleClock{
		period:       period,
		timeProvider: timeProvider,
		handlers:     make(map[uint64]TickHandler),
	}, nil
}

// Register adds the handler to the set called on every tick until the returned subscription is disposed
func (c *sampleClock) Register(handler TickHandler) bus.Subscription {
	c.mutHandlers.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[id] = handler
	c.order = append(c.order, id)
	c.mutHandlers.Unlock()

	return bus.NewSubscription(func() {
		c.unregister(id)
	})
}

func (c *sampleClock) unregister(id uint64) {
	c.mutHandlers.Lock()
	defer c.mutHandlers.Unlock()

	delete(c.handlers, id)
	for i, orderID := range c.order {
		if orderID == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Fire calls every registered handler once. A handler unregistered while firing is skipped.
func (c *sampleClock) Fire(now time.Time) {
	c.mutHandlers.RLock()
	ids := make([]uint64, len(c.order))
	copy(ids, c.order)
	c.mutHandlers.RUnlock()

	for _, id := range ids {
		c.mutHandlers.RLock()
		handler, found := c.handlers[id]
		c.mutHandlers.RUnlock()
		if !found {
			continue
		}

		handler(now)
	}
}

// NumRegistrations returns the number of live registrations
func (c *sampleClock) NumRegistrations() int {
	c.mutHandlers.RLock()
	defer c.mutHandlers.RUnlock()

	return len(c.handlers)
}

// Period returns the clock period
func (c *sampleClock) Period() time.Duration {
	return c.period
}

// Start begins calling sink with the current time once every period. The sink is responsible for calling Fire.
func (c *sampleClock) Start(sink func(now time.Time)) {
	c.mutCancel.Lock()
	defer c.mutCancel.Unlock()

	if c.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, c.cancel = context.WithCancel(context.Background())
	c.done = commonGo.CronJobStarter(ctx, func(ctx context.Context) {
		sink(c.timeProvider())
	}, c.period)

	log.Debug("sample clock started", "period", c.period)
}

// Close stops the clock and waits for the in-flight tick, if any
func (c *sampleClock) Close() error {
	c.mutCancel.Lock()
	defer c.mutCancel.Unlock()

	if c.cancel == nil {
		return nil
	}

	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil

	log.Debug("sample clock stopped")

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *sampleClock) IsInterfaceNil() bool {
	return c == nil
}
