package surfaces

import (
	"sync"
	"sync/atomic"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("surfaces")

const minBufferSize = 1

// broadcaster turns paints into events streamed to the connected UI clients.
// A client that does not keep up loses events instead of blocking the painter.
type broadcaster struct {
	bufferSize int
	numDropped atomic.Uint64

	mut     sync.RWMutex
	nextID  uint64
	clients map[uint64]chan common.PaintEvent
}

// NewBroadcaster creates a broadcaster whose clients buffer up to bufferSize events
func NewBroadcaster(bufferSize int) *broadcaster {
	if bufferSize < minBufferSize {
		bufferSize = minBufferSize
	}

	return &broadcaster{
		bufferSize: bufferSize,
		clients:    make(map[uint64]chan common.PaintEvent),
	}
}

// Subscribe registers a client. Disposing the subscription closes the returned channel.
func (b *broadcaster) Subscribe() (<-chan common.PaintEvent, bus.Subscription) {
	ch := make(chan common.PaintEvent, b.bufferSize)

	b.mut.Lock()
	b.nextID++
	id := b.nextID
	b.clients[id] = ch
	b.mut.Unlock()

	return ch, bus.NewSubscription(func() {
		b.mut.Lock()
		delete(b.clients, id)
		b.mut.Unlock()

		close(ch)
	})
}

// RenderCard -
func (b *broadcaster) RenderCard(card common.CardView) {
	b.broadcast(common.PaintEvent{Kind: common.PaintCard, Card: &card})
}

// ClearCards -
func (b *broadcaster) ClearCards() {
	b.broadcast(common.PaintEvent{Kind: common.PaintClear})
}

// RenderGraph -
func (b *broadcaster) RenderGraph(graph common.GraphView) {
	b.broadcast(common.PaintEvent{Kind: common.PaintGraph, Graph: &graph})
}

// RenderSession -
func (b *broadcaster) RenderSession(snapshot common.SessionSnapshot) {
	b.broadcast(common.PaintEvent{Kind: common.PaintSession, Session: &snapshot})
}

func (b *broadcaster) broadcast(event common.PaintEvent) {
	b.mut.RLock()
	defer b.mut.RUnlock()

	for id, ch := range b.clients {
		select {
		case ch <- event:
		default:
			b.numDropped.Add(1)
			log.Trace("paint event dropped for slow client", "client", id, "kind", event.Kind)
		}
	}
}

// NumClients returns the number of connected clients
func (b *broadcaster) NumClients() int {
	b.mut.RLock()
	defer b.mut.RUnlock()

	return len(b.clients)
}

// NumDropped returns the number of events lost by slow clients
func (b *broadcaster) NumDropped() uint64 {
	return b.numDropped.Load()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (b *broadcaster) IsInterfaceNil() bool {
	return b == nil
}
