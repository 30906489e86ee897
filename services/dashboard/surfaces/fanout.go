package surfaces

import (
	"errors"
	"sync"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
)

// ErrNilRenderer signals a nil renderer in the fanout list
var ErrNilRenderer = errors.New("nil renderer")

// fanout repeats every paint on each of its renderers, in order
type fanout struct {
	mut       sync.RWMutex
	renderers []common.Renderer
}

// NewFanout creates a renderer that multiplexes paints
func NewFanout(renderers ...common.Renderer) (*fanout, error) {
	for _, renderer := range renderers {
		if check.IfNil(renderer) {
			return nil, ErrNilRenderer
		}
	}

	return &fanout{
		renderers: renderers,
	}, nil
}

// Attach appends a renderer built after the fanout, such as a view that drives the engine itself
func (f *fanout) Attach(renderer common.Renderer) error {
	if check.IfNil(renderer) {
		return ErrNilRenderer
	}

	f.mut.Lock()
	f.renderers = append(f.renderers, renderer)
	f.mut.Unlock()

	return nil
}

func (f *fanout) snapshot() []common.Renderer {
	f.mut.RLock()
	defer f.mut.RUnlock()

	return f.renderers
}

// RenderCard -
func (f *fanout) RenderCard(card common.CardView) {
	for _, renderer := range f.snapshot() {
		renderer.RenderCard(card)
	}
}

// ClearCards -
func (f *fanout) ClearCards() {
	for _, renderer := range f.snapshot() {
		renderer.ClearCards()
	}
}

// RenderGraph -
func (f *fanout) RenderGraph(graph common.GraphView) {
	for _, renderer := range f.snapshot() {
		renderer.RenderGraph(graph)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (f *fanout) IsInterfaceNil() bool {
	return f == nil
}
