package widgets

import (
	"sync"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("widgets")

type card struct {
	title    string
	value    string
	unit     string
	expanded bool
}

// ArgsWidgetCache defines the widget cache arguments
type ArgsWidgetCache struct {
	Publisher Publisher
	Session   SessionState
	Renderer  common.CardRenderer
}

// widgetCache keeps exactly one card per distinct metric name, keyed by the normalized name
type widgetCache struct {
	publisher Publisher
	session   SessionState
	renderer  common.CardRenderer

	mut   sync.RWMutex
	order []string
	cards map[string]*card
}

// NewWidgetCache creates an empty widget cache
func NewWidgetCache(args ArgsWidgetCache) (*widgetCache, error) {
	if check.IfNil(args.Publisher) {
		return nil, ErrNilPublisher
	}
	if check.IfNil(args.Session) {
		return nil, ErrNilSession
	}
	if check.IfNil(args.Renderer) {
		return nil, ErrNilRenderer
	}

	return &widgetCache{
		publisher: args.Publisher,
		session:   args.Session,
		renderer:  args.Renderer,
		cards:     make(map[string]*card),
	}, nil
}

// ApplyReading creates the card on the first reading of a metric and updates it in place afterward, unless frozen.
// The normalized update is republished regardless of the freeze state. Returns true if a new card was created.
func (wc *widgetCache) ApplyReading(reading common.MetricReading) bool {
	key := common.NormalizeName(reading.Name)
	value, unit := displayedText(reading)

	wc.mut.Lock()
	c, found := wc.cards[key]
	switch {
	case !found:
		c = &card{
			title: reading.Name,
			value: value,
			unit:  unit,
		}
		wc.cards[key] = c
		wc.order = append(wc.order, key)
		wc.renderer.RenderCard(wc.viewOf(key, c))
		log.Trace("card created", "name", reading.Name)
	case wc.isFrozen(key):
		log.Trace("card frozen, update skipped", "name", reading.Name)
	default:
		c.value = value
		c.unit = unit
		wc.renderer.RenderCard(wc.viewOf(key, c))
	}
	wc.mut.Unlock()

	wc.publisher.Publish(common.MetricUpdate{
		Key:     key,
		Name:    reading.Name,
		Value:   reading.Value,
		Unit:    reading.Unit,
		Present: reading.Present(),
	})

	return !found
}

func displayedText(reading common.MetricReading) (string, string) {
	if !reading.Present() {
		return common.NotAvailableText, ""
	}

	return common.FormatValue(reading.Value), reading.Unit
}

func (wc *widgetCache) isFrozen(key string) bool {
	return wc.session.Paused() || wc.session.IsFrozen(key)
}

func (wc *widgetCache) viewOf(key string, c *card) common.CardView {
	return common.CardView{
		Key:            key,
		Title:          c.title,
		DisplayedValue: c.value,
		DisplayedUnit:  c.unit,
		Frozen:         wc.session.IsFrozen(key),
		Expanded:       c.expanded,
	}
}

// Card returns the view of the card bound to the metric name
func (wc *widgetCache) Card(name string) (common.CardView, bool) {
	key := common.NormalizeName(name)

	wc.mut.RLock()
	defer wc.mut.RUnlock()

	c, found := wc.cards[key]
	if !found {
		return common.CardView{}, false
	}

	return wc.viewOf(key, c), true
}

// Cards returns every card view in creation order
func (wc *widgetCache) Cards() []common.CardView {
	wc.mut.RLock()
	defer wc.mut.RUnlock()

	result := make([]common.CardView, 0, len(wc.order))
	for _, key := range wc.order {
		result = append(result, wc.viewOf(key, wc.cards[key]))
	}

	return result
}

// Len returns the number of cards
func (wc *widgetCache) Len() int {
	wc.mut.RLock()
	defer wc.mut.RUnlock()

	return len(wc.cards)
}

// RefreshCard repaints the card, used after its freeze flag changed
func (wc *widgetCache) RefreshCard(name string) error {
	key := common.NormalizeName(name)

	wc.mut.RLock()
	defer wc.mut.RUnlock()

	c, found := wc.cards[key]
	if !found {
		return ErrCardNotFound
	}

	wc.renderer.RenderCard(wc.viewOf(key, c))
	return nil
}

// ToggleExpanded flips the expanded flag of the card and returns the new value
func (wc *widgetCache) ToggleExpanded(name string) (bool, error) {
	key := common.NormalizeName(name)

	wc.mut.Lock()
	defer wc.mut.Unlock()

	c, found := wc.cards[key]
	if !found {
		return false, ErrCardNotFound
	}

	c.expanded = !c.expanded
	wc.renderer.RenderCard(wc.viewOf(key, c))

	return c.expanded, nil
}

// Clear removes every card from the view
func (wc *widgetCache) Clear() {
	wc.mut.Lock()
	wc.order = nil
	wc.cards = make(map[string]*card)
	wc.mut.Unlock()

	wc.renderer.ClearCards()
	log.Debug("cards cleared")
}

// IsInterfaceNil returns true if the value under the interface is nil
func (wc *widgetCache) IsInterfaceNil() bool {
	return wc == nil
}
