package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// tracker samples one metric for one graph target. The update stream only stores the last seen value,
// the clock tick is the only input that repaints.
type tracker struct {
	id        string
	target    string
	metric    string
	metricKey string
	startTime time.Time
	buffer    RollingWindow
	renderer  common.GraphRenderer

	mut       sync.Mutex
	unit      string
	lastSeen  *float64
	carried   *float64
	lastLabel string
	ticked    bool
	disposed  bool
	updateSub bus.Subscription
	clockSub  bus.Subscription
}

func (t *tracker) onUpdate(update common.MetricUpdate) {
	if update.MetricKey() != t.metricKey {
		return
	}

	t.mut.Lock()
	defer t.mut.Unlock()

	if t.disposed || !update.Present {
		return
	}

	value := update.Value
	t.lastSeen = &value
	if len(update.Unit) > 0 && update.Unit != t.unit {
		log.Trace("tracker unit changed", "target", t.target, "old", t.unit, "new", update.Unit)
		t.unit = update.Unit
	}
}

// onTick returns true if a new sample was appended
func (t *tracker) onTick(now time.Time) bool {
	t.mut.Lock()
	defer t.mut.Unlock()

	if t.disposed {
		return false
	}

	label := elapsedLabel(now.Sub(t.startTime))
	if t.ticked && label == t.lastLabel {
		return false
	}
	t.ticked = true
	t.lastLabel = label

	if t.lastSeen != nil {
		t.carried = t.lastSeen
		t.lastSeen = nil
	}

	t.buffer.Append(common.Sample{
		Label: label,
		Value: t.carried,
	})
	t.renderer.RenderGraph(t.viewUnprotected())

	return true
}

func (t *tracker) view() common.GraphView {
	t.mut.Lock()
	defer t.mut.Unlock()

	return t.viewUnprotected()
}

func (t *tracker) viewUnprotected() common.GraphView {
	return common.GraphView{
		Target:    t.target,
		TrackerID: t.id,
		Metric:    t.metric,
		Unit:      t.unit,
		Samples:   t.buffer.Samples(),
	}
}

// dispose cancels both registrations. Events arriving afterward are dropped.
func (t *tracker) dispose() {
	t.mut.Lock()
	t.disposed = true
	updateSub, clockSub := t.updateSub, t.clockSub
	t.mut.Unlock()

	if updateSub != nil {
		updateSub.Dispose()
	}
	if clockSub != nil {
		clockSub.Dispose()
	}
}

func elapsedLabel(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}

	seconds := int64(elapsed / time.Second)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
