package tracker

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/window"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("tracker")

// ArgsRegistry defines the graph tracker registry arguments
type ArgsRegistry struct {
	Targets      []string
	Capacity     int
	Updates      UpdateSource
	Clock        TickSource
	Renderer     common.GraphRenderer
	TimeProvider func() time.Time
}

// registry owns at most one live tracker per graph target
type registry struct {
	targets      map[string]struct{}
	capacity     int
	updates      UpdateSource
	clock        TickSource
	renderer     common.GraphRenderer
	timeProvider func() time.Time

	numSamples atomic.Uint64

	mut  sync.Mutex
	live map[string]*tracker
}

// NewRegistry creates a registry for the fixed set of graph targets
func NewRegistry(args ArgsRegistry) (*registry, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(args.Targets))
	for _, target := range args.Targets {
		target = strings.TrimSpace(target)
		_, exists := targets[target]
		if exists {
			return nil, ErrDuplicateTarget
		}
		targets[target] = struct{}{}
	}

	return &registry{
		targets:      targets,
		capacity:     args.Capacity,
		updates:      args.Updates,
		clock:        args.Clock,
		renderer:     args.Renderer,
		timeProvider: args.TimeProvider,
		live:         make(map[string]*tracker),
	}, nil
}

func checkArgs(args ArgsRegistry) error {
	if len(args.Targets) == 0 {
		return ErrNoTargets
	}
	if args.Capacity < 1 {
		return window.ErrInvalidCapacity
	}
	if check.IfNil(args.Updates) {
		return ErrNilUpdateSource
	}
	if check.IfNil(args.Clock) {
		return ErrNilTickSource
	}
	if check.IfNil(args.Renderer) {
		return ErrNilRenderer
	}
	if args.TimeProvider == nil {
		return ErrNilTimeProvider
	}

	return nil
}

// Track installs a new tracker for the target, tearing down the previous one first.
// Disposing the returned subscription untracks the target, unless it was re-tracked meanwhile.
func (r *registry) Track(target string, metric string, unit string) (bus.Subscription, error) {
	target = strings.TrimSpace(target)
	metric = strings.TrimSpace(metric)
	if len(metric) == 0 {
		return nil, ErrEmptyMetricName
	}

	r.mut.Lock()
	defer r.mut.Unlock()

	_, known := r.targets[target]
	if !known {
		return nil, ErrUnknownTarget
	}

	previous, found := r.live[target]
	if found {
		delete(r.live, target)
		previous.dispose()
		log.Debug("tracker replaced", "target", target, "old metric", previous.metric, "new metric", metric)
	}

	buffer, err := window.NewRollingWindow(r.capacity)
	if err != nil {
		return nil, err
	}

	t := &tracker{
		id:        uuid.New().String(),
		target:    target,
		metric:    metric,
		metricKey: common.NormalizeName(metric),
		unit:      unit,
		startTime: r.timeProvider(),
		buffer:    buffer,
		renderer:  r.renderer,
	}
	t.updateSub = r.updates.Subscribe(t.onUpdate)
	t.clockSub = r.clock.Register(func(now time.Time) {
		if t.onTick(now) {
			r.numSamples.Add(1)
		}
	})
	r.live[target] = t

	r.renderer.RenderGraph(t.view())
	log.Debug("tracker installed", "target", target, "metric", metric, "id", t.id)

	return bus.NewSubscription(func() {
		r.release(target, t)
	}), nil
}

func (r *registry) release(target string, t *tracker) {
	r.mut.Lock()
	defer r.mut.Unlock()

	if r.live[target] == t {
		delete(r.live, target)
	}
	t.dispose()
}

// Untrack tears down the live tracker of the target, if any
func (r *registry) Untrack(target string) error {
	target = strings.TrimSpace(target)

	r.mut.Lock()
	defer r.mut.Unlock()

	_, known := r.targets[target]
	if !known {
		return ErrUnknownTarget
	}

	t, found := r.live[target]
	if !found {
		return nil
	}

	delete(r.live, target)
	t.dispose()
	log.Debug("tracker removed", "target", target, "metric", t.metric)

	return nil
}

// UntrackAll tears down every live tracker
func (r *registry) UntrackAll() {
	r.mut.Lock()
	defer r.mut.Unlock()

	for target, t := range r.live {
		delete(r.live, target)
		t.dispose()
	}
}

// Graph returns the painted state of the target, if it has a live tracker
func (r *registry) Graph(target string) (common.GraphView, bool) {
	r.mut.Lock()
	t, found := r.live[strings.TrimSpace(target)]
	r.mut.Unlock()
	if !found {
		return common.GraphView{}, false
	}

	return t.view(), true
}

// Graphs returns the painted state of every live tracker, sorted by target
func (r *registry) Graphs() []common.GraphView {
	r.mut.Lock()
	trackers := make([]*tracker, 0, len(r.live))
	for _, t := range r.live {
		trackers = append(trackers, t)
	}
	r.mut.Unlock()

	sort.Slice(trackers, func(i, j int) bool {
		return trackers[i].target < trackers[j].target
	})

	result := make([]common.GraphView, 0, len(trackers))
	for _, t := range trackers {
		result = append(result, t.view())
	}

	return result
}

// Targets returns the fixed set of graph targets, sorted
func (r *registry) Targets() []string {
	result := make([]string, 0, len(r.targets))
	for target := range r.targets {
		result = append(result, target)
	}
	sort.Strings(result)

	return result
}

// SamplesAppended returns the number of samples appended by every tracker since the registry was created
func (r *registry) SamplesAppended() uint64 {
	return r.numSamples.Load()
}

// LiveTrackers returns the number of live trackers
func (r *registry) LiveTrackers() int {
	r.mut.Lock()
	defer r.mut.Unlock()

	return len(r.live)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *registry) IsInterfaceNil() bool {
	return r == nil
}
