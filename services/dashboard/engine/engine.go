package engine

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/registrar"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/store"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/widgets"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus"
)

var log = logger.GetOrCreate("engine")

// ArgsTelemetryEngine defines the telemetry engine arguments. Recorder, Commands and SessionRenderer are optional.
type ArgsTelemetryEngine struct {
	Session         SessionContext
	Store           MetricStore
	Widgets         WidgetCache
	Trackers        TrackerRegistry
	Clock           SampleClock
	Registrar       Registrar
	Recorder        Recorder
	Commands        SessionCommands
	SessionRenderer common.SessionRenderer
	Registerer      prometheus.Registerer
	TimeProvider    func() time.Time
}

// telemetryEngine routes readings, track requests and clock ticks to the owned components.
// Every input is handled to completion before the next one is processed.
type telemetryEngine struct {
	session      SessionContext
	store        MetricStore
	widgets      WidgetCache
	trackers     TrackerRegistry
	clock        SampleClock
	registrar    Registrar
	recorder     Recorder
	commands     SessionCommands
	sessionPaint common.SessionRenderer
	registerer   prometheus.Registerer
	timeProvider func() time.Time
	metrics      *engineMetrics

	mutState      sync.Mutex
	subscriptions map[string]bus.Subscription
}

// NewTelemetryEngine creates a new telemetry engine instance
func NewTelemetryEngine(args ArgsTelemetryEngine) (*telemetryEngine, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	registerer := args.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	metrics, err := newEngineMetrics(registerer, args.Widgets, args.Trackers)
	if err != nil {
		return nil, err
	}

	e := &telemetryEngine{
		session:       args.Session,
		store:         args.Store,
		widgets:       args.Widgets,
		trackers:      args.Trackers,
		clock:         args.Clock,
		registrar:     args.Registrar,
		registerer:    registerer,
		timeProvider:  args.TimeProvider,
		metrics:       metrics,
		subscriptions: make(map[string]bus.Subscription),
	}
	if !check.IfNil(args.Recorder) {
		e.recorder = args.Recorder
	}
	if !check.IfNil(args.Commands) {
		e.commands = args.Commands
	}
	if !check.IfNil(args.SessionRenderer) {
		e.sessionPaint = args.SessionRenderer
	}

	return e, nil
}

func checkArgs(args ArgsTelemetryEngine) error {
	if check.IfNil(args.Session) {
		return ErrNilSessionContext
	}
	if check.IfNil(args.Store) {
		return ErrNilMetricStore
	}
	if check.IfNil(args.Widgets) {
		return ErrNilWidgetCache
	}
	if check.IfNil(args.Trackers) {
		return ErrNilTrackerRegistry
	}
	if check.IfNil(args.Clock) {
		return ErrNilSampleClock
	}
	if check.IfNil(args.Registrar) {
		return ErrNilRegistrar
	}
	if args.TimeProvider == nil {
		return ErrNilTimeProvider
	}

	return nil
}

// ApplyReading routes one reading to the metric store and the widget cache and records it
func (e *telemetryEngine) ApplyReading(reading common.MetricReading) error {
	return e.ApplyReadings([]common.MetricReading{reading})
}

// ApplyReadings routes a batch of readings in order. Readings without a name are skipped.
func (e *telemetryEngine) ApplyReadings(readings []common.MetricReading) error {
	applied := e.applyReadings(readings)
	e.record(applied)

	if len(applied) != len(readings) {
		return ErrEmptyMetricName
	}

	return nil
}

// ReplayReadings routes readings coming from a recording, they are not recorded again
func (e *telemetryEngine) ReplayReadings(readings []common.MetricReading) error {
	applied := e.applyReadings(readings)
	if len(applied) != len(readings) {
		return ErrEmptyMetricName
	}

	return nil
}

func (e *telemetryEngine) applyReadings(readings []common.MetricReading) []common.MetricReading {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	applied := make([]common.MetricReading, 0, len(readings))
	for _, reading := range readings {
		reading.Name = strings.TrimSpace(reading.Name)
		if len(reading.Name) == 0 {
			log.Debug("reading without name skipped", "value", reading.Value, "unit", reading.Unit)
			continue
		}
		if reading.Present() && (math.IsNaN(reading.Value) || math.IsInf(reading.Value, 0)) {
			log.Debug("non-finite reading applied as no data", "name", reading.Name, "unit", reading.Unit)
			reading.Value = 0
			reading.Unit = common.NoDataUnit
		}

		e.store.Apply(reading)
		created := e.widgets.ApplyReading(reading)

		e.metrics.readingsApplied.Inc()
		if created {
			e.metrics.cardsCreated.Inc()
		}
		if !reading.Present() {
			e.metrics.noDataReadings.Inc()
		}

		applied = append(applied, reading)
	}

	return applied
}

func (e *telemetryEngine) record(readings []common.MetricReading) {
	if e.recorder == nil {
		return
	}

	recordedAt := e.timeProvider().UnixMilli()
	for _, reading := range readings {
		err := e.recorder.SaveReading(common.RecordedReading{
			MetricReading: reading,
			RecordedAt:    recordedAt,
		})
		if err != nil {
			e.metrics.recordingErrors.Inc()
			log.Warn("failed to record reading", "name", reading.Name, "error", err)
		}
	}
}

// Track binds the metric to the graph target, replacing its previous tracker
func (e *telemetryEngine) Track(target string, metric string, unit string) (common.GraphView, error) {
	target = strings.TrimSpace(target)

	e.mutState.Lock()
	defer e.mutState.Unlock()

	sub, err := e.trackers.Track(target, metric, unit)
	if err != nil {
		return common.GraphView{}, err
	}
	e.subscriptions[target] = sub
	e.metrics.trackRequests.Inc()

	graph, _ := e.trackers.Graph(target)
	return graph, nil
}

// Untrack tears down the tracker of the graph target. Untracking a target without a tracker is a no-op.
func (e *telemetryEngine) Untrack(target string) error {
	target = strings.TrimSpace(target)

	e.mutState.Lock()
	defer e.mutState.Unlock()

	sub, found := e.subscriptions[target]
	if found {
		delete(e.subscriptions, target)
		sub.Dispose()
		return nil
	}

	return e.trackers.Untrack(target)
}

func (e *telemetryEngine) untrackAllUnprotected() {
	for target, sub := range e.subscriptions {
		delete(e.subscriptions, target)
		sub.Dispose()
	}
	e.trackers.UntrackAll()
}

// Tick delivers one sample clock tick to every live tracker
func (e *telemetryEngine) Tick(now time.Time) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.clock.Fire(now)
	e.metrics.ticks.Inc()
}

// ValidateCustomMetric checks every field rule of the definition
func (e *telemetryEngine) ValidateCustomMetric(def common.CustomMetricDefinition) error {
	return registrar.ValidateDefinition(def)
}

// SubmitCustomMetric validates the definition and forwards it to the diagnostic session, once per entry
func (e *telemetryEngine) SubmitCustomMetric(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error) {
	request, err := e.registrar.Submit(ctx, entryID, def)
	if err != nil {
		return common.RegisterCustomMetricRequest{}, err
	}

	e.metrics.customMetrics.Inc()
	return request, nil
}

// CustomMetricSubmitted returns true if the entry was already accepted
func (e *telemetryEngine) CustomMetricSubmitted(entryID string) bool {
	return e.registrar.Submitted(entryID)
}

// SetFrozen flags the card of the metric as frozen. The card must exist.
func (e *telemetryEngine) SetFrozen(name string, frozen bool) (common.CardView, error) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	_, found := e.widgets.Card(name)
	if !found {
		return common.CardView{}, widgets.ErrCardNotFound
	}

	e.session.SetFrozen(name, frozen)
	err := e.widgets.RefreshCard(name)
	if err != nil {
		return common.CardView{}, err
	}

	card, _ := e.widgets.Card(name)
	return card, nil
}

// ToggleExpanded flips the expanded flag of the card of the metric
func (e *telemetryEngine) ToggleExpanded(name string) (common.CardView, error) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	_, err := e.widgets.ToggleExpanded(name)
	if err != nil {
		return common.CardView{}, err
	}

	card, _ := e.widgets.Card(name)
	return card, nil
}

// SetPaused toggles the view-wide freeze
func (e *telemetryEngine) SetPaused(paused bool) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.session.SetPaused(paused)
	log.Debug("view paused flag changed", "paused", paused)
}

// ClearView removes every card and every freeze flag. Trackers and the metric store are kept.
func (e *telemetryEngine) ClearView() {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.widgets.Clear()
	e.session.ClearFrozen()
}

// SetConnectionStatus stores the connection status. A disconnect ends the session: every tracker is torn down
// and the vehicle state is forgotten.
func (e *telemetryEngine) SetConnectionStatus(status common.ConnectionStatus) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	previous := e.session.ConnectionStatus()
	e.session.SetConnectionStatus(status)

	if previous.Connected && !status.Connected {
		e.untrackAllUnprotected()
		e.session.ResetVehicleState()
		e.metrics.troubleCodes.Set(0)
		e.paintSessionUnprotected()
		log.Info("diagnostic session ended, trackers removed", "serial port", previous.SerialPort, "message", status.Message)
		return
	}
	if !previous.Connected && status.Connected {
		log.Info("diagnostic session started", "serial port", status.SerialPort)
	}
	e.paintSessionUnprotected()
}

// ConnectionStatus returns the latest connection status
func (e *telemetryEngine) ConnectionStatus() common.ConnectionStatus {
	return e.session.ConnectionStatus()
}

// Paused returns the view-wide freeze flag
func (e *telemetryEngine) Paused() bool {
	return e.session.Paused()
}

// Cards returns every card in creation order
func (e *telemetryEngine) Cards() []common.CardView {
	return e.widgets.Cards()
}

// Card returns the card of the metric
func (e *telemetryEngine) Card(name string) (common.CardView, bool) {
	return e.widgets.Card(name)
}

// Metrics returns the latest value of every metric in first-seen order
func (e *telemetryEngine) Metrics() []store.MetricEntry {
	return e.store.Snapshot()
}

// Metric returns the latest value of the metric
func (e *telemetryEngine) Metric(name string) (store.MetricEntry, bool) {
	return e.store.Get(name)
}

// Graph returns the painted state of the graph target
func (e *telemetryEngine) Graph(target string) (common.GraphView, bool) {
	return e.trackers.Graph(target)
}

// Graphs returns the painted state of every live tracker
func (e *telemetryEngine) Graphs() []common.GraphView {
	return e.trackers.Graphs()
}

// Targets returns the fixed set of graph targets
func (e *telemetryEngine) Targets() []string {
	return e.trackers.Targets()
}

// Start starts the sample clock
func (e *telemetryEngine) Start() {
	e.clock.Start(e.Tick)
}

// Close stops the sample clock, tears down every tracker and frees the engine collectors
func (e *telemetryEngine) Close() error {
	err := e.clock.Close()

	e.mutState.Lock()
	e.untrackAllUnprotected()
	e.mutState.Unlock()

	e.metrics.unregister(e.registerer)

	return err
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *telemetryEngine) IsInterfaceNil() bool {
	return e == nil
}
