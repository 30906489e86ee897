package api

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/store"
)

// Dashboard is the telemetry engine surface driven by the HTTP API
type Dashboard interface {
	ApplyReadings(readings []common.MetricReading) error
	SetConnectionStatus(status common.ConnectionStatus)
	ConnectionStatus() common.ConnectionStatus

	Cards() []common.CardView
	SetFrozen(name string, frozen bool) (common.CardView, error)
	ToggleExpanded(name string) (common.CardView, error)
	SetPaused(paused bool)
	Paused() bool
	ClearView()

	Metrics() []store.MetricEntry

	Targets() []string
	Graphs() []common.GraphView
	Graph(target string) (common.GraphView, bool)
	Track(target string, metric string, unit string) (common.GraphView, error)
	Untrack(target string) error

	ValidateCustomMetric(def common.CustomMetricDefinition) error
	SubmitCustomMetric(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error)

	SetVehicleDetails(details common.VehicleDetails)
	SetTroubleCodes(codes []common.TroubleCode)
	ClearTroubleCodes(ctx context.Context) (int, error)
	SetReadinessTests(tests []common.ReadinessTest)
	SetParameters(parameters []common.ParameterInfo)
	SetUnitPreferences(ctx context.Context, preferences common.UnitPreferences) (common.UnitPreferences, error)
	UnitPreferences() common.UnitPreferences
	SessionSnapshot() common.SessionSnapshot

	IsInterfaceNil() bool
}

// EventSource streams the paint events to the connected UI clients
type EventSource interface {
	Subscribe() (<-chan common.PaintEvent, bus.Subscription)
	IsInterfaceNil() bool
}

// Replayer feeds recorded readings back into the dashboard
type Replayer interface {
	Start(since int64, speed float64) error
	IsRunning() bool
	IsInterfaceNil() bool
}

// ReadingHistory returns the recorded values of one metric
type ReadingHistory interface {
	GetReadingHistory(ctx context.Context, name string, limit int) ([]common.RecordedReading, error)
	IsInterfaceNil() bool
}
