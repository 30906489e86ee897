package engine

import (
	"context"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/store"
)

// SessionContext holds the session-wide flags
type SessionContext interface {
	SetConnectionStatus(status common.ConnectionStatus)
	ConnectionStatus() common.ConnectionStatus
	SetPaused(paused bool)
	Paused() bool
	SetFrozen(name string, frozen bool)
	IsFrozen(name string) bool
	ClearFrozen()
	SetVehicleDetails(details common.VehicleDetails)
	VehicleDetails() (common.VehicleDetails, bool)
	SetTroubleCodes(codes []common.TroubleCode)
	TroubleCodes() []common.TroubleCode
	ClearTroubleCodes() int
	SetReadinessTests(tests []common.ReadinessTest)
	ReadinessTests() []common.ReadinessTest
	SetParameters(parameters []common.ParameterInfo)
	Parameters() []common.ParameterInfo
	SetUnitPreferences(preferences common.UnitPreferences) (common.UnitPreferences, error)
	UnitPreferences() common.UnitPreferences
	ResetVehicleState()
	Snapshot() common.SessionSnapshot
	IsInterfaceNil() bool
}

// MetricStore keeps the latest value of every metric
type MetricStore interface {
	Apply(reading common.MetricReading) store.MetricEntry
	Get(name string) (store.MetricEntry, bool)
	Snapshot() []store.MetricEntry
	IsInterfaceNil() bool
}

// WidgetCache keeps one card per metric and republishes normalized updates
type WidgetCache interface {
	ApplyReading(reading common.MetricReading) bool
	Card(name string) (common.CardView, bool)
	Cards() []common.CardView
	Len() int
	RefreshCard(name string) error
	ToggleExpanded(name string) (bool, error)
	Clear()
	IsInterfaceNil() bool
}

// TrackerRegistry owns at most one live tracker per graph target
type TrackerRegistry interface {
	Track(target string, metric string, unit string) (bus.Subscription, error)
	Untrack(target string) error
	UntrackAll()
	Graph(target string) (common.GraphView, bool)
	Graphs() []common.GraphView
	Targets() []string
	LiveTrackers() int
	SamplesAppended() uint64
	IsInterfaceNil() bool
}

// SampleClock is the shared fixed-period trigger
type SampleClock interface {
	Fire(now time.Time)
	Start(sink func(now time.Time))
	Close() error
	IsInterfaceNil() bool
}

// Registrar validates and submits custom metric definitions
type Registrar interface {
	Submit(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error)
	Submitted(entryID string) bool
	IsInterfaceNil() bool
}

// SessionCommands forwards user commands to the diagnostic session
type SessionCommands interface {
	SetUnitPreferences(ctx context.Context, preferences common.UnitPreferences) error
	ClearTroubleCodes(ctx context.Context) error
	IsInterfaceNil() bool
}

// Recorder persists applied readings
type Recorder interface {
	SaveReading(reading common.RecordedReading) error
	IsInterfaceNil() bool
}
