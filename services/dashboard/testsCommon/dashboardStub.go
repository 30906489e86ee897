package testsCommon

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/store"
)

// DashboardStub -
type DashboardStub struct {
	ApplyReadingsHandler        func(readings []common.MetricReading) error
	SetConnectionStatusHandler  func(status common.ConnectionStatus)
	ConnectionStatusHandler     func() common.ConnectionStatus
	CardsHandler                func() []common.CardView
	SetFrozenHandler            func(name string, frozen bool) (common.CardView, error)
	ToggleExpandedHandler       func(name string) (common.CardView, error)
	SetPausedHandler            func(paused bool)
	PausedHandler               func() bool
	ClearViewHandler            func()
	MetricsHandler              func() []store.MetricEntry
	TargetsHandler              func() []string
	GraphsHandler               func() []common.GraphView
	GraphHandler                func(target string) (common.GraphView, bool)
	TrackHandler                func(target string, metric string, unit string) (common.GraphView, error)
	UntrackHandler              func(target string) error
	ValidateCustomMetricHandler func(def common.CustomMetricDefinition) error
	SubmitCustomMetricHandler   func(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error)
	SetVehicleDetailsHandler    func(details common.VehicleDetails)
	SetTroubleCodesHandler      func(codes []common.TroubleCode)
	ClearTroubleCodesHandler    func(ctx context.Context) (int, error)
	SetReadinessTestsHandler    func(tests []common.ReadinessTest)
	SetParametersHandler        func(parameters []common.ParameterInfo)
	SetUnitPreferencesHandler   func(ctx context.Context, preferences common.UnitPreferences) (common.UnitPreferences, error)
	UnitPreferencesHandler      func() common.UnitPreferences
	SessionSnapshotHandler      func() common.SessionSnapshot
}

// ApplyReadings -
func (stub *DashboardStub) ApplyReadings(readings []common.MetricReading) error {
	if stub.ApplyReadingsHandler != nil {
		return stub.ApplyReadingsHandler(readings)
	}

	return nil
}

// SetConnectionStatus -
func (stub *DashboardStub) SetConnectionStatus(status common.ConnectionStatus) {
	if stub.SetConnectionStatusHandler != nil {
		stub.SetConnectionStatusHandler(status)
	}
}

// ConnectionStatus -
func (stub *DashboardStub) ConnectionStatus() common.ConnectionStatus {
	if stub.ConnectionStatusHandler != nil {
		return stub.ConnectionStatusHandler()
	}

	return common.ConnectionStatus{}
}

// Cards -
func (stub *DashboardStub) Cards() []common.CardView {
	if stub.CardsHandler != nil {
		return stub.CardsHandler()
	}

	return make([]common.CardView, 0)
}

// SetFrozen -
func (stub *DashboardStub) SetFrozen(name string, frozen bool) (common.CardView, error) {
	if stub.SetFrozenHandler != nil {
		return stub.SetFrozenHandler(name, frozen)
	}

	return common.CardView{}, nil
}

// ToggleExpanded -
func (stub *DashboardStub) ToggleExpanded(name string) (common.CardView, error) {
	if stub.ToggleExpandedHandler != nil {
		return stub.ToggleExpandedHandler(name)
	}

	return common.CardView{}, nil
}

// SetPaused -
func (stub *DashboardStub) SetPaused(paused bool) {
	if stub.SetPausedHandler != nil {
		stub.SetPausedHandler(paused)
	}
}

// Paused -
func (stub *DashboardStub) Paused() bool {
	if stub.PausedHandler != nil {
		return stub.PausedHandler()
	}

	return false
}

// ClearView -
func (stub *DashboardStub) ClearView() {
	if stub.ClearViewHandler != nil {
		stub.ClearViewHandler()
	}
}

// Metrics -
func (stub *DashboardStub) Metrics() []store.MetricEntry {
	if stub.MetricsHandler != nil {
		return stub.MetricsHandler()
	}

	return make([]store.MetricEntry, 0)
}

// Targets -
func (stub *DashboardStub) Targets() []string {
	if stub.TargetsHandler != nil {
		return stub.TargetsHandler()
	}

	return make([]string, 0)
}

// Graphs -
func (stub *DashboardStub) Graphs() []common.GraphView {
	if stub.GraphsHandler != nil {
		return stub.GraphsHandler()
	}

	return make([]common.GraphView, 0)
}

// Graph -
func (stub *DashboardStub) Graph(target string) (common.GraphView, bool) {
	if stub.GraphHandler != nil {
		return stub.GraphHandler(target)
	}

	return common.GraphView{}, false
}

// Track -
func (stub *DashboardStub) Track(target string, metric string, unit string) (common.GraphView, error) {
	if stub.TrackHandler != nil {
		return stub.TrackHandler(target, metric, unit)
	}

	return common.GraphView{}, nil
}

// Untrack -
func (stub *DashboardStub) Untrack(target string) error {
	if stub.UntrackHandler != nil {
		return stub.UntrackHandler(target)
	}

	return nil
}

// ValidateCustomMetric -
func (stub *DashboardStub) ValidateCustomMetric(def common.CustomMetricDefinition) error {
	if stub.ValidateCustomMetricHandler != nil {
		return stub.ValidateCustomMetricHandler(def)
	}

	return nil
}

// SubmitCustomMetric -
func (stub *DashboardStub) SubmitCustomMetric(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error) {
	if stub.SubmitCustomMetricHandler != nil {
		return stub.SubmitCustomMetricHandler(ctx, entryID, def)
	}

	return common.RegisterCustomMetricRequest{}, nil
}

// SetVehicleDetails -
func (stub *DashboardStub) SetVehicleDetails(details common.VehicleDetails) {
	if stub.SetVehicleDetailsHandler != nil {
		stub.SetVehicleDetailsHandler(details)
	}
}

// SetTroubleCodes -
func (stub *DashboardStub) SetTroubleCodes(codes []common.TroubleCode) {
	if stub.SetTroubleCodesHandler != nil {
		stub.SetTroubleCodesHandler(codes)
	}
}

// ClearTroubleCodes -
func (stub *DashboardStub) ClearTroubleCodes(ctx context.Context) (int, error) {
	if stub.ClearTroubleCodesHandler != nil {
		return stub.ClearTroubleCodesHandler(ctx)
	}

	return 0, nil
}

// SetReadinessTests -
func (stub *DashboardStub) SetReadinessTests(tests []common.ReadinessTest) {
	if stub.SetReadinessTestsHandler != nil {
		stub.SetReadinessTestsHandler(tests)
	}
}

// SetParameters -
func (stub *DashboardStub) SetParameters(parameters []common.ParameterInfo) {
	if stub.SetParametersHandler != nil {
		stub.SetParametersHandler(parameters)
	}
}

// SetUnitPreferences -
func (stub *DashboardStub) SetUnitPreferences(ctx context.Context, preferences common.UnitPreferences) (common.UnitPreferences, error) {
	if stub.SetUnitPreferencesHandler != nil {
		return stub.SetUnitPreferencesHandler(ctx, preferences)
	}

	return preferences, nil
}

// UnitPreferences -
func (stub *DashboardStub) UnitPreferences() common.UnitPreferences {
	if stub.UnitPreferencesHandler != nil {
		return stub.UnitPreferencesHandler()
	}

	return common.DefaultUnitPreferences()
}

// SessionSnapshot -
func (stub *DashboardStub) SessionSnapshot() common.SessionSnapshot {
	if stub.SessionSnapshotHandler != nil {
		return stub.SessionSnapshotHandler()
	}

	return common.SessionSnapshot{}
}

// IsInterfaceNil -
func (stub *DashboardStub) IsInterfaceNil() bool {
	return stub == nil
}
