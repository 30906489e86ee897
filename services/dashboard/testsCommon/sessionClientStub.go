package testsCommon

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// SessionClientStub -
type SessionClientStub struct {
	RegisterCustomMetricHandler func(ctx context.Context, request common.RegisterCustomMetricRequest) error
	SetUnitPreferencesHandler   func(ctx context.Context, preferences common.UnitPreferences) error
	ClearTroubleCodesHandler    func(ctx context.Context) error
}

// RegisterCustomMetric -
func (stub *SessionClientStub) RegisterCustomMetric(ctx context.Context, request common.RegisterCustomMetricRequest) error {
	if stub.RegisterCustomMetricHandler != nil {
		return stub.RegisterCustomMetricHandler(ctx, request)
	}

	return nil
}

// SetUnitPreferences -
func (stub *SessionClientStub) SetUnitPreferences(ctx context.Context, preferences common.UnitPreferences) error {
	if stub.SetUnitPreferencesHandler != nil {
		return stub.SetUnitPreferencesHandler(ctx, preferences)
	}

	return nil
}

// ClearTroubleCodes -
func (stub *SessionClientStub) ClearTroubleCodes(ctx context.Context) error {
	if stub.ClearTroubleCodesHandler != nil {
		return stub.ClearTroubleCodesHandler(ctx)
	}

	return nil
}

// IsInterfaceNil -
func (stub *SessionClientStub) IsInterfaceNil() bool {
	return stub == nil
}
