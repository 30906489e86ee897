package engine

import (
	"context"
	"fmt"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/session"
)

// SetVehicleDetails stores the identity of the connected vehicle
func (e *telemetryEngine) SetVehicleDetails(details common.VehicleDetails) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.session.SetVehicleDetails(details)
	e.paintSessionUnprotected()
}

// SetTroubleCodes replaces the trouble codes reported by the vehicle
func (e *telemetryEngine) SetTroubleCodes(codes []common.TroubleCode) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.session.SetTroubleCodes(codes)
	e.metrics.troubleCodes.Set(float64(len(codes)))
	e.paintSessionUnprotected()
}

// ClearTroubleCodes asks the diagnostic session to clear the stored codes, then drops every non-permanent code.
// Returns the number of dropped codes.
func (e *telemetryEngine) ClearTroubleCodes(ctx context.Context) (int, error) {
	if e.commands != nil {
		err := e.commands.ClearTroubleCodes(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrSessionCommandFailed, err.Error())
		}
	}

	e.mutState.Lock()
	defer e.mutState.Unlock()

	numCleared := e.session.ClearTroubleCodes()
	e.metrics.troubleCodes.Set(float64(len(e.session.TroubleCodes())))
	e.paintSessionUnprotected()
	log.Debug("trouble codes cleared", "cleared", numCleared)

	return numCleared, nil
}

// SetReadinessTests replaces the on-board monitor statuses
func (e *telemetryEngine) SetReadinessTests(tests []common.ReadinessTest) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.session.SetReadinessTests(tests)
	e.paintSessionUnprotected()
}

// SetParameters replaces the parameter catalog
func (e *telemetryEngine) SetParameters(parameters []common.ParameterInfo) {
	e.mutState.Lock()
	defer e.mutState.Unlock()

	e.session.SetParameters(parameters)
	e.paintSessionUnprotected()
}

// SetUnitPreferences validates the preferences, forwards them to the diagnostic session and stores them.
// Nothing is stored if the session refused them.
func (e *telemetryEngine) SetUnitPreferences(ctx context.Context, preferences common.UnitPreferences) (common.UnitPreferences, error) {
	normalized, err := session.NormalizeUnitPreferences(preferences)
	if err != nil {
		return common.UnitPreferences{}, err
	}

	if e.commands != nil {
		err = e.commands.SetUnitPreferences(ctx, normalized)
		if err != nil {
			return common.UnitPreferences{}, fmt.Errorf("%w: %s", ErrSessionCommandFailed, err.Error())
		}
	}

	e.mutState.Lock()
	defer e.mutState.Unlock()

	stored, err := e.session.SetUnitPreferences(normalized)
	if err != nil {
		return common.UnitPreferences{}, err
	}
	e.paintSessionUnprotected()

	return stored, nil
}

// UnitPreferences returns the active unit preferences
func (e *telemetryEngine) UnitPreferences() common.UnitPreferences {
	return e.session.UnitPreferences()
}

// SessionSnapshot returns the session-held state besides cards and graphs
func (e *telemetryEngine) SessionSnapshot() common.SessionSnapshot {
	return e.session.Snapshot()
}

func (e *telemetryEngine) paintSessionUnprotected() {
	if e.sessionPaint == nil {
		return
	}

	e.sessionPaint.RenderSession(e.session.Snapshot())
}
