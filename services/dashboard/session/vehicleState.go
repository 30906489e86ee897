package session

import (
	"sort"
	"strings"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// SetVehicleDetails stores the identity of the connected vehicle
func (s *sessionContext) SetVehicleDetails(details common.VehicleDetails) {
	details.VIN = strings.ToUpper(strings.TrimSpace(details.VIN))

	s.mut.Lock()
	s.vehicle = &details
	s.mut.Unlock()
}

// VehicleDetails returns the connected vehicle, if it was reported
func (s *sessionContext) VehicleDetails() (common.VehicleDetails, bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	if s.vehicle == nil {
		return common.VehicleDetails{}, false
	}

	return *s.vehicle, true
}

// SetTroubleCodes replaces the reported trouble codes
func (s *sessionContext) SetTroubleCodes(codes []common.TroubleCode) {
	s.mut.Lock()
	s.troubleCodes = append(make([]common.TroubleCode, 0, len(codes)), codes...)
	s.mut.Unlock()
}

// TroubleCodes returns a copy of the reported trouble codes
func (s *sessionContext) TroubleCodes() []common.TroubleCode {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return append(make([]common.TroubleCode, 0, len(s.troubleCodes)), s.troubleCodes...)
}

// ClearTroubleCodes drops every code except the permanent ones and returns how many were dropped
func (s *sessionContext) ClearTroubleCodes() int {
	s.mut.Lock()
	defer s.mut.Unlock()

	kept := make([]common.TroubleCode, 0, len(s.troubleCodes))
	for _, code := range s.troubleCodes {
		if code.Permanent {
			kept = append(kept, code)
		}
	}
	numCleared := len(s.troubleCodes) - len(kept)
	s.troubleCodes = kept

	return numCleared
}

// SetReadinessTests replaces the monitor statuses
func (s *sessionContext) SetReadinessTests(tests []common.ReadinessTest) {
	s.mut.Lock()
	s.readinessTests = append(make([]common.ReadinessTest, 0, len(tests)), tests...)
	s.mut.Unlock()
}

// ReadinessTests returns a copy of the monitor statuses
func (s *sessionContext) ReadinessTests() []common.ReadinessTest {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return append(make([]common.ReadinessTest, 0, len(s.readinessTests)), s.readinessTests...)
}

// SetParameters replaces the parameter catalog. Supported parameters are listed first, the relative order is kept.
func (s *sessionContext) SetParameters(parameters []common.ParameterInfo) {
	catalog := append(make([]common.ParameterInfo, 0, len(parameters)), parameters...)
	sort.SliceStable(catalog, func(i, j int) bool {
		return catalog[i].Supported && !catalog[j].Supported
	})

	s.mut.Lock()
	s.parameters = catalog
	s.mut.Unlock()
}

// Parameters returns a copy of the parameter catalog
func (s *sessionContext) Parameters() []common.ParameterInfo {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return append(make([]common.ParameterInfo, 0, len(s.parameters)), s.parameters...)
}

// SetUnitPreferences stores the unit preferences after normalizing every unit. Returns the stored value.
func (s *sessionContext) SetUnitPreferences(preferences common.UnitPreferences) (common.UnitPreferences, error) {
	normalized, err := NormalizeUnitPreferences(preferences)
	if err != nil {
		return common.UnitPreferences{}, err
	}

	s.mut.Lock()
	s.unitPreferences = normalized
	s.mut.Unlock()

	return normalized, nil
}

// UnitPreferences returns the active unit preferences
func (s *sessionContext) UnitPreferences() common.UnitPreferences {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.unitPreferences
}

// ResetVehicleState forgets everything reported about the vehicle. Unit preferences are kept.
func (s *sessionContext) ResetVehicleState() {
	s.mut.Lock()
	s.vehicle = nil
	s.troubleCodes = nil
	s.readinessTests = nil
	s.parameters = nil
	s.mut.Unlock()
}

// Snapshot returns the whole session-held state
func (s *sessionContext) Snapshot() common.SessionSnapshot {
	s.mut.RLock()
	defer s.mut.RUnlock()

	snapshot := common.SessionSnapshot{
		Connection:      s.connection,
		TroubleCodes:    append(make([]common.TroubleCode, 0, len(s.troubleCodes)), s.troubleCodes...),
		ReadinessTests:  append(make([]common.ReadinessTest, 0, len(s.readinessTests)), s.readinessTests...),
		Parameters:      append(make([]common.ParameterInfo, 0, len(s.parameters)), s.parameters...),
		UnitPreferences: s.unitPreferences,
	}
	if s.vehicle != nil {
		vehicle := *s.vehicle
		snapshot.Vehicle = &vehicle
	}

	return snapshot
}
