package session

import (
	"fmt"
	"strings"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

var (
	speedUnits       = []string{"km/h", "mph"}
	distanceUnits    = []string{"km", "mi", "m", "ft"}
	temperatureUnits = []string{"°C", "°F"}
	torqueUnits      = []string{"Nm", "ft-lb"}
	pressureUnits    = []string{"kPa", "Pa", "PSI"}
	flowRateUnits    = []string{"L/h", "gal/h"}
)

// NormalizeUnitPreferences maps every field onto its canonical unit spelling, matching case-insensitively.
// An empty field keeps the default unit of its quantity.
func NormalizeUnitPreferences(preferences common.UnitPreferences) (common.UnitPreferences, error) {
	defaults := common.DefaultUnitPreferences()
	var err error

	fields := []struct {
		quantity string
		value    *string
		fallback string
		allowed  []string
	}{
		{"speed", &preferences.Speed, defaults.Speed, speedUnits},
		{"distance", &preferences.Distance, defaults.Distance, distanceUnits},
		{"temperature", &preferences.Temperature, defaults.Temperature, temperatureUnits},
		{"torque", &preferences.Torque, defaults.Torque, torqueUnits},
		{"pressure", &preferences.Pressure, defaults.Pressure, pressureUnits},
		{"flowRate", &preferences.FlowRate, defaults.FlowRate, flowRateUnits},
	}
	for _, field := range fields {
		*field.value, err = canonicalUnit(*field.value, field.fallback, field.allowed)
		if err != nil {
			return common.UnitPreferences{}, fmt.Errorf("%w for %s: %s", ErrUnsupportedUnit, field.quantity, err.Error())
		}
	}

	return preferences, nil
}

func canonicalUnit(unit string, fallback string, allowed []string) (string, error) {
	unit = strings.TrimSpace(unit)
	if len(unit) == 0 {
		return fallback, nil
	}

	for _, candidate := range allowed {
		if strings.EqualFold(candidate, unit) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%q, allowed: %s", unit, strings.Join(allowed, ", "))
}
