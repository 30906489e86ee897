package registrar

import (
	"strings"
	"unicode/utf8"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

const (
	modeMarker        = "$"
	modeDigits        = 2
	minPIDLength      = 2
	maxNameLength     = 55
	placeholderLetter = "ABCDEF"
)

// ValidateDefinition checks every field rule and returns a *ValidationError listing all failures
func ValidateDefinition(def common.CustomMetricDefinition) error {
	failures := make([]FieldFailure, 0)
	addFailure := func(field string, reason string) {
		failures = append(failures, FieldFailure{Field: field, Reason: reason})
	}

	mode := strings.TrimSpace(def.Mode)
	if !strings.HasPrefix(mode, modeMarker) || !isHexDigits(strings.TrimPrefix(mode, modeMarker), modeDigits) {
		addFailure("mode", "must be the $ marker followed by exactly 2 hex digits")
	}
	if utf8.RuneCountInString(strings.TrimSpace(def.PID)) < minPIDLength {
		addFailure("pid", "must have at least 2 characters")
	}
	if !strings.ContainsAny(strings.ToUpper(def.Equation), placeholderLetter) {
		addFailure("equation", "must reference at least one of the A-F variables")
	}
	if len(strings.TrimSpace(def.Unit)) == 0 {
		addFailure("unit", "must not be empty")
	}

	name := strings.TrimSpace(def.Name)
	switch {
	case len(name) == 0:
		addFailure("name", "must not be empty")
	case utf8.RuneCountInString(name) > maxNameLength:
		addFailure("name", "must have at most 55 characters")
	}

	if len(failures) > 0 {
		return &ValidationError{Failures: failures}
	}

	return nil
}

func isHexDigits(value string, count int) bool {
	if len(value) != count {
		return false
	}
	for _, r := range value {
		isDigit := r >= '0' && r <= '9'
		isLetter := (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isDigit && !isLetter {
			return false
		}
	}

	return true
}

// Validate returns true if every field rule holds
func Validate(def common.CustomMetricDefinition) bool {
	return ValidateDefinition(def) == nil
}

// BuildRequest converts a valid definition into the registration request sent to the diagnostic session
func BuildRequest(def common.CustomMetricDefinition) common.RegisterCustomMetricRequest {
	mode := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(def.Mode), modeMarker))
	pid := strings.ToUpper(strings.TrimSpace(def.PID))

	return common.RegisterCustomMetricRequest{
		Mode:     mode,
		PID:      pid,
		Command:  mode + pid,
		Equation: strings.TrimSpace(def.Equation),
		Unit:     strings.TrimSpace(def.Unit),
		Name:     strings.TrimSpace(def.Name),
	}
}
