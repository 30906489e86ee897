package registrar

import (
	"errors"
	"strings"
	"testing"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefinition() common.CustomMetricDefinition {
	return common.CustomMetricDefinition{
		Mode:     "$1A",
		PID:      "0C",
		Equation: "A*256+B",
		Unit:     "RPM",
		Name:     "Custom RPM",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid definition", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Validate(validDefinition()))
		assert.Nil(t, ValidateDefinition(validDefinition()))
	})
	t.Run("equation without placeholder", func(t *testing.T) {
		t.Parallel()

		def := validDefinition()
		def.Equation = "42"
		def.Name = "X"
		assert.False(t, Validate(def))
	})
	t.Run("lowercase placeholder is accepted", func(t *testing.T) {
		t.Parallel()

		def := validDefinition()
		def.Equation = "(a-40)"
		assert.True(t, Validate(def))
	})
	t.Run("placeholder outside A-F is rejected", func(t *testing.T) {
		t.Parallel()

		def := validDefinition()
		def.Equation = "G*2"
		assert.False(t, Validate(def))
	})

	modes := map[string]bool{
		"$01":  true,
		"$1A":  true,
		"$1a":  true,
		"$ff":  true,
		"$ZZ":  false,
		"$0G":  false,
		"$é!":  false,
		"$ 1":  false,
		"01":   false,
		"$1":   false,
		"$123": false,
		"":     false,
		"#01":  false,
	}
	for mode, expected := range modes {
		def := validDefinition()
		def.Mode = mode
		assert.Equal(t, expected, Validate(def), "mode %q", mode)
	}

	pids := map[string]bool{
		"0C":   true,
		"0C1F": true,
		"C":    false,
		"":     false,
		"  ":   false,
	}
	for pid, expected := range pids {
		def := validDefinition()
		def.PID = pid
		assert.Equal(t, expected, Validate(def), "pid %q", pid)
	}

	t.Run("blank unit and name are rejected", func(t *testing.T) {
		t.Parallel()

		def := validDefinition()
		def.Unit = "  "
		assert.False(t, Validate(def))

		def = validDefinition()
		def.Name = "\t"
		assert.False(t, Validate(def))
	})
	t.Run("name length is limited", func(t *testing.T) {
		t.Parallel()

		def := validDefinition()
		def.Name = strings.Repeat("n", 55)
		assert.True(t, Validate(def))

		def.Name = strings.Repeat("n", 56)
		assert.False(t, Validate(def))
	})
}

func TestValidateDefinition_ListsEveryFailure(t *testing.T) {
	t.Parallel()

	err := ValidateDefinition(common.CustomMetricDefinition{})
	require.NotNil(t, err)

	validationErr := &ValidationError{}
	require.True(t, errors.As(err, &validationErr))

	fields := make([]string, 0)
	for _, failure := range validationErr.Failures {
		fields = append(fields, failure.Field)
	}
	assert.Equal(t, []string{"mode", "pid", "equation", "unit", "name"}, fields)
	assert.Contains(t, err.Error(), "invalid custom metric definition: mode:")
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	def := validDefinition()
	def.PID = " 0c "
	request := BuildRequest(def)

	assert.Equal(t, common.RegisterCustomMetricRequest{
		Mode:     "1A",
		PID:      "0C",
		Command:  "1A0C",
		Equation: "A*256+B",
		Unit:     "RPM",
		Name:     "Custom RPM",
	}, request)
}
