package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPoller_PollAll(t *testing.T) {
	t.Parallel()

	var numLiveCalls atomic.Int32
	liveServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		numLiveCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"engine": {"rpm": {"value": 850, "unit": "RPM"}}, "vehicle": {"speed": "42.5"}, "o2": {"value": 0, "unit": "NO DATA"}, "maf": "n/a"}`))
	}))
	defer liveServer.Close()

	failingServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failingServer.Close()

	timeoutServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer timeoutServer.Close()

	sources := []config.SourceConfig{
		{Name: "Engine Speed", URL: liveServer.URL, ValuePath: "engine.rpm.value", UnitPath: "engine.rpm.unit"},
		{Name: "Broken", URL: failingServer.URL, ValuePath: "value", Unit: "V"},
		{Name: "Vehicle Speed", URL: liveServer.URL, ValuePath: "vehicle.speed", Unit: "km/h"},
		{Name: "O2 Sensor", URL: liveServer.URL, ValuePath: "o2.value", UnitPath: "o2.unit"},
		{Name: "MAF", URL: liveServer.URL, ValuePath: "maf", Unit: "g/s"},
		{Name: "Coolant", URL: liveServer.URL, ValuePath: "engine.coolant", Unit: "°C"},
		{Name: "Slow", URL: timeoutServer.URL, ValuePath: "value", Unit: "V"},
		{Name: "Refused", URL: "http://localhost:59999", ValuePath: "value", Unit: "V"},
	}

	poller := NewHTTPPoller(time.Second)
	assert.False(t, poller.IsInterfaceNil())

	readings := poller.PollAll(context.Background(), sources)
	require.Equal(t, []common.MetricReading{
		{Name: "Engine Speed", Value: 850, Unit: "RPM"},
		{Name: "Vehicle Speed", Value: 42.5, Unit: "km/h"},
		{Name: "O2 Sensor", Unit: common.NoDataUnit},
		{Name: "MAF", Unit: common.NoDataUnit},
		{Name: "Coolant", Unit: common.NoDataUnit},
	}, readings)
	assert.Equal(t, int32(1), numLiveCalls.Load())
}

func TestHTTPPoller_PollAllWithoutSources(t *testing.T) {
	t.Parallel()

	poller := NewHTTPPoller(time.Second)
	assert.Empty(t, poller.PollAll(context.Background(), nil))
}

func TestExtractReading_NonFiniteValues(t *testing.T) {
	t.Parallel()

	source := config.SourceConfig{Name: "Fuel Rate", ValuePath: "v", Unit: "L/h"}
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity", " Infinity "} {
		body := []byte(`{"v": "` + raw + `"}`)

		reading := extractReading(body, source)
		assert.False(t, reading.Present(), "value %q", raw)
		assert.Equal(t, common.MetricReading{Name: "Fuel Rate", Unit: common.NoDataUnit}, reading, "value %q", raw)
	}

	reading := extractReading([]byte(`{"v": "12.5"}`), source)
	assert.Equal(t, common.MetricReading{Name: "Fuel Rate", Value: 12.5, Unit: "L/h"}, reading)
}
