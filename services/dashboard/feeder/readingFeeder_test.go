package feeder

import (
	"context"
	"errors"
	"testing"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/testsCommon"
	"github.com/stretchr/testify/assert"
)

var testSources = []config.SourceConfig{
	{Name: "Engine Speed", URL: "http://127.0.0.1:9000/api/live", ValuePath: "engine.rpm"},
}

func TestNewReadingFeeder(t *testing.T) {
	t.Parallel()

	t.Run("nil poller should error", func(t *testing.T) {
		f, err := NewReadingFeeder(testSources, nil, &testsCommon.ReadingSinkStub{})

		assert.Nil(t, f)
		assert.True(t, f.IsInterfaceNil())
		assert.Contains(t, err.Error(), "nil poller")
	})
	t.Run("nil sink should error", func(t *testing.T) {
		f, err := NewReadingFeeder(testSources, &testsCommon.PollerStub{}, nil)

		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "nil reading sink")
	})
	t.Run("should work", func(t *testing.T) {
		f, err := NewReadingFeeder(testSources, &testsCommon.PollerStub{}, &testsCommon.ReadingSinkStub{})

		assert.NotNil(t, f)
		assert.False(t, f.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestReadingFeeder_Process(t *testing.T) {
	t.Parallel()

	t.Run("no sources should not poll", func(t *testing.T) {
		t.Parallel()

		pollCalled := false
		p := &testsCommon.PollerStub{
			PollAllHandler: func(ctx context.Context, sources []config.SourceConfig) []common.MetricReading {
				pollCalled = true
				return nil
			},
		}
		f, _ := NewReadingFeeder(nil, p, &testsCommon.ReadingSinkStub{})
		f.Process(context.Background())
		assert.False(t, pollCalled)
	})
	t.Run("polled readings are applied", func(t *testing.T) {
		t.Parallel()

		polled := []common.MetricReading{{Name: "Engine Speed", Value: 850, Unit: "RPM"}}
		p := &testsCommon.PollerStub{
			PollAllHandler: func(ctx context.Context, sources []config.SourceConfig) []common.MetricReading {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				assert.Equal(t, testSources, sources)
				return polled
			},
		}

		var applied []common.MetricReading
		sink := &testsCommon.ReadingSinkStub{
			ApplyReadingsHandler: func(readings []common.MetricReading) error {
				applied = readings
				return errors.New("expected error")
			},
		}

		f, _ := NewReadingFeeder(testSources, p, sink)
		f.Process(context.Background())
		assert.Equal(t, polled, applied)
	})
	t.Run("empty poll should not reach the sink", func(t *testing.T) {
		t.Parallel()

		sinkCalled := false
		sink := &testsCommon.ReadingSinkStub{
			ApplyReadingsHandler: func(readings []common.MetricReading) error {
				sinkCalled = true
				return nil
			},
		}

		f, _ := NewReadingFeeder(testSources, &testsCommon.PollerStub{}, sink)
		f.Process(context.Background())
		assert.False(t, sinkCalled)
	})
}
