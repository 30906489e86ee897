package testsCommon

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
)

// PollerStub -
type PollerStub struct {
	PollAllHandler func(ctx context.Context, sources []config.SourceConfig) []common.MetricReading
}

// PollAll -
func (stub *PollerStub) PollAll(ctx context.Context, sources []config.SourceConfig) []common.MetricReading {
	if stub.PollAllHandler != nil {
		return stub.PollAllHandler(ctx, sources)
	}

	return make([]common.MetricReading, 0)
}

// IsInterfaceNil -
func (stub *PollerStub) IsInterfaceNil() bool {
	return stub == nil
}
