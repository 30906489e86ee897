package feeder

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
)

// Poller fetches the configured reading sources
type Poller interface {
	// PollAll fetches every source concurrently. Sources that could not be fetched are omitted.
	PollAll(ctx context.Context, sources []config.SourceConfig) []common.MetricReading
	IsInterfaceNil() bool
}

// ReadingSink receives the polled readings
type ReadingSink interface {
	ApplyReadings(readings []common.MetricReading) error
	IsInterfaceNil() bool
}
