package replay

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// ReadingSource provides the recorded readings
type ReadingSource interface {
	GetReadings(ctx context.Context, since int64, limit int) ([]common.RecordedReading, error)
	IsInterfaceNil() bool
}

// ReplaySink receives the replayed readings without recording them again
type ReplaySink interface {
	ReplayReadings(readings []common.MetricReading) error
	IsInterfaceNil() bool
}
