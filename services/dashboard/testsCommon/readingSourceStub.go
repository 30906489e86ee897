package testsCommon

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// ReadingSourceStub -
type ReadingSourceStub struct {
	GetReadingsHandler func(ctx context.Context, since int64, limit int) ([]common.RecordedReading, error)
}

// GetReadings -
func (stub *ReadingSourceStub) GetReadings(ctx context.Context, since int64, limit int) ([]common.RecordedReading, error) {
	if stub.GetReadingsHandler != nil {
		return stub.GetReadingsHandler(ctx, since, limit)
	}

	return make([]common.RecordedReading, 0), nil
}

// IsInterfaceNil -
func (stub *ReadingSourceStub) IsInterfaceNil() bool {
	return stub == nil
}
