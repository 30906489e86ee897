package testsCommon

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// ReadingHistoryStub -
type ReadingHistoryStub struct {
	GetReadingHistoryHandler func(ctx context.Context, name string, limit int) ([]common.RecordedReading, error)
}

// GetReadingHistory -
func (stub *ReadingHistoryStub) GetReadingHistory(ctx context.Context, name string, limit int) ([]common.RecordedReading, error) {
	if stub.GetReadingHistoryHandler != nil {
		return stub.GetReadingHistoryHandler(ctx, name, limit)
	}

	return make([]common.RecordedReading, 0), nil
}

// IsInterfaceNil -
func (stub *ReadingHistoryStub) IsInterfaceNil() bool {
	return stub == nil
}
