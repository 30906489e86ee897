package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// ReplaySinkStub -
type ReplaySinkStub struct {
	ReplayReadingsHandler func(readings []common.MetricReading) error
}

// ReplayReadings -
func (stub *ReplaySinkStub) ReplayReadings(readings []common.MetricReading) error {
	if stub.ReplayReadingsHandler != nil {
		return stub.ReplayReadingsHandler(readings)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ReplaySinkStub) IsInterfaceNil() bool {
	return stub == nil
}
