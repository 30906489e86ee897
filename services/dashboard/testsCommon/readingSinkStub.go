package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// ReadingSinkStub -
type ReadingSinkStub struct {
	ApplyReadingsHandler func(readings []common.MetricReading) error
}

// ApplyReadings -
func (stub *ReadingSinkStub) ApplyReadings(readings []common.MetricReading) error {
	if stub.ApplyReadingsHandler != nil {
		return stub.ApplyReadingsHandler(readings)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ReadingSinkStub) IsInterfaceNil() bool {
	return stub == nil
}
