package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// RecorderStub -
type RecorderStub struct {
	SaveReadingHandler func(reading common.RecordedReading) error
}

// SaveReading -
func (stub *RecorderStub) SaveReading(reading common.RecordedReading) error {
	if stub.SaveReadingHandler != nil {
		return stub.SaveReadingHandler(reading)
	}

	return nil
}

// IsInterfaceNil -
func (stub *RecorderStub) IsInterfaceNil() bool {
	return stub == nil
}
