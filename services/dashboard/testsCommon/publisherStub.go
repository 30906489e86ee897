package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// PublisherStub -
type PublisherStub struct {
	PublishHandler func(update common.MetricUpdate)
}

// Publish -
func (stub *PublisherStub) Publish(update common.MetricUpdate) {
	if stub.PublishHandler != nil {
		stub.PublishHandler(update)
	}
}

// IsInterfaceNil -
func (stub *PublisherStub) IsInterfaceNil() bool {
	return stub == nil
}
