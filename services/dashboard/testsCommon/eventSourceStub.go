package testsCommon

import (
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// EventSourceStub -
type EventSourceStub struct {
	SubscribeHandler func() (<-chan common.PaintEvent, bus.Subscription)
}

// Subscribe -
func (stub *EventSourceStub) Subscribe() (<-chan common.PaintEvent, bus.Subscription) {
	if stub.SubscribeHandler != nil {
		return stub.SubscribeHandler()
	}

	events := make(chan common.PaintEvent)
	return events, bus.NewSubscription(func() {})
}

// IsInterfaceNil -
func (stub *EventSourceStub) IsInterfaceNil() bool {
	return stub == nil
}
