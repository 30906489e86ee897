package tracker

import (
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/clock"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// UpdateSource is the normalized metric update stream
type UpdateSource interface {
	Subscribe(handler bus.UpdateHandler) bus.Subscription
	IsInterfaceNil() bool
}

// TickSource is the shared sample clock
type TickSource interface {
	Register(handler clock.TickHandler) bus.Subscription
	IsInterfaceNil() bool
}

// RollingWindow is the bounded sample buffer owned by one tracker
type RollingWindow interface {
	Append(sample common.Sample)
	Samples() []common.Sample
	Len() int
	Reset()
}
