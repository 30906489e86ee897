package widgets

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// Publisher republishes normalized metric updates
type Publisher interface {
	Publish(update common.MetricUpdate)
	IsInterfaceNil() bool
}

// SessionState exposes the freeze flags owned by the session context
type SessionState interface {
	IsFrozen(name string) bool
	Paused() bool
	IsInterfaceNil() bool
}
