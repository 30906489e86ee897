package termview

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// Controller receives the keyboard commands of the terminal view
type Controller interface {
	SetFrozen(name string, frozen bool) (common.CardView, error)
	SetPaused(paused bool)
	Paused() bool
	ClearView()
	IsInterfaceNil() bool
}
