package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// ControllerStub -
type ControllerStub struct {
	SetFrozenHandler func(name string, frozen bool) (common.CardView, error)
	SetPausedHandler func(paused bool)
	PausedHandler    func() bool
	ClearViewHandler func()
}

// SetFrozen -
func (stub *ControllerStub) SetFrozen(name string, frozen bool) (common.CardView, error) {
	if stub.SetFrozenHandler != nil {
		return stub.SetFrozenHandler(name, frozen)
	}

	return common.CardView{}, nil
}

// SetPaused -
func (stub *ControllerStub) SetPaused(paused bool) {
	if stub.SetPausedHandler != nil {
		stub.SetPausedHandler(paused)
	}
}

// Paused -
func (stub *ControllerStub) Paused() bool {
	if stub.PausedHandler != nil {
		return stub.PausedHandler()
	}

	return false
}

// ClearView -
func (stub *ControllerStub) ClearView() {
	if stub.ClearViewHandler != nil {
		stub.ClearViewHandler()
	}
}

// IsInterfaceNil -
func (stub *ControllerStub) IsInterfaceNil() bool {
	return stub == nil
}
