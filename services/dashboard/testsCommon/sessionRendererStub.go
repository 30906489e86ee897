package testsCommon

import "github.com/iulianpascalau/obd-dashboard/services/dashboard/common"

// SessionRendererStub -
type SessionRendererStub struct {
	RenderSessionHandler func(snapshot common.SessionSnapshot)
}

// RenderSession -
func (stub *SessionRendererStub) RenderSession(snapshot common.SessionSnapshot) {
	if stub.RenderSessionHandler != nil {
		stub.RenderSessionHandler(snapshot)
	}
}

// IsInterfaceNil -
func (stub *SessionRendererStub) IsInterfaceNil() bool {
	return stub == nil
}
