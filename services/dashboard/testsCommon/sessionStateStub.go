package testsCommon

// SessionStateStub -
type SessionStateStub struct {
	IsFrozenHandler func(name string) bool
	PausedHandler   func() bool
}

// IsFrozen -
func (stub *SessionStateStub) IsFrozen(name string) bool {
	if stub.IsFrozenHandler != nil {
		return stub.IsFrozenHandler(name)
	}

	return false
}

// Paused -
func (stub *SessionStateStub) Paused() bool {
	if stub.PausedHandler != nil {
		return stub.PausedHandler()
	}

	return false
}

// IsInterfaceNil -
func (stub *SessionStateStub) IsInterfaceNil() bool {
	return stub == nil
}
