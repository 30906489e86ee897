package testsCommon

// ReplayerStub -
type ReplayerStub struct {
	StartHandler     func(since int64, speed float64) error
	IsRunningHandler func() bool
}

// Start -
func (stub *ReplayerStub) Start(since int64, speed float64) error {
	if stub.StartHandler != nil {
		return stub.StartHandler(since, speed)
	}

	return nil
}

// IsRunning -
func (stub *ReplayerStub) IsRunning() bool {
	if stub.IsRunningHandler != nil {
		return stub.IsRunningHandler()
	}

	return false
}

// IsInterfaceNil -
func (stub *ReplayerStub) IsInterfaceNil() bool {
	return stub == nil
}
