package bus

import "sync"

// subscription releases a registration exactly once
type subscription struct {
	once    sync.Once
	release func()
}

// NewSubscription wraps the release function in a dispose-once subscription
func NewSubscription(release func()) *subscription {
	return &subscription{
		release: release,
	}
}

// Dispose releases the registration. Calls after the first one do nothing.
func (s *subscription) Dispose() {
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *subscription) IsInterfaceNil() bool {
	return s == nil
}
