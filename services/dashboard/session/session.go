package session

import (
	"sync"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// sessionContext holds the session-wide flags the engine reads instead of reaching for globals
type sessionContext struct {
	mut             sync.RWMutex
	connection      common.ConnectionStatus
	paused          bool
	frozen          map[string]struct{}
	vehicle         *common.VehicleDetails
	troubleCodes    []common.TroubleCode
	readinessTests  []common.ReadinessTest
	parameters      []common.ParameterInfo
	unitPreferences common.UnitPreferences
}

// NewSessionContext creates an empty, disconnected session context using the default unit preferences
func NewSessionContext() *sessionContext {
	return &sessionContext{
		frozen:          make(map[string]struct{}),
		unitPreferences: common.DefaultUnitPreferences(),
	}
}

// SetConnectionStatus stores the latest connection status
func (s *sessionContext) SetConnectionStatus(status common.ConnectionStatus) {
	s.mut.Lock()
	s.connection = status
	s.mut.Unlock()
}

// ConnectionStatus returns the latest connection status
func (s *sessionContext) ConnectionStatus() common.ConnectionStatus {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.connection
}

// SetPaused toggles the frozen-view flag that suppresses all card updates
func (s *sessionContext) SetPaused(paused bool) {
	s.mut.Lock()
	s.paused = paused
	s.mut.Unlock()
}

// Paused returns the frozen-view flag
func (s *sessionContext) Paused() bool {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return s.paused
}

// SetFrozen flags or un-flags a single card as frozen
func (s *sessionContext) SetFrozen(name string, frozen bool) {
	key := common.NormalizeName(name)

	s.mut.Lock()
	defer s.mut.Unlock()

	if frozen {
		s.frozen[key] = struct{}{}
		return
	}

	delete(s.frozen, key)
}

// IsFrozen returns true if the card for the provided metric name is frozen
func (s *sessionContext) IsFrozen(name string) bool {
	s.mut.RLock()
	defer s.mut.RUnlock()

	_, found := s.frozen[common.NormalizeName(name)]
	return found
}

// ClearFrozen un-flags every card
func (s *sessionContext) ClearFrozen() {
	s.mut.Lock()
	s.frozen = make(map[string]struct{})
	s.mut.Unlock()
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *sessionContext) IsInterfaceNil() bool {
	return s == nil
}
