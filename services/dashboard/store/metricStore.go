package store

import (
	"sync"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// MetricEntry is the latest known state of one metric
type MetricEntry struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Present bool    `json:"present"`
}

// metricStore maps each metric to its latest applied reading. The last applied reading wins.
type metricStore struct {
	mut     sync.RWMutex
	order   []string
	entries map[string]MetricEntry
}

// NewMetricStore creates an empty metric store
func NewMetricStore() *metricStore {
	return &metricStore{
		entries: make(map[string]MetricEntry),
	}
}

// Apply stores the reading as the latest value of its metric
func (s *metricStore) Apply(reading common.MetricReading) MetricEntry {
	key := common.NormalizeName(reading.Name)
	entry := MetricEntry{
		Name:    reading.Name,
		Unit:    reading.Unit,
		Present: reading.Present(),
	}
	if entry.Present {
		entry.Value = reading.Value
	}

	s.mut.Lock()
	defer s.mut.Unlock()

	existing, found := s.entries[key]
	if !found {
		s.order = append(s.order, key)
	} else {
		entry.Name = existing.Name
	}
	s.entries[key] = entry

	return entry
}

// Get returns the latest entry of the metric
func (s *metricStore) Get(name string) (MetricEntry, bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	entry, found := s.entries[common.NormalizeName(name)]
	return entry, found
}

// Snapshot returns all entries in first-seen order
func (s *metricStore) Snapshot() []MetricEntry {
	s.mut.RLock()
	defer s.mut.RUnlock()

	result := make([]MetricEntry, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.entries[key])
	}

	return result
}

// Len returns the number of distinct metrics seen
func (s *metricStore) Len() int {
	s.mut.RLock()
	defer s.mut.RUnlock()

	return len(s.entries)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *metricStore) IsInterfaceNil() bool {
	return s == nil
}
