package registrar

import (
	"context"
	"strings"
	"sync"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("registrar")

type entryState int

const (
	entryPending entryState = iota + 1
	entrySubmitted
)

// customMetricRegistrar validates custom metric definitions and submits each entry at most once
type customMetricRegistrar struct {
	client SessionClient

	mut     sync.Mutex
	entries map[string]entryState
}

// NewCustomMetricRegistrar creates a registrar that forwards valid definitions to the provided client
func NewCustomMetricRegistrar(client SessionClient) (*customMetricRegistrar, error) {
	if check.IfNil(client) {
		return nil, ErrNilSessionClient
	}

	return &customMetricRegistrar{
		client:  client,
		entries: make(map[string]entryState),
	}, nil
}

// Submit validates the definition and emits the registration request. The entry is locked for
// further submissions only after the request was accepted. Returns the emitted request.
func (r *customMetricRegistrar) Submit(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error) {
	entryID = strings.TrimSpace(entryID)
	if len(entryID) == 0 {
		return common.RegisterCustomMetricRequest{}, ErrEmptyEntryID
	}

	err := ValidateDefinition(def)
	if err != nil {
		return common.RegisterCustomMetricRequest{}, err
	}

	err = r.reserve(entryID)
	if err != nil {
		return common.RegisterCustomMetricRequest{}, err
	}

	request := BuildRequest(def)
	err = r.client.RegisterCustomMetric(ctx, request)

	r.mut.Lock()
	defer r.mut.Unlock()

	if err != nil {
		delete(r.entries, entryID)
		log.Warn("custom metric registration failed", "entry", entryID, "name", request.Name, "error", err)
		return common.RegisterCustomMetricRequest{}, err
	}

	r.entries[entryID] = entrySubmitted
	log.Debug("custom metric registered", "entry", entryID, "name", request.Name, "command", request.Command)

	return request, nil
}

func (r *customMetricRegistrar) reserve(entryID string) error {
	r.mut.Lock()
	defer r.mut.Unlock()

	state, found := r.entries[entryID]
	if found {
		if state == entrySubmitted {
			return ErrAlreadySubmitted
		}
		return ErrSubmissionInProgress
	}

	r.entries[entryID] = entryPending
	return nil
}

// Submitted returns true if the entry was already accepted
func (r *customMetricRegistrar) Submitted(entryID string) bool {
	r.mut.Lock()
	defer r.mut.Unlock()

	return r.entries[strings.TrimSpace(entryID)] == entrySubmitted
}

// NumSubmitted returns the number of accepted entries
func (r *customMetricRegistrar) NumSubmitted() int {
	r.mut.Lock()
	defer r.mut.Unlock()

	counter := 0
	for _, state := range r.entries {
		if state == entrySubmitted {
			counter++
		}
	}

	return counter
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *customMetricRegistrar) IsInterfaceNil() bool {
	return r == nil
}
