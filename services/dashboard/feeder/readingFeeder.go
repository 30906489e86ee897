package feeder

import (
	"context"
	"errors"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("feeder")

const pollTimeout = 30 * time.Second

// readingFeeder polls the HTTP reading sources and applies the readings into the engine
type readingFeeder struct {
	sources []config.SourceConfig
	poller  Poller
	sink    ReadingSink
}

// NewReadingFeeder creates a new feeder instance
func NewReadingFeeder(sources []config.SourceConfig, p Poller, sink ReadingSink) (*readingFeeder, error) {
	if check.IfNil(p) {
		return nil, errors.New("nil poller")
	}
	if check.IfNil(sink) {
		return nil, errors.New("nil reading sink")
	}

	return &readingFeeder{
		sources: sources,
		poller:  p,
		sink:    sink,
	}, nil
}

// Process polls every source and applies the readings in source order
func (f *readingFeeder) Process(ctx context.Context) {
	if len(f.sources) == 0 {
		return
	}

	log.Trace("waking up to poll sources", "count", len(f.sources))

	pollCtx, cancelPoll := context.WithTimeout(ctx, pollTimeout)
	defer cancelPoll()
	readings := f.poller.PollAll(pollCtx, f.sources)

	log.Trace("finished polling", "readings", len(readings))
	if len(readings) == 0 {
		return
	}

	err := f.sink.ApplyReadings(readings)
	if err != nil {
		log.Warn("some polled readings were not applied", "error", err)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (f *readingFeeder) IsInterfaceNil() bool {
	return f == nil
}
