package replay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("replay")

// ErrNilReadingSource signals a nil reading source
var ErrNilReadingSource = errors.New("nil reading source")

// ErrNilReplaySink signals a nil replay sink
var ErrNilReplaySink = errors.New("nil replay sink")

// ErrReplayInProgress signals a replay started while another one runs
var ErrReplayInProgress = errors.New("replay in progress")

// replayer feeds recorded readings back into the engine, keeping their original spacing scaled by a speed factor
type replayer struct {
	source ReadingSource
	sink   ReplaySink
	sleep  func(ctx context.Context, duration time.Duration) error

	mutRun sync.Mutex
	cancel func()
	done   chan struct{}
}

// NewReplayer creates a new replayer instance
func NewReplayer(source ReadingSource, sink ReplaySink) (*replayer, error) {
	if check.IfNil(source) {
		return nil, ErrNilReadingSource
	}
	if check.IfNil(sink) {
		return nil, ErrNilReplaySink
	}

	return &replayer{
		source: source,
		sink:   sink,
		sleep:  sleepWithContext,
	}, nil
}

func sleepWithContext(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Replay synchronously replays every reading recorded at or after since (unix millis).
// Readings sharing a timestamp are applied as one batch. A non-positive speed disables pacing.
// Returns the number of replayed readings.
func (r *replayer) Replay(ctx context.Context, since int64, speed float64) (int, error) {
	readings, err := r.source.GetReadings(ctx, since, 0)
	if err != nil {
		return 0, err
	}

	log.Debug("replay started", "since", since, "speed", speed, "readings", len(readings))

	numReplayed := 0
	for start := 0; start < len(readings); {
		end := start + 1
		for end < len(readings) && readings[end].RecordedAt == readings[start].RecordedAt {
			end++
		}

		if start > 0 && speed > 0 {
			gap := time.Duration(readings[start].RecordedAt-readings[start-1].RecordedAt) * time.Millisecond
			err = r.sleep(ctx, time.Duration(float64(gap)/speed))
			if err != nil {
				return numReplayed, err
			}
		}

		batch := make([]common.MetricReading, 0, end-start)
		for _, recorded := range readings[start:end] {
			batch = append(batch, recorded.MetricReading)
		}

		err = r.sink.ReplayReadings(batch)
		if err != nil {
			log.Warn("some replayed readings were not applied", "error", err)
		}
		numReplayed += len(batch)
		start = end
	}

	log.Debug("replay finished", "readings", numReplayed)

	return numReplayed, nil
}

// Start launches a replay in background. Only one replay may run at a time.
func (r *replayer) Start(since int64, speed float64) error {
	r.mutRun.Lock()
	defer r.mutRun.Unlock()

	if r.done != nil {
		select {
		case <-r.done:
		default:
			return ErrReplayInProgress
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done

	go func() {
		defer close(done)
		defer cancel()

		_, err := r.Replay(ctx, since, speed)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("replay failed", "error", err)
		}
	}()

	return nil
}

// IsRunning returns true while a background replay runs
func (r *replayer) IsRunning() bool {
	r.mutRun.Lock()
	defer r.mutRun.Unlock()

	if r.done == nil {
		return false
	}

	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

// Close stops the background replay, if any, and waits for it
func (r *replayer) Close() error {
	r.mutRun.Lock()
	defer r.mutRun.Unlock()

	if r.cancel == nil {
		return nil
	}

	r.cancel()
	<-r.done

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *replayer) IsInterfaceNil() bool {
	return r == nil
}
