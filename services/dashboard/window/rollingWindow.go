package window

import (
	"errors"

	"github.com/eapache/queue"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// ErrInvalidCapacity signals a non-positive rolling window capacity
var ErrInvalidCapacity = errors.New("invalid rolling window capacity")

// rollingWindow is a bounded FIFO of samples. The oldest sample is evicted when the capacity is exceeded.
type rollingWindow struct {
	capacity int
	samples  *queue.Queue
}

// NewRollingWindow creates an empty rolling window holding at most capacity samples
func NewRollingWindow(capacity int) (*rollingWindow, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	return &rollingWindow{
		capacity: capacity,
		samples:  queue.New(),
	}, nil
}

// Append adds the sample as the newest entry
func (w *rollingWindow) Append(sample common.Sample) {
	w.samples.Add(copySample(sample))
	for w.samples.Length() > w.capacity {
		w.samples.Remove()
	}
}

// Samples returns a copy of the samples in arrival order
func (w *rollingWindow) Samples() []common.Sample {
	result := make([]common.Sample, 0, w.samples.Length())
	for i := 0; i < w.samples.Length(); i++ {
		result = append(result, copySample(w.samples.Get(i).(common.Sample)))
	}

	return result
}

// Len returns the number of samples held
func (w *rollingWindow) Len() int {
	return w.samples.Length()
}

// Capacity returns the maximum number of samples held
func (w *rollingWindow) Capacity() int {
	return w.capacity
}

// Reset empties the window
func (w *rollingWindow) Reset() {
	w.samples = queue.New()
}

func copySample(sample common.Sample) common.Sample {
	if sample.Value == nil {
		return sample
	}

	value := *sample.Value
	return common.Sample{
		Label: sample.Label,
		Value: &value,
	}
}
