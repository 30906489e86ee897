package tracker

import "errors"

// ErrNoTargets signals an empty graph target set
var ErrNoTargets = errors.New("no graph targets")

// ErrDuplicateTarget signals a graph target defined twice
var ErrDuplicateTarget = errors.New("duplicate graph target")

// ErrUnknownTarget signals a graph target outside the fixed set established at startup
var ErrUnknownTarget = errors.New("unknown graph target")

// ErrEmptyMetricName signals a track request without a metric
var ErrEmptyMetricName = errors.New("empty metric name")

// ErrNilUpdateSource signals a nil metric update source
var ErrNilUpdateSource = errors.New("nil update source")

// ErrNilTickSource signals a nil sample clock
var ErrNilTickSource = errors.New("nil tick source")

// ErrNilRenderer signals a nil graph renderer
var ErrNilRenderer = errors.New("nil graph renderer")

// ErrNilTimeProvider signals a nil time provider
var ErrNilTimeProvider = errors.New("nil time provider")
