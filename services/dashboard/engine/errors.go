package engine

import "errors"

// ErrNilSessionContext signals a nil session context
var ErrNilSessionContext = errors.New("nil session context")

// ErrNilMetricStore signals a nil metric store
var ErrNilMetricStore = errors.New("nil metric store")

// ErrNilWidgetCache signals a nil widget cache
var ErrNilWidgetCache = errors.New("nil widget cache")

// ErrNilTrackerRegistry signals a nil graph tracker registry
var ErrNilTrackerRegistry = errors.New("nil tracker registry")

// ErrNilSampleClock signals a nil sample clock
var ErrNilSampleClock = errors.New("nil sample clock")

// ErrNilRegistrar signals a nil custom metric registrar
var ErrNilRegistrar = errors.New("nil custom metric registrar")

// ErrNilTimeProvider signals a nil time provider
var ErrNilTimeProvider = errors.New("nil time provider")

// ErrEmptyMetricName signals a reading without a name
var ErrEmptyMetricName = errors.New("empty metric name")

// ErrSessionCommandFailed signals that the diagnostic session did not accept a command
var ErrSessionCommandFailed = errors.New("diagnostic session command failed")
