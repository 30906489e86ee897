package api

import "errors"

// ErrNilDashboard signals a nil dashboard
var ErrNilDashboard = errors.New("nil dashboard")

// ErrNilEventSource signals a nil paint event source
var ErrNilEventSource = errors.New("nil event source")

// ErrNilHTTPHandler signals a nil general http handler
var ErrNilHTTPHandler = errors.New("nil http handler")

// ErrEmptyServiceKey signals an empty collaborator API key
var ErrEmptyServiceKey = errors.New("empty service key")

var errRecordingDisabled = errors.New("recording disabled")
