package widgets

import "errors"

// ErrNilPublisher signals a nil metric update publisher
var ErrNilPublisher = errors.New("nil publisher")

// ErrNilSession signals a nil session context
var ErrNilSession = errors.New("nil session")

// ErrNilRenderer signals a nil card renderer
var ErrNilRenderer = errors.New("nil card renderer")

// ErrCardNotFound signals a card lookup miss
var ErrCardNotFound = errors.New("card not found")
