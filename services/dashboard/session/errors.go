package session

import "errors"

// ErrUnsupportedUnit signals a unit preference outside the units of its quantity
var ErrUnsupportedUnit = errors.New("unsupported unit")
