package factory

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/api"
)

// Engine defines the telemetry engine operations the components handler drives
type Engine interface {
	api.Dashboard
	Start()
	Close() error
}

// Server defines the operation of an entity able to serve requests
type Server interface {
	Start() error
	Address() string
	Close() error
	IsInterfaceNil() bool
}

// TerminalView defines the interactive terminal dashboard
type TerminalView interface {
	Run(ctx context.Context) error
	IsInterfaceNil() bool
}

// Feeder defines the periodic reading source
type Feeder interface {
	Process(ctx context.Context)
	IsInterfaceNil() bool
}

// Closer defines a component that releases resources
type Closer interface {
	Close() error
	IsInterfaceNil() bool
}
