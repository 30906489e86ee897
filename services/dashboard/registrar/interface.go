package registrar

import (
	"context"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// SessionClient forwards registration requests to the diagnostic session
type SessionClient interface {
	RegisterCustomMetric(ctx context.Context, request common.RegisterCustomMetricRequest) error
	IsInterfaceNil() bool
}
