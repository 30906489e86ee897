package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	customMetricsPath     = "/custom-metrics"
	unitPreferencesPath   = "/unit-preferences"
	clearTroubleCodesPath = "/trouble-codes/clear"
)

var log = logger.GetOrCreate("sessionclient")

// ErrNoSessionEndpoint signals that no diagnostic session endpoint was configured
var ErrNoSessionEndpoint = errors.New("no diagnostic session endpoint configured")

type httpSessionClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPSessionClient creates a new client that pushes commands to the diagnostic session
func NewHTTPSessionClient(endpoint string, apiKey string, timeout time.Duration) *httpSessionClient {
	return &httpSessionClient{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// RegisterCustomMetric sends the request as JSON. Any non-2xx answer is an error.
func (c *httpSessionClient) RegisterCustomMetric(ctx context.Context, request common.RegisterCustomMetricRequest) error {
	err := c.post(ctx, customMetricsPath, "custom metric", request)
	if err != nil {
		return err
	}

	log.Debug("custom metric sent to the diagnostic session", "name", request.Name, "command", request.Command)

	return nil
}

// SetUnitPreferences asks the diagnostic session to convert its readings to the provided units
func (c *httpSessionClient) SetUnitPreferences(ctx context.Context, preferences common.UnitPreferences) error {
	err := c.post(ctx, unitPreferencesPath, "unit preferences", preferences)
	if err != nil {
		return err
	}

	log.Debug("unit preferences sent to the diagnostic session", "speed", preferences.Speed, "temperature", preferences.Temperature)

	return nil
}

// ClearTroubleCodes asks the diagnostic session to clear the stored trouble codes
func (c *httpSessionClient) ClearTroubleCodes(ctx context.Context) error {
	err := c.post(ctx, clearTroubleCodesPath, "clear trouble codes", nil)
	if err != nil {
		return err
	}

	log.Debug("clear trouble codes sent to the diagnostic session")

	return nil
}

func (c *httpSessionClient) post(ctx context.Context, path string, what string, payload interface{}) error {
	if len(c.endpoint) == 0 {
		return ErrNoSessionEndpoint
	}

	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", what, err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", what, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending %s request: %w", what, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("diagnostic session rejected %s with status code: %d", what, resp.StatusCode)
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *httpSessionClient) IsInterfaceNil() bool {
	return c == nil
}
