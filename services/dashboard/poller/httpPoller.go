package poller

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

var log = logger.GetOrCreate("poller")

type httpPoller struct {
	client *http.Client
}

// NewHTTPPoller creates a new HTTP-based reading poller with a default timeout
func NewHTTPPoller(timeout time.Duration) *httpPoller {
	return &httpPoller{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PollAll fetches every distinct source URL concurrently, once, and extracts one reading per source.
// Sources whose URL could not be fetched are omitted. A missing or non-numeric value yields a no data reading.
// The readings keep the order of the sources.
func (p *httpPoller) PollAll(ctx context.Context, sources []config.SourceConfig) []common.MetricReading {
	byURL := make(map[string][]int)
	for idx, source := range sources {
		byURL[source.URL] = append(byURL[source.URL], idx)
	}

	readings := make([]*common.MetricReading, len(sources))
	var wg sync.WaitGroup

	wg.Add(len(byURL))
	for url, indexes := range byURL {
		go func(url string, indexes []int) {
			defer wg.Done()

			body, err := p.fetch(ctx, url)
			if err != nil {
				log.Warn("source poll failed", "url", url, "sources", len(indexes), "error", err)
				return
			}

			for _, idx := range indexes {
				reading := extractReading(body, sources[idx])
				readings[idx] = &reading
			}
		}(url, indexes)
	}
	wg.Wait()

	results := make([]common.MetricReading, 0, len(sources))
	for _, reading := range readings {
		if reading != nil {
			results = append(results, *reading)
		}
	}

	return results
}

func (p *httpPoller) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func extractReading(body []byte, source config.SourceConfig) common.MetricReading {
	noData := common.MetricReading{
		Name: source.Name,
		Unit: common.NoDataUnit,
	}

	result := gjson.GetBytes(body, source.ValuePath)
	if !result.Exists() {
		log.Debug("value path not found", "source", source.Name, "path", source.ValuePath)
		return noData
	}

	var value float64
	switch result.Type {
	case gjson.Number:
		value = result.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(result.Str), 64)
		if err != nil {
			return noData
		}
		value = parsed
	default:
		return noData
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		log.Debug("non-finite value treated as no data", "source", source.Name, "value", result.Raw)
		return noData
	}

	unit := source.Unit
	if len(source.UnitPath) > 0 {
		unitResult := gjson.GetBytes(body, source.UnitPath)
		if unitResult.Exists() {
			unit = unitResult.String()
		}
	}
	if common.IsNoData(unit) {
		return noData
	}

	return common.MetricReading{
		Name:  source.Name,
		Value: value,
		Unit:  unit,
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpPoller) IsInterfaceNil() bool {
	return p == nil
}
