package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/bus"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/registrar"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/replay"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/testsCommon"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/tracker"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/widgets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStubArgs() ArgsWebServer {
	return ArgsWebServer{
		ServiceKeyApi:  testServiceKey,
		AuthUsername:   testUsername,
		AuthPassword:   testPassword,
		ListenAddress:  "127.0.0.1:0",
		Dashboard:      &testsCommon.DashboardStub{},
		Events:         &testsCommon.EventSourceStub{},
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	t.Run("nil dashboard should error", func(t *testing.T) {
		t.Parallel()

		args := createStubArgs()
		args.Dashboard = nil
		serv, err := NewServer(args)
		assert.Nil(t, serv)
		assert.Equal(t, ErrNilDashboard, err)
	})
	t.Run("nil event source should error", func(t *testing.T) {
		t.Parallel()

		args := createStubArgs()
		args.Events = nil
		serv, err := NewServer(args)
		assert.Nil(t, serv)
		assert.Equal(t, ErrNilEventSource, err)
	})
	t.Run("nil general handler should error", func(t *testing.T) {
		t.Parallel()

		args := createStubArgs()
		args.GeneralHandler = nil
		serv, err := NewServer(args)
		assert.Nil(t, serv)
		assert.Equal(t, ErrNilHTTPHandler, err)
	})
	t.Run("empty service key should error", func(t *testing.T) {
		t.Parallel()

		args := createStubArgs()
		args.ServiceKeyApi = ""
		serv, err := NewServer(args)
		assert.Nil(t, serv)
		assert.Equal(t, ErrEmptyServiceKey, err)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		serv, err := NewServer(createStubArgs())
		assert.Nil(t, err)
		assert.False(t, serv.IsInterfaceNil())
	})
}

func TestServer_StartAndClose(t *testing.T) {
	t.Parallel()

	serv, err := NewServer(createStubArgs())
	require.NoError(t, err)

	err = serv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", serv.Address())

	resp, err := http.Post("http://"+serv.Address()+"/api/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"password"}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	err = serv.Close()
	require.NoError(t, err)
}

func TestServer_StartOnBusyAddressShouldError(t *testing.T) {
	t.Parallel()

	first, err := NewServer(createStubArgs())
	require.NoError(t, err)
	require.NoError(t, first.Start())
	defer func() {
		_ = first.Close()
	}()

	args := createStubArgs()
	args.ListenAddress = first.Address()
	second, err := NewServer(args)
	require.NoError(t, err)
	assert.Error(t, second.Start())
}

func TestAuthJWT_Errors(t *testing.T) {
	t.Parallel()

	serv, err := NewServer(createStubArgs())
	require.NoError(t, err)
	token := getValidToken(t, serv)
	parts := strings.Split(token, ".")

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing bearer", header: token},
		{name: "two parts", header: "Bearer " + parts[0] + "." + parts[1]},
		{name: "undecodable signature", header: "Bearer " + parts[0] + "." + parts[1] + ".%%%"},
		{name: "wrong signature", header: "Bearer " + parts[0] + "." + parts[1] + ".c2lnbmF0dXJl"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/api/cards", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			serv.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		args := createStubArgs()
		expiring, errNew := NewServer(args)
		require.NoError(t, errNew)

		oldToken := getValidToken(t, expiring)
		expiring.timeProvider = func() time.Time {
			return time.Now().Add(tokenLifetime + time.Minute)
		}

		w := doRequest(expiring, http.MethodGet, "/api/cards", "", oldToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "token expired")
	})
	t.Run("token from another process", func(t *testing.T) {
		other, errNew := NewServer(createStubArgs())
		require.NoError(t, errNew)

		w := doRequest(other, http.MethodGet, "/api/cards", "", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandlers_BadPayloads(t *testing.T) {
	t.Parallel()

	serv, err := NewServer(createStubArgs())
	require.NoError(t, err)
	token := getValidToken(t, serv)

	w := doRequest(serv, http.MethodPost, "/api/auth/login", "not json", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, url := range []string{"/api/readings", "/api/session/connection"} {
		req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBufferString("not json"))
		req.Header.Set("X-Api-Key", testServiceKey)
		w = httptest.NewRecorder()
		serv.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}

	req, _ := http.NewRequest(http.MethodPost, "/api/readings", bytes.NewBufferString(`{"readings":[]}`))
	req.Header.Set("X-Api-Key", testServiceKey)
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no readings")

	for _, url := range []string{
		"/api/cards/rpm/freeze",
		"/api/view/pause",
		"/api/graphs/graph-1/track",
		"/api/custom-metrics/validate",
		"/api/custom-metrics",
	} {
		w = doRequest(serv, http.MethodPost, url, "not json", token)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestHandlers_DashboardErrors(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("expected error")
	args := createStubArgs()
	args.Dashboard = &testsCommon.DashboardStub{
		ApplyReadingsHandler: func(readings []common.MetricReading) error {
			return expectedErr
		},
		SetFrozenHandler: func(name string, frozen bool) (common.CardView, error) {
			return common.CardView{}, expectedErr
		},
		ToggleExpandedHandler: func(name string) (common.CardView, error) {
			return common.CardView{}, widgets.ErrCardNotFound
		},
		TrackHandler: func(target string, metric string, unit string) (common.GraphView, error) {
			return common.GraphView{}, expectedErr
		},
		UntrackHandler: func(target string) error {
			return tracker.ErrUnknownTarget
		},
		SubmitCustomMetricHandler: func(ctx context.Context, entryID string, def common.CustomMetricDefinition) (common.RegisterCustomMetricRequest, error) {
			switch entryID {
			case "":
				return common.RegisterCustomMetricRequest{}, registrar.ErrEmptyEntryID
			case "racing":
				return common.RegisterCustomMetricRequest{}, registrar.ErrSubmissionInProgress
			default:
				return common.RegisterCustomMetricRequest{}, expectedErr
			}
		},
	}
	serv, err := NewServer(args)
	require.NoError(t, err)
	token := getValidToken(t, serv)

	// skipped readings are only logged
	req, _ := http.NewRequest(http.MethodPost, "/api/readings", bytes.NewBufferString(`{"readings":[{"name":"","value":1,"unit":"V"}]}`))
	req.Header.Set("X-Api-Key", testServiceKey)
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/cards/rpm/freeze", `{"frozen":true}`, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/cards/rpm/expand", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/graphs/graph-1/track", `{"metric":"rpm"}`, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(serv, http.MethodDelete, "/api/graphs/graph-9", "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/custom-metrics", `{"entryId":""}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/custom-metrics", `{"entryId":"racing"}`, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/custom-metrics", `{"entryId":"entry-1"}`, token)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandlers_RecordingEndpoints(t *testing.T) {
	t.Parallel()

	var requestedLimit int
	running := false
	args := createStubArgs()
	args.History = &testsCommon.ReadingHistoryStub{
		GetReadingHistoryHandler: func(ctx context.Context, name string, limit int) ([]common.RecordedReading, error) {
			requestedLimit = limit
			if name == "broken" {
				return nil, errors.New("db error")
			}

			return []common.RecordedReading{
				{MetricReading: common.MetricReading{Name: name, Value: 12.5, Unit: "V"}, RecordedAt: 1000},
			}, nil
		},
	}
	args.Replayer = &testsCommon.ReplayerStub{
		StartHandler: func(since int64, speed float64) error {
			if running {
				return replay.ErrReplayInProgress
			}
			if speed < 0 {
				return errors.New("replay failed")
			}
			running = true
			return nil
		},
		IsRunningHandler: func() bool {
			return running
		},
	}
	serv, err := NewServer(args)
	require.NoError(t, err)
	token := getValidToken(t, serv)

	w := doRequest(serv, http.MethodGet, "/api/metrics/battery/history", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultHistoryLimit, requestedLimit)
	assert.Contains(t, w.Body.String(), `"name":"battery"`)
	assert.Contains(t, w.Body.String(), `"value":12.5`)

	w = doRequest(serv, http.MethodGet, "/api/metrics/battery/history?limit=5", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, requestedLimit)

	for _, limit := range []string{"abc", "0", "-1", "10001"} {
		w = doRequest(serv, http.MethodGet, "/api/metrics/battery/history?limit="+limit, "", token)
		assert.Equal(t, http.StatusBadRequest, w.Code, limit)
	}

	w = doRequest(serv, http.MethodGet, "/api/metrics/broken/history", "", token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/replay", `{"since":0,"speed":-1}`, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(serv, http.MethodGet, "/api/replay", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"running":false`)

	w = doRequest(serv, http.MethodPost, "/api/replay", `{"since":0,"speed":2}`, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/replay", `{"since":0,"speed":2}`, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(serv, http.MethodGet, "/api/replay", "", token)
	assert.Contains(t, w.Body.String(), `"running":true`)
}

func TestHandlers_PrometheusEndpoint(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "obd_dashboard",
		Name:      "test_total",
		Help:      "test counter",
	})
	registry.MustRegister(counter)
	counter.Add(3)

	args := createStubArgs()
	args.Gatherer = registry
	serv, err := NewServer(args)
	require.NoError(t, err)

	w := doRequest(serv, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "obd_dashboard_test_total 3")
}

func TestHandlers_Events(t *testing.T) {
	t.Parallel()

	events := make(chan common.PaintEvent)
	disposed := false
	args := createStubArgs()
	args.Dashboard = &testsCommon.DashboardStub{
		CardsHandler: func() []common.CardView {
			return []common.CardView{{Key: "rpm", Title: "rpm", DisplayedValue: "800"}}
		},
		SessionSnapshotHandler: func() common.SessionSnapshot {
			return common.SessionSnapshot{
				Vehicle:      &common.VehicleDetails{VIN: "WVWZZZ1JZXW000001"},
				TroubleCodes: []common.TroubleCode{{Name: "P0171"}},
			}
		},
	}
	args.Events = &testsCommon.EventSourceStub{
		SubscribeHandler: func() (<-chan common.PaintEvent, bus.Subscription) {
			return events, bus.NewSubscription(func() {
				disposed = true
			})
		},
	}
	serv, err := NewServer(args)
	require.NoError(t, err)
	token := getValidToken(t, serv)

	req, _ := http.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		serv.router.ServeHTTP(w, req)
	}()

	events <- common.PaintEvent{
		Kind:  common.PaintGraph,
		Graph: &common.GraphView{Target: "graph-1", Metric: "rpm"},
	}
	close(events)
	wg.Wait()

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "event:card")
	assert.Contains(t, body, `"displayedValue":"800"`)
	assert.Contains(t, body, "event:graph")
	assert.Contains(t, body, `"target":"graph-1"`)
	assert.Contains(t, body, "event:session")
	assert.Contains(t, body, `"vin":"WVWZZZ1JZXW000001"`)
	assert.Contains(t, body, `"name":"P0171"`)
	assert.True(t, disposed)
}

func TestHandlers_EventsEndOnClose(t *testing.T) {
	t.Parallel()

	serv, err := NewServer(createStubArgs())
	require.NoError(t, err)
	token := getValidToken(t, serv)

	req, _ := http.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		serv.router.ServeHTTP(w, req)
		close(done)
	}()

	require.NoError(t, serv.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "event stream did not end on close")
	}
}

func TestServer_StaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>dashboard</html>"), 0644))

	args := createStubArgs()
	args.StaticDir = dir
	serv, err := NewServer(args)
	require.NoError(t, err)

	w := doRequest(serv, http.MethodGet, "/graphs/graph-1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dashboard")

	w = doRequest(serv, http.MethodGet, "/api/unknown", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "api route not found")
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	numCalls := 0
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		numCalls++
	}))

	req, _ := http.NewRequest(http.MethodOptions, "/api/cards", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 0, numCalls)

	req, _ = http.NewRequest(http.MethodGet, "/api/cards", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Api-Key")
	assert.Equal(t, 1, numCalls)
}
