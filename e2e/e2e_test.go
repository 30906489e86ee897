package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/factory"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/stretchr/testify/require"
)

var log = logger.GetOrCreate("e2e-test")

const (
	serviceKey = "test-service-key"
	sessionKey = "test-session-key"
)

type dashboardClient struct {
	t       *testing.T
	baseURL string
	token   string
}

func (dc *dashboardClient) do(method string, path string, body interface{}, withServiceKey bool) (int, []byte) {
	var reader io.Reader
	if body != nil {
		buff, err := json.Marshal(body)
		require.NoError(dc.t, err)
		reader = bytes.NewBuffer(buff)
	}

	req, err := http.NewRequest(method, dc.baseURL+path, reader)
	require.NoError(dc.t, err)
	if withServiceKey {
		req.Header.Set("X-Api-Key", serviceKey)
	} else if dc.token != "" {
		req.Header.Set("Authorization", "Bearer "+dc.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(dc.t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(dc.t, err)

	return resp.StatusCode, data
}

func (dc *dashboardClient) cards() []common.CardView {
	code, data := dc.do(http.MethodGet, "/api/cards", nil, false)
	require.Equal(dc.t, http.StatusOK, code)

	var resp struct {
		Cards []common.CardView `json:"cards"`
	}
	require.NoError(dc.t, json.Unmarshal(data, &resp))

	return resp.Cards
}

func (dc *dashboardClient) graph(target string) (common.GraphView, bool) {
	code, data := dc.do(http.MethodGet, "/api/graphs/"+target, nil, false)
	if code != http.StatusOK {
		return common.GraphView{}, false
	}

	var graph common.GraphView
	require.NoError(dc.t, json.Unmarshal(data, &graph))

	return graph, true
}

func findCard(cards []common.CardView, title string) (common.CardView, bool) {
	for _, card := range cards {
		if card.Title == title {
			return card, true
		}
	}

	return common.CardView{}, false
}

func TestE2EFlow(t *testing.T) {
	log.Info("======== 1. Start a mock diagnostic live feed")
	var rpm atomic.Int64
	rpm.Store(800)
	liveFeed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		value := rpm.Add(10)
		_, _ = fmt.Fprintf(w, `{"engine":{"rpm":{"value":%d,"unit":"rpm"},"load":{"value":"N/A","unit":"N/A"}}}`, value)
	}))
	defer liveFeed.Close()

	log.Info("======== 2. Start a mock diagnostic session receiving the user commands")
	mutRegistered := sync.Mutex{}
	registered := make([]common.RegisterCustomMetricRequest, 0)
	var numClears atomic.Int32
	var speedUnit atomic.Value
	sessionServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != sessionKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch r.URL.Path {
		case "/api/custom-metrics":
			var request common.RegisterCustomMetricRequest
			err := json.NewDecoder(r.Body).Decode(&request)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			mutRegistered.Lock()
			registered = append(registered, request)
			mutRegistered.Unlock()
		case "/api/trouble-codes/clear":
			numClears.Add(1)
		case "/api/unit-preferences":
			var preferences common.UnitPreferences
			err := json.NewDecoder(r.Body).Decode(&preferences)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			speedUnit.Store(preferences.Speed)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer sessionServer.Close()

	log.Info("======== 3. Start the dashboard via componentsHandler")
	cfg := config.Config{
		ListenAddress:          "127.0.0.1:0",
		SampleIntervalInMillis: 100,
		WindowCapacity:         4,
		GraphTargets:           []string{"graph-1", "graph-2"},
		SessionEndpoint:        sessionServer.URL + "/api",
		QueryIntervalInSeconds: 1,
		Sources: []config.SourceConfig{
			{
				Name:      "Engine Speed",
				URL:       liveFeed.URL,
				ValuePath: "engine.rpm.value",
				UnitPath:  "engine.rpm.unit",
			},
			{
				Name:      "Engine Load",
				URL:       liveFeed.URL,
				ValuePath: "engine.load.value",
				UnitPath:  "engine.load.unit",
			},
		},
		Recording: config.RecordingConfig{
			Enabled:          true,
			DBPath:           filepath.Join(t.TempDir(), "e2e_readings.db"),
			RetentionSeconds: 3600,
		},
	}
	cfg.ApplyDefaults()

	components, err := factory.NewComponentsHandler(factory.ArgsComponentsHandler{
		ServiceKeyApi: serviceKey,
		SessionKeyApi: sessionKey,
		AuthUsername:  "admin",
		AuthPassword:  "password",
		Config:        cfg,
	})
	require.NoError(t, err)

	require.NoError(t, components.Start())
	defer components.Close()

	client := &dashboardClient{
		t:       t,
		baseURL: "http://" + components.GetServer().Address(),
	}

	log.Info("======== 4. Login to get JWT")
	code, data := client.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "password",
	}, false)
	require.Equal(t, http.StatusOK, code)

	var loginData struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(data, &loginData))
	require.NotEmpty(t, loginData.Token)
	client.token = loginData.Token

	log.Info("======== 5. Wait for the polled readings to create the cards")
	require.Eventually(t, func() bool {
		cards := client.cards()
		_, hasSpeed := findCard(cards, "Engine Speed")
		_, hasLoad := findCard(cards, "Engine Load")
		return hasSpeed && hasLoad
	}, 5*time.Second, 50*time.Millisecond)

	load, _ := findCard(client.cards(), "Engine Load")
	require.Equal(t, common.NotAvailableText, load.DisplayedValue)

	log.Info("======== 6. Push a reading as the diagnostic session collaborator")
	code, _ = client.do(http.MethodPost, "/api/readings", map[string]interface{}{
		"readings": []common.MetricReading{{Name: "Coolant Temp", Value: 88, Unit: "C"}},
	}, true)
	require.Equal(t, http.StatusOK, code)

	coolant, found := findCard(client.cards(), "Coolant Temp")
	require.True(t, found)
	require.Equal(t, "88", coolant.DisplayedValue)
	require.Equal(t, "C", coolant.DisplayedUnit)

	log.Info("======== 7. Track the engine speed on graph-1 and wait for the samples")
	code, _ = client.do(http.MethodPost, "/api/graphs/graph-1/track", map[string]string{
		"metric": "Engine Speed",
		"unit":   "rpm",
	}, false)
	require.Equal(t, http.StatusOK, code)

	require.Eventually(t, func() bool {
		graph, ok := client.graph("graph-1")
		return ok && len(graph.Samples) >= 2 && graph.Samples[len(graph.Samples)-1].Value != nil
	}, 10*time.Second, 100*time.Millisecond)

	graph, _ := client.graph("graph-1")
	require.LessOrEqual(t, len(graph.Samples), cfg.WindowCapacity)
	require.Equal(t, "Engine Speed", graph.Metric)

	log.Info("======== 8. Register a custom metric once")
	definition := map[string]string{
		"entryId":  "entry-1",
		"mode":     "$01",
		"pid":      "0c",
		"equation": "(A*256+B)/4",
		"unit":     "rpm",
		"name":     "Custom RPM",
	}
	code, _ = client.do(http.MethodPost, "/api/custom-metrics", definition, false)
	require.Equal(t, http.StatusOK, code)
	code, _ = client.do(http.MethodPost, "/api/custom-metrics", definition, false)
	require.Equal(t, http.StatusConflict, code)

	mutRegistered.Lock()
	require.Len(t, registered, 1)
	require.Equal(t, "010C", registered[0].Command)
	require.Equal(t, "Custom RPM", registered[0].Name)
	mutRegistered.Unlock()

	log.Info("======== 9. Fetch the recorded history")
	code, data = client.do(http.MethodGet, "/api/metrics/Engine%20Speed/history?limit=10", nil, false)
	require.Equal(t, http.StatusOK, code)

	var history struct {
		Readings []common.RecordedReading `json:"readings"`
	}
	require.NoError(t, json.Unmarshal(data, &history))
	require.NotEmpty(t, history.Readings)
	require.Equal(t, "rpm", history.Readings[0].Unit)

	log.Info("======== 10. Check the exported collectors")
	resp, err := http.Get(client.baseURL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Contains(t, string(body), "obd_dashboard_readings_applied_total")

	log.Info("======== 11. The diagnostic session reports the vehicle and its trouble codes")
	code, _ = client.do(http.MethodPost, "/api/session/connection", common.ConnectionStatus{Connected: true, SerialPort: "/dev/ttyUSB0"}, true)
	require.Equal(t, http.StatusOK, code)
	code, _ = client.do(http.MethodPost, "/api/session/vehicle", common.VehicleDetails{VIN: "1HGCM82633A004352", Make: "Honda", Model: "Accord"}, true)
	require.Equal(t, http.StatusOK, code)
	code, _ = client.do(http.MethodPost, "/api/session/trouble-codes", map[string]interface{}{
		"troubleCodes": []common.TroubleCode{
			{Name: "P0301", Category: "P", Description: "Cylinder 1 misfire detected"},
			{Name: "P0420", Category: "P", Description: "Catalyst efficiency below threshold", Permanent: true},
		},
	}, true)
	require.Equal(t, http.StatusOK, code)

	log.Info("======== 12. Clear the trouble codes and switch to imperial speed")
	code, _ = client.do(http.MethodPost, "/api/session/trouble-codes/clear", nil, false)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int32(1), numClears.Load())

	code, _ = client.do(http.MethodPost, "/api/session/unit-preferences", common.UnitPreferences{Speed: "mph"}, false)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "mph", speedUnit.Load())

	code, data = client.do(http.MethodGet, "/api/session", nil, false)
	require.Equal(t, http.StatusOK, code)
	var snapshot common.SessionSnapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	require.NotNil(t, snapshot.Vehicle)
	require.Equal(t, "Honda", snapshot.Vehicle.Make)
	require.Len(t, snapshot.TroubleCodes, 1)
	require.Equal(t, "P0420", snapshot.TroubleCodes[0].Name)
	require.Equal(t, "mph", snapshot.UnitPreferences.Speed)

	log.Info("======== 13. A lost connection tears down the graphs")
	code, _ = client.do(http.MethodPost, "/api/session/connection", common.ConnectionStatus{Connected: false, Message: "adapter unplugged"}, true)
	require.Equal(t, http.StatusOK, code)

	_, found = client.graph("graph-1")
	require.False(t, found)

	code, data = client.do(http.MethodGet, "/api/session", nil, false)
	require.Equal(t, http.StatusOK, code)
	snapshot = common.SessionSnapshot{}
	require.NoError(t, json.Unmarshal(data, &snapshot))
	require.Nil(t, snapshot.Vehicle)
	require.Empty(t, snapshot.TroubleCodes)
	require.Equal(t, "mph", snapshot.UnitPreferences.Speed)
}
