package sessionclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRequest = common.RegisterCustomMetricRequest{
	Mode:     "1A",
	PID:      "0C",
	Command:  "1A0C",
	Equation: "A*256+B",
	Unit:     "RPM",
	Name:     "Custom RPM",
}

func TestHTTPSessionClient_RegisterCustomMetric(t *testing.T) {
	t.Parallel()

	t.Run("should post the request", func(t *testing.T) {
		t.Parallel()

		var received common.RegisterCustomMetricRequest
		var receivedAuth string
		var receivedPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedAuth = r.Header.Get("X-Api-Key")
			receivedPath = r.URL.Path
			if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client := NewHTTPSessionClient(server.URL+"/api/", "secret123", 2*time.Second)
		assert.False(t, client.IsInterfaceNil())

		err := client.RegisterCustomMetric(context.Background(), testRequest)
		require.NoError(t, err)
		assert.Equal(t, "secret123", receivedAuth)
		assert.Equal(t, "/api/custom-metrics", receivedPath)
		assert.Equal(t, testRequest, received)
	})
	t.Run("non 2xx answer should error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := NewHTTPSessionClient(server.URL, "secret123", 2*time.Second)
		err := client.RegisterCustomMetric(context.Background(), testRequest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "409")
	})
	t.Run("unreachable session should error", func(t *testing.T) {
		t.Parallel()

		client := NewHTTPSessionClient("http://localhost:59999", "secret123", time.Second)
		err := client.RegisterCustomMetric(context.Background(), testRequest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "network error")
	})
	t.Run("missing endpoint should error", func(t *testing.T) {
		t.Parallel()

		client := NewHTTPSessionClient(" ", "secret123", time.Second)
		err := client.RegisterCustomMetric(context.Background(), testRequest)
		assert.Equal(t, ErrNoSessionEndpoint, err)
	})
}

func TestHTTPSessionClient_SessionCommands(t *testing.T) {
	t.Parallel()

	t.Run("unit preferences are posted as JSON", func(t *testing.T) {
		t.Parallel()

		var received common.UnitPreferences
		var receivedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedPath = r.URL.Path
			if r.Header.Get("X-Api-Key") != "secret123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		preferences := common.DefaultUnitPreferences()
		preferences.Speed = "mph"

		client := NewHTTPSessionClient(server.URL, "secret123", 2*time.Second)
		require.NoError(t, client.SetUnitPreferences(context.Background(), preferences))
		assert.Equal(t, "/unit-preferences", receivedPath)
		assert.Equal(t, preferences, received)
	})
	t.Run("clear trouble codes posts an empty body", func(t *testing.T) {
		t.Parallel()

		var receivedPath string
		var receivedLength int64 = -1
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			receivedPath = r.URL.Path
			receivedLength = r.ContentLength
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewHTTPSessionClient(server.URL, "secret123", 2*time.Second)
		require.NoError(t, client.ClearTroubleCodes(context.Background()))
		assert.Equal(t, "/trouble-codes/clear", receivedPath)
		assert.Equal(t, int64(0), receivedLength)
	})
	t.Run("rejected clear should error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewHTTPSessionClient(server.URL, "secret123", 2*time.Second)
		err := client.ClearTroubleCodes(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "clear trouble codes")
		assert.Contains(t, err.Error(), "503")
	})
	t.Run("missing endpoint should error", func(t *testing.T) {
		t.Parallel()

		client := NewHTTPSessionClient("", "secret123", time.Second)
		assert.Equal(t, ErrNoSessionEndpoint, client.SetUnitPreferences(context.Background(), common.DefaultUnitPreferences()))
		assert.Equal(t, ErrNoSessionEndpoint, client.ClearTroubleCodes(context.Background()))
	})
}
