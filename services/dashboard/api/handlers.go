package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/registrar"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/replay"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/tracker"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/widgets"
)

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 10000
)

// ReadingsPayload is the JSON body posted on /api/readings
type ReadingsPayload struct {
	Readings []common.MetricReading `json:"readings"`
}

// TrackPayload is the JSON body posted on /api/graphs/:target/track
type TrackPayload struct {
	Metric string `json:"metric"`
	Unit   string `json:"unit"`
}

// CustomMetricPayload is the JSON body posted on /api/custom-metrics
type CustomMetricPayload struct {
	EntryID string `json:"entryId"`
	common.CustomMetricDefinition
}

// ReplayPayload is the JSON body posted on /api/replay
type ReplayPayload struct {
	Since int64   `json:"since"`
	Speed float64 `json:"speed"`
}

func (s *server) handleReadings(c *gin.Context) {
	var payload ReadingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(payload.Readings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no readings"})
		return
	}

	log.Trace("received readings", "sender", c.Request.RemoteAddr, "num readings", len(payload.Readings))

	// nameless readings are skipped, the rest were applied
	err := s.dashboard.ApplyReadings(payload.Readings)
	if err != nil {
		log.Debug("some readings were skipped", "sender", c.Request.RemoteAddr, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleSetConnection(c *gin.Context) {
	var status common.ConnectionStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dashboard.SetConnectionStatus(status)
	c.JSON(http.StatusOK, s.dashboard.ConnectionStatus())
}

func (s *server) handleGetConnection(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.ConnectionStatus())
}

func (s *server) handleGetCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"paused": s.dashboard.Paused(),
		"cards":  s.dashboard.Cards(),
	})
}

func (s *server) handleClearCards(c *gin.Context) {
	s.dashboard.ClearView()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleFreezeCard(c *gin.Context) {
	var req struct {
		Frozen bool `json:"frozen"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	card, err := s.dashboard.SetFrozen(c.Param("name"), req.Frozen)
	if err != nil {
		writeCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func (s *server) handleExpandCard(c *gin.Context) {
	card, err := s.dashboard.ToggleExpanded(c.Param("name"))
	if err != nil {
		writeCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func writeCardError(c *gin.Context, err error) {
	if errors.Is(err, widgets.ErrCardNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *server) handlePause(c *gin.Context) {
	var req struct {
		Paused bool `json:"paused"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dashboard.SetPaused(req.Paused)
	c.JSON(http.StatusOK, gin.H{"paused": s.dashboard.Paused()})
}

func (s *server) handleGetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": s.dashboard.Metrics()})
}

func (s *server) handleGetMetricHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errRecordingDisabled.Error()})
		return
	}

	limit := defaultHistoryLimit
	rawLimit := c.Query("limit")
	if rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 || parsed > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	name := c.Param("name")
	readings, err := s.history.GetReadingHistory(c.Request.Context(), name, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":     name,
		"readings": readings,
	})
}

func (s *server) handleGetGraphs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"targets": s.dashboard.Targets(),
		"graphs":  s.dashboard.Graphs(),
	})
}

func (s *server) handleGetGraph(c *gin.Context) {
	graph, found := s.dashboard.Graph(c.Param("target"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "graph not tracked"})
		return
	}

	c.JSON(http.StatusOK, graph)
}

func (s *server) handleTrack(c *gin.Context) {
	var req TrackPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	graph, err := s.dashboard.Track(c.Param("target"), req.Metric, req.Unit)
	if err != nil {
		writeGraphError(c, err)
		return
	}

	c.JSON(http.StatusOK, graph)
}

func (s *server) handleUntrack(c *gin.Context) {
	err := s.dashboard.Untrack(c.Param("target"))
	if err != nil {
		writeGraphError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeGraphError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnknownTarget):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tracker.ErrEmptyMetricName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *server) handleValidateCustomMetric(c *gin.Context) {
	var def common.CustomMetricDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := s.dashboard.ValidateCustomMetric(def)
	if err != nil {
		writeCustomMetricError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (s *server) handleSubmitCustomMetric(c *gin.Context) {
	var req CustomMetricPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	registered, err := s.dashboard.SubmitCustomMetric(c.Request.Context(), req.EntryID, req.CustomMetricDefinition)
	if err != nil {
		writeCustomMetricError(c, err)
		return
	}

	c.JSON(http.StatusOK, registered)
}

func writeCustomMetricError(c *gin.Context, err error) {
	var validationErr *registrar.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"valid":    false,
			"error":    err.Error(),
			"failures": validationErr.Failures,
		})
	case errors.Is(err, registrar.ErrEmptyEntryID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, registrar.ErrAlreadySubmitted), errors.Is(err, registrar.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func (s *server) handleGetReplay(c *gin.Context) {
	if s.replayer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errRecordingDisabled.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"running": s.replayer.IsRunning()})
}

func (s *server) handleStartReplay(c *gin.Context) {
	if s.replayer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errRecordingDisabled.Error()})
		return
	}

	var req ReplayPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := s.replayer.Start(req.Since, req.Speed)
	if err != nil {
		if errors.Is(err, replay.ErrReplayInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"running": true})
}
