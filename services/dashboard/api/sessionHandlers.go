package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/engine"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/session"
)

// TroubleCodesPayload is the JSON body posted on /api/session/trouble-codes
type TroubleCodesPayload struct {
	TroubleCodes []common.TroubleCode `json:"troubleCodes"`
}

// ReadinessTestsPayload is the JSON body posted on /api/session/readiness-tests
type ReadinessTestsPayload struct {
	Tests []common.ReadinessTest `json:"tests"`
}

// ParametersPayload is the JSON body posted on /api/session/parameters
type ParametersPayload struct {
	Parameters []common.ParameterInfo `json:"parameters"`
}

func (s *server) handleSetVehicle(c *gin.Context) {
	var details common.VehicleDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if len(strings.TrimSpace(details.VIN)) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty VIN"})
		return
	}

	s.dashboard.SetVehicleDetails(details)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *server) handleSetTroubleCodes(c *gin.Context) {
	var payload TroubleCodesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dashboard.SetTroubleCodes(payload.TroubleCodes)
	c.JSON(http.StatusOK, gin.H{"count": len(payload.TroubleCodes)})
}

func (s *server) handleSetReadinessTests(c *gin.Context) {
	var payload ReadinessTestsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dashboard.SetReadinessTests(payload.Tests)
	c.JSON(http.StatusOK, gin.H{"count": len(payload.Tests)})
}

func (s *server) handleSetParameters(c *gin.Context) {
	var payload ParametersPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	s.dashboard.SetParameters(payload.Parameters)
	c.JSON(http.StatusOK, gin.H{"count": len(payload.Parameters)})
}

func (s *server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.SessionSnapshot())
}

func (s *server) handleGetTroubleCodes(c *gin.Context) {
	codes := s.dashboard.SessionSnapshot().TroubleCodes
	c.JSON(http.StatusOK, gin.H{
		"count":        len(codes),
		"troubleCodes": codes,
	})
}

func (s *server) handleClearTroubleCodes(c *gin.Context) {
	numCleared, err := s.dashboard.ClearTroubleCodes(c.Request.Context())
	if err != nil {
		log.Warn("failed to clear trouble codes", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cleared":      numCleared,
		"troubleCodes": s.dashboard.SessionSnapshot().TroubleCodes,
	})
}

func (s *server) handleGetReadinessTests(c *gin.Context) {
	tests := s.dashboard.SessionSnapshot().ReadinessTests
	c.JSON(http.StatusOK, gin.H{
		"count": len(tests),
		"tests": tests,
	})
}

func (s *server) handleGetParameters(c *gin.Context) {
	parameters := s.dashboard.SessionSnapshot().Parameters
	numSupported := 0
	for _, parameter := range parameters {
		if parameter.Supported {
			numSupported++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(parameters),
		"supported":  numSupported,
		"parameters": parameters,
	})
}

func (s *server) handleGetUnitPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.UnitPreferences())
}

func (s *server) handleSetUnitPreferences(c *gin.Context) {
	var preferences common.UnitPreferences
	if err := c.ShouldBindJSON(&preferences); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	stored, err := s.dashboard.SetUnitPreferences(c.Request.Context(), preferences)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, stored)
	case errors.Is(err, session.ErrUnsupportedUnit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrSessionCommandFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
