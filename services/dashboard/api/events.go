package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
)

// handleEvents streams the paint events as server-sent events. The current cards, graphs and session state are sent first.
func (s *server) handleEvents(c *gin.Context) {
	events, sub := s.events.Subscribe()
	defer sub.Dispose()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for _, card := range s.dashboard.Cards() {
		cardCopy := card
		writeEvent(c, common.PaintEvent{Kind: common.PaintCard, Card: &cardCopy})
	}
	for _, graph := range s.dashboard.Graphs() {
		graphCopy := graph
		writeEvent(c, common.PaintEvent{Kind: common.PaintGraph, Graph: &graphCopy})
	}
	snapshot := s.dashboard.SessionSnapshot()
	writeEvent(c, common.PaintEvent{Kind: common.PaintSession, Session: &snapshot})
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closeChan:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(c, event)
			c.Writer.Flush()
		}
	}
}

func writeEvent(c *gin.Context, event common.PaintEvent) {
	c.SSEvent(string(event.Kind), event)
}
