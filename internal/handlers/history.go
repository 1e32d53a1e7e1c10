package handlers

import (
	"errors"
	"net/http"

	"farmbeats_sheets/internal/history"

	"github.com/gin-gonic/gin"
)

const (
	statusStarted = "started"
	statusStopped = "stopped"

	errStartStreaming = "failed to start streaming"
	errLoadSheet      = "failed to load sheet"
)

// @Summary      Start streaming
// @Description  Runs one history merge right away, then every DataPollTime seconds.
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/history/start [post]
// @Security     BearerAuth
func (h *Handler) startStreaming(c *gin.Context) {
	st, err := h.services.History.Start(c.Request.Context())
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, history.ErrClosed) {
			code = http.StatusServiceUnavailable
		}
		h.logAndJSONError(c, code, errStartStreaming, "history_start_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStarted, "state": st})
}

// @Summary      Stop streaming
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/history/stop [post]
// @Security     BearerAuth
func (h *Handler) stopStreaming(c *gin.Context) {
	st := h.services.History.Stop(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": statusStopped, "state": st})
}

// @Summary      Streaming state
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/history/state [get]
// @Security     BearerAuth
func (h *Handler) getStreamingState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.History.State())
}

// @Summary      Clear data
// @Description  Empties the snapshot row and the data window. Failures are reported in the returned status event.
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status event"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/history/clear [post]
// @Security     BearerAuth
func (h *Handler) clearHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.History.Clear(c.Request.Context()))
}

// @Summary      Data In sheet
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history/sheet [get]
// @Security     BearerAuth
func (h *Handler) getSheet(c *gin.Context) {
	view, err := h.services.History.Sheet(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadSheet, "history_sheet_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
