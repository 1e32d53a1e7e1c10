package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetRelayRequest is the relay control payload.
type SetRelayRequest struct {
	// Desired relay state
	Value *bool `json:"value" binding:"required" example:"true"`
}

// @Summary      Get relay state
// @Tags         relay
// @Produce      json
// @Success      200  {object}  map[string]string  "relay: On | Off | Error"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/relay [get]
// @Security     BearerAuth
func (h *Handler) getRelay(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"relay": h.services.Relay.RelayState(c.Request.Context())})
}

// @Summary      Switch relay
// @Description  Device failures are reported in the returned status event, not as an HTTP error.
// @Tags         relay
// @Accept       json
// @Produce      json
// @Param        body  body  SetRelayRequest  true  "Relay payload"
// @Success      200   {object}  map[string]interface{}  "status event"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/relay [post]
// @Security     BearerAuth
func (h *Handler) setRelay(c *gin.Context) {
	var req SetRelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.services.Relay.SetRelay(c.Request.Context(), *req.Value))
}
