package handlers

import (
	"errors"
	"net/http"

	"farmbeats_sheets/internal/device"
	"farmbeats_sheets/internal/session"

	"github.com/gin-gonic/gin"
)

// SetDeviceRequest selects the FarmBeats device.
type SetDeviceRequest struct {
	// Host name, IP or origin; "farmbeats" becomes https://farmbeats.local
	DeviceID string `json:"device_id" binding:"required" example:"farmbeats"`
}

// @Summary      Set device
// @Description  Probes the device and, when reachable, makes it the session device.
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        body  body  SetDeviceRequest  true  "Device payload"
// @Success      200   {object}  map[string]string  "origin"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/device [put]
// @Security     BearerAuth
func (h *Handler) setDevice(c *gin.Context) {
	var req SetDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	origin, err := h.services.Device.SetDeviceID(c.Request.Context(), req.DeviceID)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, device.ErrEmptyDeviceID) {
			code = http.StatusBadRequest
		}
		h.logAndJSONError(c, code, err.Error(), "device_set_failed", err, "device_id", req.DeviceID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"origin": origin})
}

// @Summary      Get device origin
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]string  "origin"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/device [get]
// @Security     BearerAuth
func (h *Handler) getDevice(c *gin.Context) {
	origin, err := h.services.Device.Origin(c.Request.Context())
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, session.ErrNoDevice) {
			code = http.StatusNotFound
		}
		h.logAndJSONError(c, code, err.Error(), "device_origin_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"origin": origin})
}
