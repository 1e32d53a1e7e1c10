package handlers

import (
	"net/http"

	"farmbeats_sheets/internal/sensor"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errUnknownMetric   = "unknown metric"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// parseMetric resolves the :metric path parameter, writing a 404 when it is unknown.
func (h *Handler) parseMetric(c *gin.Context) (sensor.Metric, bool) {
	m, err := sensor.Parse(c.Param("metric"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownMetric, "metric": c.Param("metric"), "metrics": sensor.All()})
		return "", false
	}
	return m, true
}

// FunctionValue is a single custom function result.
type FunctionValue struct {
	Metric string      `json:"metric" example:"soil-moisture"`
	Value  interface{} `json:"value" swaggertype:"string" example:"512"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Read a sensor once
// @Description  Device failures yield the metric's fallback (-1 for numbers, "Error" for states).
// @Tags         functions
// @Produce      json
// @Param        metric  path  string  true  "Metric"  Enums(relay,soil-moisture,temperature,humidity,soil-temperature,visible,infra-red,ultra-violet,button1,button2)
// @Success      200  {object}  FunctionValue
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/functions/{metric} [get]
// @Security     BearerAuth
func (h *Handler) getFunction(c *gin.Context) {
	m, ok := h.parseMetric(c)
	if !ok {
		return
	}
	v := h.services.Functions.Value(c.Request.Context(), m)
	c.JSON(http.StatusOK, FunctionValue{Metric: string(m), Value: v})
}
