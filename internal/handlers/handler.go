package handlers

import (
	_ "farmbeats_sheets/docs"
	"farmbeats_sheets/internal/logger"
	"farmbeats_sheets/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Streaming custom functions; closing the socket cancels the poller.
	router.GET("/ws/functions/:metric", h.wsFunction)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		api.GET("/session", h.getSession)
		api.POST("/session/end", h.endSession)

		api.GET("/functions/:metric", h.getFunction)

		// Body example: {"value":true}
		api.GET("/relay", h.getRelay)
		api.POST("/relay", h.setRelay)

		// Body example: {"device_id":"farmbeats"}
		api.PUT("/device", h.setDevice)
		api.GET("/device", h.getDevice)

		h.registerHistoryRoutes(api)
		h.registerStatusRoutes(api)

		api.GET("/workbook.xlsx", h.exportWorkbook)
	}
}

func (h *Handler) registerHistoryRoutes(api *gin.RouterGroup) {
	history := api.Group("/history")
	{
		history.POST("/start", h.startStreaming)
		history.POST("/stop", h.stopStreaming)
		history.GET("/state", h.getStreamingState)
		history.POST("/clear", h.clearHistory)
		history.GET("/sheet", h.getSheet)
	}
}

func (h *Handler) registerStatusRoutes(api *gin.RouterGroup) {
	status := api.Group("/status")
	{
		status.GET("", h.getStatus)
		status.GET("/logs", h.getStatusLogs)
	}
}
