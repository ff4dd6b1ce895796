package handlers

import (
	"timetrack/internal/logger"
	"timetrack/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging.
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

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live display stream (HTTP upgrade) on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerTimerRoutes(api)
		h.registerEntryRoutes(api)
		h.registerPrefRoutes(api)
	}
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timer := api.Group("/timer")
	{
		timer.POST("/start", h.startTimer)
		timer.POST("/stop", h.stopTimer)
		timer.POST("/resume/:id", h.resumeTimer)
		timer.GET("/state", h.timerState)
	}
}

func (h *Handler) registerEntryRoutes(api *gin.RouterGroup) {
	api.GET("/entries", h.listEntries)
	api.GET("/dashboard", h.getDashboard)
}

func (h *Handler) registerPrefRoutes(api *gin.RouterGroup) {
	prefs := api.Group("/prefs")
	{
		prefs.GET("/:key", h.getPreference)
		prefs.PUT("/:key", h.setPreference)
	}
}
