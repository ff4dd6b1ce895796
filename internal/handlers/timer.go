package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"timetrack/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK      = "ok"
	statusStarted = "started"
	statusStopped = "stopped"

	errStartTimer = "failed to start timer"
	errStopTimer  = "failed to stop timer"
	errGetState   = "failed to load timer state"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// userID reads the authenticated user set by the middleware.
func userID(c *gin.Context) int {
	return c.GetInt(ctxUserIDKey)
}

// Request DTO for starting a timer.
type startRequest struct {
	Project     string `json:"project" binding:"required"`
	Task        string `json:"task,omitempty"`
	Description string `json:"description,omitempty"`
}

// StartTimerRequest is an exported model for Swagger docs of the start payload.
type StartTimerRequest struct {
	// Project the tracked time belongs to
	Project string `json:"project" example:"Website relaunch"`
	// Optional task within the project
	Task string `json:"task,omitempty" example:"Navigation menu"`
	// Free-form note
	Description string `json:"description,omitempty" example:"pairing session"`
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

// @Summary      Start timer
// @Description  Starts a timer for a project/task. A running timer is stopped first.
// @Tags         timer
// @Accept       json
// @Produce      json
// @Param        body  body   StartTimerRequest  true  "Timer payload"
// @Success      200   {object}  map[string]interface{}  "status, entry"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/timer/start [post]
// @Security     BearerAuth
func (h *Handler) startTimer(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	ctx := c.Request.Context()
	entry, err := h.services.Tracker.Start(ctx, userID(c), service.StartParams{
		Project:     req.Project,
		Task:        req.Task,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyProject) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStartTimer, "timer_start_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStarted, "entry": entry})
}

// @Summary      Stop timer
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, entry"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/stop [post]
// @Security     BearerAuth
func (h *Handler) stopTimer(c *gin.Context) {
	ctx := c.Request.Context()
	entry, err := h.services.Tracker.Stop(ctx, userID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoRunningTimer) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStopTimer, "timer_stop_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStopped, "entry": entry})
}

// @Summary      Resume entry
// @Description  Starts a new timer copying project/task/description of a previous entry.
// @Tags         timer
// @Produce      json
// @Param        id   path      int  true  "Entry ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/timer/resume/{id} [post]
// @Security     BearerAuth
func (h *Handler) resumeTimer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}
	ctx := c.Request.Context()
	entry, err := h.services.Tracker.Resume(ctx, userID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStartTimer, "timer_resume_failed", err, "entry_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStarted, "entry": entry})
}

// @Summary      Get timer state
// @Description  Snapshot of the running flag, start timestamp and rendered display text.
// @Tags         timer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timer/state [get]
// @Security     BearerAuth
func (h *Handler) timerState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Tracker.State(ctx, userID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "timer_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
