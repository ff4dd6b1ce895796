package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Preference bodies are raw JSON blobs; this bounds what we read.
const maxPrefBodyBytes = 1 << 16 // 64 KB

// @Summary      Get preference
// @Description  Returns the stored raw JSON blob for the key, e.g. sidebar fold state.
// @Tags         prefs
// @Produce      json
// @Param        key  path      string  true  "Preference key"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/prefs/{key} [get]
// @Security     BearerAuth
func (h *Handler) getPreference(c *gin.Context) {
	ctx := c.Request.Context()
	pref, err := h.services.Preferences.Get(ctx, userID(c), c.Param("key"))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load preference", "pref_get_failed", err, "key", c.Param("key"))
		return
	}
	if pref == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference not set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":        pref.Key,
		"value":      pref.Value,
		"updated_at": pref.UpdatedAt,
	})
}

// @Summary      Set preference
// @Description  Stores the request body verbatim as the preference blob. Last writer wins.
// @Tags         prefs
// @Accept       json
// @Produce      json
// @Param        key   path      string  true  "Preference key"
// @Param        body  body      object  true  "Arbitrary JSON value"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/prefs/{key} [put]
// @Security     BearerAuth
func (h *Handler) setPreference(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPrefBodyBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if len(body) > maxPrefBodyBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preference value too large"})
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Preferences.Set(ctx, userID(c), c.Param("key"), json.RawMessage(body)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
