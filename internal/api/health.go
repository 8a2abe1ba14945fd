package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/calorievision/backend/config"
	"github.com/calorievision/backend/internal/database"
)

// HealthHandler reports process liveness and best-effort storage status.
type HealthHandler struct {
	store database.Diagnostics
	cfg   *config.Config
}

func NewHealthHandler(store database.Diagnostics, cfg *config.Config) *HealthHandler {
	return &HealthHandler{store: store, cfg: cfg}
}

// Root is the liveness endpoint.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Calorie Vision API"})
}

// Test reports database connectivity and configuration as a human-readable
// status map. It never fails the request: every failure state lands in a
// string field of the response body.
func (h *HealthHandler) Test(c *gin.Context) {
	response := gin.H{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"database_url":      "❌ Not Set",
		"database_name":     "❌ Not Set",
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	if h.store != nil {
		response["database"] = "✅ Available"
		response["connection_status"] = "Connected"

		if err := h.store.Ping(c.Request.Context()); err != nil {
			response["database"] = "❌ Error: " + clip(err.Error(), 50)
		} else if collections, err := h.store.Collections(c.Request.Context()); err != nil {
			response["database"] = "⚠️  Connected but Error: " + clip(err.Error(), 50)
		} else {
			if len(collections) > 10 {
				collections = collections[:10]
			}
			response["collections"] = collections
			response["database"] = "✅ Connected & Working"
		}
	}

	if h.cfg.HasDatabase() {
		response["database_url"] = "✅ Set"
	}
	if h.cfg.DatabaseName != "" {
		response["database_name"] = "✅ Set"
	}

	c.JSON(http.StatusOK, response)
}

// RegisterRoutes registers the diagnostic routes.
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.GET("/test", h.Test)
}

// clip shortens s to at most n runes without splitting a multi-byte rune,
// keeping the status strings valid UTF-8.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
