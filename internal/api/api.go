package api

import (
	"github.com/gin-gonic/gin"

	"github.com/calorievision/backend/config"
	"github.com/calorievision/backend/internal/database"
	"github.com/calorievision/backend/internal/service"
)

// RegisterRoutes wires all handlers onto the router. diagnostics may be nil
// when no storage is configured; the /test endpoint reports that state.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, diagnostics database.Diagnostics, auth service.IAuthService, meals service.IMealService) {
	NewHealthHandler(diagnostics, cfg).RegisterRoutes(router)
	NewAuthHandler(auth).RegisterRoutes(router)
	NewMealHandler(meals).RegisterRoutes(router)
}
