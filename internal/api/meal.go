package api

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/calorievision/backend/internal/service"
)

// MealHandler handles image analysis and meal history requests.
type MealHandler struct {
	meals service.IMealService
}

func NewMealHandler(meals service.IMealService) *MealHandler {
	return &MealHandler{meals: meals}
}

// Analyze accepts a multipart image upload, runs the vision analyzer and
// persists the resulting meal. The analyzer absorbs upstream failures, so
// the caller always gets best-effort data; only a storage failure errors.
func (h *MealHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read uploaded file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read uploaded file"})
		return
	}

	// user_id is self-asserted by the caller; it is stored as given and
	// never verified against the user collection.
	userID := c.PostForm("user_id")

	mealID, analysis, err := h.meals.Analyze(c.Request.Context(), image, fileHeader.Filename, userID)
	if err != nil {
		log.Printf("Analyze failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save meal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meal_id":     mealID,
		"dish_name":   analysis.DishName,
		"calories":    analysis.Calories,
		"macros":      analysis.Macros,
		"ingredients": analysis.Ingredients,
		"raw":         analysis.Raw,
	})
}

// List returns stored meals, optionally filtered by user_id, capped at
// limit (default 20).
func (h *MealHandler) List(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(service.DefaultMealLimit)), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "limit must be an integer"})
		return
	}

	meals, err := h.meals.List(c.Request.Context(), c.Query("user_id"), limit)
	if err != nil {
		log.Printf("List meals failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list meals"})
		return
	}

	if meals == nil {
		meals = []map[string]interface{}{}
	}
	c.JSON(http.StatusOK, meals)
}

// RegisterRoutes registers the meal routes.
func (h *MealHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/analyze", h.Analyze)
	router.GET("/meals", h.List)
}
