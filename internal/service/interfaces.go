package service

import (
	"context"

	"github.com/calorievision/backend/internal/models"
)

// VisionAnalyzer produces a best-effort nutritional estimate for an image.
// Implementations must not fail: degraded output stands in for errors.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, image []byte) *Analysis
}

// IAuthService defines the interface for signup and login operations.
type IAuthService interface {
	Signup(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// IMealService defines the interface for meal analysis and history.
type IMealService interface {
	Analyze(ctx context.Context, image []byte, imageName, userID string) (string, *Analysis, error)
	List(ctx context.Context, userID string, limit int64) ([]map[string]interface{}, error)
}
