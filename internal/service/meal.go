package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/calorievision/backend/internal/database"
	"github.com/calorievision/backend/internal/models"
)

// DefaultMealLimit caps /meals queries when no limit is given.
const DefaultMealLimit = 20

// MealService orchestrates the analyze-and-persist flow and meal history
// retrieval.
type MealService struct {
	store  database.DocumentStore
	vision VisionAnalyzer
}

func NewMealService(store database.DocumentStore, vision VisionAnalyzer) *MealService {
	return &MealService{
		store:  store,
		vision: vision,
	}
}

// Analyze runs the vision analyzer over the image, persists the resulting
// meal and returns the new meal id with the analysis. The analyzer itself
// never fails; only persistence can.
func (s *MealService) Analyze(ctx context.Context, image []byte, imageName, userID string) (string, *Analysis, error) {
	analysis := s.vision.Analyze(ctx, image)

	meal := models.Meal{
		UserID:      userID,
		ImageName:   imageName,
		DishName:    analysis.DishName,
		Calories:    analysis.Calories,
		Macros:      analysis.Macros,
		Ingredients: analysis.Ingredients,
		Source:      MealSource,
		RawResponse: analysis.Raw,
		CreatedAt:   time.Now().UTC(),
	}

	if err := meal.Validate(); err != nil {
		return "", nil, fmt.Errorf("analysis rejected: %w", err)
	}

	if s.store == nil {
		return "", nil, ErrStorageUnavailable
	}

	id, err := s.store.Insert(ctx, models.MealCollection, meal)
	if err != nil {
		return "", nil, fmt.Errorf("failed to save meal: %w", err)
	}

	return id, analysis, nil
}

// List returns stored meals, filtered by user id when given, capped at
// limit. The storage-native id and timestamp representations are converted
// to plain text; no ordering beyond the store's default is guaranteed.
func (s *MealService) List(ctx context.Context, userID string, limit int64) ([]map[string]interface{}, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	filter := map[string]interface{}{}
	if userID != "" {
		filter["user_id"] = userID
	}

	docs, err := s.store.Find(ctx, models.MealCollection, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	for _, doc := range docs {
		if oid, ok := doc["_id"].(primitive.ObjectID); ok {
			doc["_id"] = oid.Hex()
		}
		switch ts := doc["created_at"].(type) {
		case primitive.DateTime:
			doc["created_at"] = ts.Time().UTC().Format(time.RFC3339)
		case time.Time:
			doc["created_at"] = ts.UTC().Format(time.RFC3339)
		}
	}

	return docs, nil
}
