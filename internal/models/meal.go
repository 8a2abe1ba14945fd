package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealCollection is the document collection holding analyzed meals.
const MealCollection = "meal"

var ErrNegativeNutrition = errors.New("calories and macros must be non-negative")

// Macros holds the estimated macronutrient breakdown in grams. Fields are
// pointers because the analyzer may fail to produce some of them.
type Macros struct {
	CarbsG   *float64 `bson:"carbs_g,omitempty" json:"carbs_g,omitempty"`
	ProteinG *float64 `bson:"protein_g,omitempty" json:"protein_g,omitempty"`
	FatG     *float64 `bson:"fat_g,omitempty" json:"fat_g,omitempty"`
}

// Meal is one analyzed food image. Created once per analysis, immutable
// afterwards. UserID is the string form of a user ObjectId and is not
// validated against the user collection.
type Meal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ImageName   string             `bson:"image_name,omitempty" json:"image_name,omitempty"`
	DishName    string             `bson:"dish_name,omitempty" json:"dish_name,omitempty"`
	Calories    *float64           `bson:"calories,omitempty" json:"calories,omitempty"`
	Macros      *Macros            `bson:"macros,omitempty" json:"macros,omitempty"`
	Ingredients []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Source      string             `bson:"source" json:"source"`
	RawResponse interface{}        `bson:"raw_response,omitempty" json:"raw_response,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// Validate enforces the persistence-boundary constraints: calories and each
// macro, when present, must be non-negative. An upstream estimate that
// violates this is rejected here rather than clamped by the analyzer.
func (m *Meal) Validate() error {
	if m.Calories != nil && *m.Calories < 0 {
		return ErrNegativeNutrition
	}
	if m.Macros != nil {
		for _, v := range []*float64{m.Macros.CarbsG, m.Macros.ProteinG, m.Macros.FatG} {
			if v != nil && *v < 0 {
				return ErrNegativeNutrition
			}
		}
	}
	return nil
}
