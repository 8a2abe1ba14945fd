package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func TestMealValidate(t *testing.T) {
	tests := []struct {
		name    string
		meal    Meal
		wantErr bool
	}{
		{
			name: "all fields present and non-negative",
			meal: Meal{
				Calories: f(520),
				Macros:   &Macros{CarbsG: f(55), ProteinG: f(28), FatG: f(22)},
			},
		},
		{
			name: "missing optional fields",
			meal: Meal{Source: "openai-vision"},
		},
		{
			name:    "negative calories",
			meal:    Meal{Calories: f(-1)},
			wantErr: true,
		},
		{
			name:    "negative macro",
			meal:    Meal{Macros: &Macros{FatG: f(-0.5)}},
			wantErr: true,
		},
		{
			name: "zero values are allowed",
			meal: Meal{Calories: f(0), Macros: &Macros{CarbsG: f(0)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meal.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNegativeNutrition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
