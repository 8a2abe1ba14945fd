package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/calorievision/backend/config"
	"github.com/calorievision/backend/internal/models"
)

const (
	visionModel   = "gpt-4o-mini"
	visionTimeout = 20 * time.Second

	// MealSource is the provider tag stamped on every persisted meal.
	MealSource = "openai-vision"
)

// AnalysisSource tells callers how an estimate was produced, so they do not
// have to sniff the free-form Raw payload.
type AnalysisSource string

const (
	// SourceVision means the upstream model produced the estimate.
	SourceVision AnalysisSource = "vision"
	// SourceStub means no API key is configured and the fixed stub was used.
	SourceStub AnalysisSource = "stub"
	// SourceDegraded means the upstream call was attempted and failed.
	SourceDegraded AnalysisSource = "degraded"
)

// Analysis is the best-effort nutritional estimate for one image.
type Analysis struct {
	DishName    string
	Calories    *float64
	Macros      *models.Macros
	Ingredients []string
	Raw         interface{}
	Source      AnalysisSource
}

// VisionService calls an OpenAI-compatible chat completions API with an
// image payload and parses the structured estimate. It never returns an
// error: any failure degrades to a fixed fallback estimate.
type VisionService struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewVisionService creates a new VisionService instance.
func NewVisionService(cfg *config.Config) *VisionService {
	apiURL := cfg.VisionAPIURL
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}

	return &VisionService{
		apiKey: cfg.VisionAPIKey,
		apiURL: apiURL,
		client: &http.Client{Timeout: visionTimeout},
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

// Analyze estimates the dish, calories, macros and ingredients for an
// image. Without an API key it returns the fixed stub immediately; on any
// upstream or parsing failure it returns the fixed degraded estimate with
// the error captured in Raw. It is the terminal error boundary for the
// analysis path.
func (s *VisionService) Analyze(ctx context.Context, image []byte) *Analysis {
	if s.apiKey == "" {
		return stubAnalysis()
	}

	analysis, err := s.callVisionAPI(ctx, image)
	if err != nil {
		log.Printf("Vision analysis failed, using fallback: %v", err)
		return degradedAnalysis(err.Error())
	}
	return analysis
}

func (s *VisionService) callVisionAPI(ctx context.Context, image []byte) (*Analysis, error) {
	imgB64 := base64.StdEncoding.EncodeToString(image)

	reqBody := chatRequest{
		Model: visionModel,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a nutrition analyst. Return a concise JSON answer with dish_name, calories (kcal), macros (carbs_g, protein_g, fat_g), and ingredients array.",
			},
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: "Estimate calories and macros for this meal."},
					{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imgB64}},
				},
			},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("vision API error: %d %s", resp.StatusCode, truncate(string(body), 120))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	var parsed struct {
		DishName    string         `json:"dish_name"`
		Calories    *float64       `json:"calories"`
		Macros      *models.Macros `json:"macros"`
		Ingredients []string       `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(result.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	// Preserve the full upstream payload for audit.
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode raw response: %w", err)
	}

	return &Analysis{
		DishName:    parsed.DishName,
		Calories:    parsed.Calories,
		Macros:      parsed.Macros,
		Ingredients: parsed.Ingredients,
		Raw:         raw,
		Source:      SourceVision,
	}, nil
}

// stubAnalysis is the fixed no-network result used when no API key is
// configured.
func stubAnalysis() *Analysis {
	return &Analysis{
		DishName: "Mixed meal",
		Calories: floatPtr(520),
		Macros: &models.Macros{
			CarbsG:   floatPtr(55),
			ProteinG: floatPtr(28),
			FatG:     floatPtr(22),
		},
		Ingredients: []string{"rice", "chicken", "vegetables", "sauce"},
		Raw:         map[string]interface{}{"provider": "stub"},
		Source:      SourceStub,
	}
}

// degradedAnalysis is the fixed result used when the upstream call fails.
func degradedAnalysis(reason string) *Analysis {
	return &Analysis{
		DishName: "Meal",
		Calories: floatPtr(450),
		Macros: &models.Macros{
			CarbsG:   floatPtr(50),
			ProteinG: floatPtr(20),
			FatG:     floatPtr(18),
		},
		Raw:    map[string]interface{}{"error": reason},
		Source: SourceDegraded,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// truncate shortens s to at most n runes, never splitting a multi-byte
// rune: the result lands in raw_response and must stay valid UTF-8.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
