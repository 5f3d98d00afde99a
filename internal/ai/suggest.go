// Package ai estimates per-100g nutritional profiles from a free-form food
// description using Gemini. The result only pre-fills the entry form; the
// user stays in charge of what gets logged.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/caloq-app/caloq/internal/apperrors"
	"github.com/caloq-app/caloq/internal/nutrition"
)

// SuggestionService talks to Gemini.
type SuggestionService struct {
	client *genai.Client
}

// Suggestion is the estimated per-100g profile for a described food.
type Suggestion struct {
	Name       string  `json:"name"`
	Kcal       float64 `json:"kcal"`
	Protein    float64 `json:"protein"`
	Sugar      float64 `json:"sugar"`
	Fat        float64 `json:"fat"`
	Fiber      float64 `json:"fiber"`
	Carbs      float64 `json:"carbs"`
	Confidence string  `json:"confidence"`
}

// Profile returns the suggestion as a nutrient vector.
func (s Suggestion) Profile() nutrition.Vector {
	return nutrition.Vector{
		Kcal:    s.Kcal,
		Protein: s.Protein,
		Sugar:   s.Sugar,
		Fat:     s.Fat,
		Fiber:   s.Fiber,
		Carbs:   s.Carbs,
	}
}

// NewSuggestionService creates the Gemini client.
func NewSuggestionService(ctx context.Context, apiKey string) (*SuggestionService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &SuggestionService{client: client}, nil
}

const suggestPrompt = `You are a nutrition database assistant. Estimate the nutritional profile PER 100 GRAMS of the described food.

TASK:
1. Identify the food from the description
2. Estimate kcal, protein, sugar, fat, fiber and carbs per 100g from standard nutritional databases
3. Assess your confidence (low, medium, high)

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any markdown formatting or explanatory text
- The JSON must have these exact fields:
  {
    "name": "Short food name",
    "kcal": 372,
    "protein": 14,
    "sugar": 1,
    "fat": 7,
    "fiber": 10,
    "carbs": 59,
    "confidence": "low|medium|high"
  }

FOOD DESCRIPTION:
%s`

// SuggestProfile asks Gemini for a per-100g profile of the described food.
func (s *SuggestionService) SuggestProfile(ctx context.Context, description string) (*Suggestion, error) {
	model := s.client.GenerativeModel("gemini-1.5-flash")

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(suggestPrompt, description)))
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, "Gemini")
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("empty response"), "Gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("unexpected response part type"), "Gemini")
	}

	jsonStr := extractJSON(string(text))
	if jsonStr == "" {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("no valid JSON found in response"), "Gemini")
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(jsonStr), &suggestion); err != nil {
		return nil, apperrors.NewExternalAPIError(fmt.Errorf("failed to parse response: %w", err), "Gemini")
	}
	return &suggestion, nil
}

// extractJSON pulls a JSON object out of a response that may wrap it in code
// blocks or surrounding text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
