package nutrition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitnessbro/platform/internal/app/domain/nutrition"
	apperrors "github.com/fitnessbro/platform/internal/errors"
)

// Provider is the external AI nutrition call. It returns the provider's raw
// response text, which may wrap JSON in prose.
type Provider interface {
	EstimateMeal(ctx context.Context, mealText string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, mealText string) (string, error)

func (f ProviderFunc) EstimateMeal(ctx context.Context, mealText string) (string, error) {
	return f(ctx, mealText)
}

const systemPrompt = `You are a nutrition analysis assistant.
Given a free-text meal description, return STRICTLY a JSON object of the form:

{"foods": [{"name": "250g poulet", "calories": 415}], "meal_calories": 415}

Rules:
- calories must reflect the stated portion
- no text outside the JSON object
- no fields other than "foods" and "meal_calories"`

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

var _ Provider = (*OpenAIClient)(nil)

// NewOpenAIClient constructs the provider client. The timeout bounds the
// whole call so a hung provider cannot stall a program build.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

func (c *OpenAIClient) EstimateMeal(ctx context.Context, mealText string) (string, error) {
	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": mealText},
		},
		"temperature": 0,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d", resp.StatusCode)
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// ParseBreakdown extracts the first balanced JSON object from the provider's
// raw text and decodes it into a breakdown. The provider total is discarded;
// the meal total is always recomputed from the food items. Any shape problem
// yields an UpstreamDegraded error feeding the fallback path.
func ParseBreakdown(raw string) (nutrition.MealBreakdown, error) {
	object := extractJSONObject(raw)
	if object == "" {
		return nutrition.MealBreakdown{}, apperrors.Upstream("no JSON object in AI response", nil)
	}
	if !gjson.Valid(object) {
		return nutrition.MealBreakdown{}, apperrors.Upstream("malformed JSON in AI response", nil)
	}

	foodsField := gjson.Get(object, "foods")
	if !foodsField.Exists() {
		foodsField = gjson.Get(object, "items")
	}
	if !foodsField.IsArray() {
		return nutrition.MealBreakdown{}, apperrors.Upstream("AI response missing foods list", nil)
	}
	if !gjson.Get(object, "meal_calories").Exists() && !gjson.Get(object, "total_calories").Exists() {
		return nutrition.MealBreakdown{}, apperrors.Upstream("AI response missing meal total", nil)
	}

	var foods []nutrition.FoodItem
	for _, item := range foodsField.Array() {
		name := strings.TrimSpace(item.Get("name").String())
		if name == "" {
			continue
		}
		calories := item.Get("calories").Float()
		if calories < 0 {
			calories = 0
		}
		foods = append(foods, nutrition.FoodItem{Name: name, Calories: calories})
	}
	if len(foods) == 0 {
		return nutrition.MealBreakdown{}, apperrors.Upstream("AI response has no usable foods", nil)
	}

	return nutrition.NewMealBreakdown(foods), nil
}

// extractJSONObject returns the first balanced brace-delimited substring,
// tolerating braces inside JSON strings.
func extractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
