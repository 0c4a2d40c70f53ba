package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o"
	requestTimeout = 60 * time.Second
)

var itineraryItemTypes = []string{"sightseeing", "food", "transport", "lodging"}

// AIService turns trip parameters into a draft itinerary with a single
// chat-completions call against an OpenAI-compatible endpoint.
type AIService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewAIService builds the service from OPENAI_API_KEY, OPENAI_BASE_URL and
// OPENAI_MODEL environment variables.
func NewAIService() *AIService {
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &AIService{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type GenerateItineraryInput struct {
	Location    string `json:"location" validate:"required,max=256"`
	Days        int    `json:"days" validate:"required,min=1,max=14"`
	Preferences string `json:"preferences" validate:"max=512"` // "Foodie", "History", "Anime"
	StartDate   string `json:"startDate" validate:"required"`
}

type GeneratedItem struct {
	Day      int    `json:"day"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
	Type     string `json:"type"`
}

type GeneratedItinerary struct {
	Title string          `json:"title"`
	Items []GeneratedItem `json:"items"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateItinerary issues one synchronous completion request and parses the
// JSON answer. No retries: any upstream or parse failure is returned to the
// caller as an error.
func (s *AIService) GenerateItinerary(ctx context.Context, input GenerateItineraryInput) (*GeneratedItinerary, error) {
	reqBody := chatCompletionRequest{
		Model:          s.model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(input)}},
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("completion API error (%d): %s", res.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("completion API returned status %d", res.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("decoding completion response: %w", err)
	}

	content := "{}"
	if len(completion.Choices) > 0 && completion.Choices[0].Message.Content != "" {
		content = completion.Choices[0].Message.Content
	}

	var itinerary GeneratedItinerary
	if err := json.Unmarshal([]byte(content), &itinerary); err != nil {
		return nil, fmt.Errorf("model returned malformed itinerary JSON: %w", err)
	}

	normalizeItems(&itinerary)
	return &itinerary, nil
}

func buildPrompt(input GenerateItineraryInput) string {
	preferences := input.Preferences
	if preferences == "" {
		preferences = "General sightseeing"
	}

	return fmt.Sprintf(`Generate a %d-day travel itinerary for %s.
Preferences: %s.
Start Date: %s.

Return JSON format with:
{
  "title": "Trip Title",
  "items": [
    {
      "day": 1,
      "time": "10:00",
      "activity": "Activity Name",
      "location": "Location Name",
      "notes": "Description",
      "type": "sightseeing"
    }
  ]
}
Do not include markdown formatting, just raw JSON.`,
		input.Days, input.Location, preferences, input.StartDate)
}

// normalizeItems keeps the downstream contract: items is never nil, day
// numbers are 1-based and unknown types fall back to sightseeing.
func normalizeItems(itinerary *GeneratedItinerary) {
	if itinerary.Items == nil {
		itinerary.Items = []GeneratedItem{}
	}
	for i := range itinerary.Items {
		if itinerary.Items[i].Day < 1 {
			itinerary.Items[i].Day = 1
		}
		if !slices.Contains(itineraryItemTypes, itinerary.Items[i].Type) {
			itinerary.Items[i].Type = "sightseeing"
		}
	}
}
