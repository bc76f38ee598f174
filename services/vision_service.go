package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/fperezb/diet-agent-telegram/models"
)

// ErrNoFoodDetected means the image was processed but no food was found in
// it. The gateway turns this into a "try a clearer photo" reply.
var ErrNoFoodDetected = errors.New("no food detected in image")

const visionSystemPrompt = `Eres un experto nutricionista especializado en identificar alimentos en imágenes.

Analiza la foto de comida y responde ÚNICAMENTE con JSON válido, sin bloques de código markdown.

Usa exactamente esta estructura:
{
    "foods": [
        {
            "name": "nombre del alimento",
            "confidence": 0.95,
            "portion_size": "descripción de la porción",
            "category": "categoría",
            "estimated_grams": 150,
            "units_count": 1,
            "nutrition": {"calories": 200, "protein": 10, "carbs": 20, "fat": 5}
        }
    ],
    "total_nutrition": {"calories": 450, "protein": 25, "carbs": 40, "fat": 15},
    "dish_description": "descripción general del plato"
}

Si no puedes identificar comida claramente, responde:
{"error": "No se puede identificar comida en la imagen"}`

// VisionService identifies foods in a meal photo. Primary backend is an
// OpenAI-compatible vision endpoint; when that fails it degrades to AWS
// Rekognition label detection, which yields names and confidences but no
// nutrition, leaving the resolver to its local-table path.
type VisionService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	rek     *RekognitionService
}

// NewVisionService builds the adapter. rek may be nil to disable the
// Rekognition fallback.
func NewVisionService(apiKey string, rek *RekognitionService) *VisionService {
	return &VisionService{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   "gpt-4o",
		client:  &http.Client{Timeout: 60 * time.Second},
		rek:     rek,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Analyze identifies the foods in imageData. hint is optional free text the
// user attached to the photo.
func (s *VisionService) Analyze(ctx context.Context, imageData []byte, hint string) (*models.FoodAnalysis, error) {
	analysis, err := s.analyzeWithVision(ctx, imageData, hint)
	if err == nil {
		return analysis, nil
	}
	if errors.Is(err, ErrNoFoodDetected) || s.rek == nil {
		return nil, err
	}

	log.Printf("vision: primary backend failed (%v), falling back to label detection", err)
	foods, rekErr := s.rek.RecognizeFoods(ctx, imageData)
	if rekErr != nil {
		return nil, fmt.Errorf("vision analysis failed: %w", err)
	}
	if len(foods) == 0 {
		return nil, ErrNoFoodDetected
	}
	return &models.FoodAnalysis{Foods: foods}, nil
}

func (s *VisionService) analyzeWithVision(ctx context.Context, imageData []byte, hint string) (*models.FoodAnalysis, error) {
	userText := "Analiza esta imagen de comida e identifica todos los alimentos visibles."
	if hint != "" {
		userText += " Pista del usuario: " + hint
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: visionSystemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userText},
				{Type: "image_url", ImageURL: &imageURL{
					URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData),
					Detail: "high",
				}},
			}},
		},
		MaxTokens:   500,
		Temperature: 0.1,
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

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call vision API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	if cr.Error != nil {
		return nil, fmt.Errorf("vision API error: %s", cr.Error.Message)
	}
	if len(cr.Choices) == 0 {
		return nil, errors.New("vision API returned no choices")
	}

	return parseAnalysisContent(cr.Choices[0].Message.Content)
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseAnalysisContent validates the model's reply into the typed analysis
// shape, stripping markdown code fences when the model ignores instructions.
func parseAnalysisContent(content string) (*models.FoodAnalysis, error) {
	content = strings.TrimSpace(content)
	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		content = strings.TrimSpace(m[1])
	}

	var raw struct {
		models.FoodAnalysis
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("unparseable analysis JSON: %w", err)
	}
	if raw.Error != "" || len(raw.Foods) == 0 {
		return nil, ErrNoFoodDetected
	}
	return &raw.FoodAnalysis, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
