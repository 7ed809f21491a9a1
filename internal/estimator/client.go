// Package estimator talks to the external nutrition estimator, a
// chat-completion service. Meal estimation returns free-form report
// text parsed later by the extract package; TDEE estimation demands a
// JSON object and fails hard when it is missing, because that value
// drives stored history.
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4o"
)

var (
	// ErrAuth signals a rejected API key (HTTP 401).
	ErrAuth = errors.New("estimator authentication failed")
	// ErrRateLimited signals usage limits (HTTP 429).
	ErrRateLimited = errors.New("estimator rate limit exceeded")
	// ErrBadEstimate signals a TDEE response without a usable JSON object.
	ErrBadEstimate = errors.New("estimator returned no usable estimate")
)

type Client struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

type TDEEInput struct {
	Gender   string
	AgeYears int
	HeightCm float64
	WeightKg float64
	Activity string
}

type TDEEEstimate struct {
	BasalKcal    int
	ActivityKcal int
	TDEEKcal     int
	Detail       string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const mealSystemPrompt = `Eres un nutricionista preciso y conciso. Analiza la comida y devuelve el resultado con este formato exacto, en líneas separadas:
Name: <nombre corto del plato>
<ingrediente>: <cantidad> (~<kcal> kcal)
Calorías totales: ~<N> kcal
Proteínas: ~<N> g
Grasas: ~<N> g
Carbohidratos: ~<N> g
No añadas nada más. Si no puedes analizar la comida, dilo claramente.`

// MealFromText asks for a nutrition report on a meal description.
func (c *Client) MealFromText(ctx context.Context, description string) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("meal description is required")
	}
	return c.complete(ctx, chatRequest{
		Model: c.model(),
		Messages: []chatMessage{
			{Role: "system", Content: mealSystemPrompt},
			{Role: "user", Content: description},
		},
	})
}

// MealFromTranscript is MealFromText for dictated input; the transcript
// may carry filler words, so the estimator is told to ignore them.
func (c *Client) MealFromTranscript(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", fmt.Errorf("meal transcript is required")
	}
	return c.complete(ctx, chatRequest{
		Model: c.model(),
		Messages: []chatMessage{
			{Role: "system", Content: mealSystemPrompt},
			{Role: "user", Content: "Transcripción de una nota de voz, ignora muletillas: " + transcript},
		},
	})
}

// MealFromImage inlines a base64 JPEG and asks for the same report.
func (c *Client) MealFromImage(ctx context.Context, imageB64 string) (string, error) {
	imageB64 = strings.TrimSpace(imageB64)
	if imageB64 == "" {
		return "", fmt.Errorf("meal image is required")
	}
	return c.complete(ctx, chatRequest{
		Model: c.model(),
		Messages: []chatMessage{
			{Role: "system", Content: mealSystemPrompt},
			{Role: "user", Content: []map[string]any{
				{
					"type":      "image_url",
					"image_url": map[string]string{"url": "data:image/jpeg;base64," + imageB64},
				},
			}},
		},
	})
}

func buildTDEEPrompt(in TDEEInput) string {
	return fmt.Sprintf(`Eres un nutricionista experto. Calcula lo siguiente para este usuario:
Sexo: %s
Edad: %d años
Altura: %.0f cm
Peso: %.1f kg
Actividad física habitual: "%s"

Utiliza los datos de sexo, edad, peso y altura del usuario tanto para calcular el metabolismo basal (MB) como para estimar el gasto calórico de la actividad física.
Utiliza la fórmula de Mifflin-St Jeor para calcular el metabolismo basal (MB).

Devuelve un JSON con las siguientes claves:
- metabolismo_basal: (valor numérico en kcal/día, usando la fórmula de Mifflin-St Jeor)
- actividad_kcal_estimadas: (valor numérico en kcal/día, estimado a partir de la actividad física y los datos del usuario)
- tdee_base: (suma de metabolismo_basal y actividad_kcal_estimadas)
- detalle_actividad: (explica de forma precisa el cálculo realizado para la actividad física)
NO EXPLIQUES NADA MÁS, SOLO EL JSON.`, in.Gender, in.AgeYears, in.HeightCm, in.WeightKg, in.Activity)
}

// EstimateTDEE requests basal, activity and total daily energy
// expenditure as structured fields. Temperature is pinned to 0 and the
// response must contain a JSON object, possibly wrapped in prose.
func (c *Client) EstimateTDEE(ctx context.Context, in TDEEInput) (TDEEEstimate, error) {
	zero := 0.0
	content, err := c.complete(ctx, chatRequest{
		Model: c.model(),
		Messages: []chatMessage{
			{Role: "system", Content: "Eres un nutricionista experto."},
			{Role: "user", Content: buildTDEEPrompt(in)},
		},
		Temperature: &zero,
	})
	if err != nil {
		return TDEEEstimate{}, err
	}

	block, ok := extractJSONBlock(content)
	if !ok {
		return TDEEEstimate{}, fmt.Errorf("%w: no JSON object in response", ErrBadEstimate)
	}
	var parsed struct {
		Basal    *float64 `json:"metabolismo_basal"`
		Activity *float64 `json:"actividad_kcal_estimadas"`
		TDEE     *float64 `json:"tdee_base"`
		Detail   string   `json:"detalle_actividad"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return TDEEEstimate{}, fmt.Errorf("%w: %v", ErrBadEstimate, err)
	}
	if parsed.Basal == nil || parsed.Activity == nil || parsed.TDEE == nil {
		return TDEEEstimate{}, fmt.Errorf("%w: missing required keys", ErrBadEstimate)
	}
	return TDEEEstimate{
		BasalKcal:    int(math.Round(*parsed.Basal)),
		ActivityKcal: int(math.Round(*parsed.Activity)),
		TDEEKcal:     int(math.Round(*parsed.TDEE)),
		Detail:       strings.TrimSpace(parsed.Detail),
	}, nil
}

func (c *Client) model() string {
	if strings.TrimSpace(c.Model) != "" {
		return c.Model
	}
	return defaultModel
}

func (c *Client) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", fmt.Errorf("missing estimator API key")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal estimator payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create estimator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute estimator request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read estimator response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", ErrAuth
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var parsed chatResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			return "", fmt.Errorf("estimator request failed: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("estimator request failed with status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode estimator response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("estimator response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSONBlock returns the first balanced {...} block in s. The
// scan is quote-aware so braces inside string values do not end the
// block early.
func extractJSONBlock(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var rejectionPhrases = []string{
	"no puedo analizar",
	"no puedo procesar",
	"no puedo identificar",
	"no es posible analizar",
	"no se puede analizar",
	"cannot analyze",
	"cannot process",
	"cannot identify",
	"unable to analyze",
	"unable to identify",
}

// IsRejection reports whether the estimator declined to analyze the
// input. Such replies are discarded rather than persisted; the user is
// asked to retry with clearer input.
func IsRejection(report string) bool {
	lower := strings.ToLower(report)
	for _, phrase := range rejectionPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
