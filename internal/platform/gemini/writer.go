// Package gemini drafts recipe descriptions with the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"foodie/internal/shared/ratelimiter"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Writer drafts short recipe descriptions.
type Writer struct {
	models  generator
	model   string
	limiter ratelimiter.Limiter
}

// NewWriter creates a Writer sending requests through httpClient. The client reads
// its credentials from the environment (GEMINI_API_KEY, or GOOGLE_GENAI_USE_VERTEXAI
// with GOOGLE_CLOUD_PROJECT and GOOGLE_CLOUD_LOCATION). A nil limiter leaves
// requests unthrottled.
func NewWriter(ctx context.Context, model string, httpClient *http.Client, limiter ratelimiter.Limiter) (*Writer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Writer{models: client.Models, model: model, limiter: limiter}, nil
}

func prompt(title, ingredients string) string {
	var b strings.Builder
	b.WriteString("Write an appetising description of at most 80 words for a home recipe titled ")
	fmt.Fprintf(&b, "%q.", title)
	if ingredients != "" {
		fmt.Fprintf(&b, " Its ingredients are: %s.", ingredients)
	}
	b.WriteString(" Answer with the description only, as plain text without markdown.")
	return b.String()
}

// Describe asks the model for a description of the recipe.
func (w *Writer) Describe(ctx context.Context, title, ingredients string) (string, error) {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	resp, err := w.models.GenerateContent(ctx, w.model, genai.Text(prompt(title, ingredients)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty draft")
	}
	return text, nil
}
