package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text   string
	err    error
	model  string
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestWriter_Describe(t *testing.T) {
	fake := &fakeGenerator{text: "  A bright tomato soup.\n"}
	w := &Writer{models: fake, model: DefaultModel}

	draft, err := w.Describe(context.Background(), "Tomato Soup", "tomatoes, basil")

	require.NoError(t, err)
	assert.Equal(t, "A bright tomato soup.", draft)
	assert.Equal(t, DefaultModel, fake.model)
	assert.Contains(t, fake.prompt, `"Tomato Soup"`)
	assert.Contains(t, fake.prompt, "tomatoes, basil")
}

func TestWriter_Errors(t *testing.T) {
	w := &Writer{models: &fakeGenerator{err: errors.New("permission denied")}, model: DefaultModel}
	_, err := w.Describe(context.Background(), "Soup", "")
	assert.ErrorContains(t, err, "permission denied")

	w = &Writer{models: &fakeGenerator{text: "   "}, model: DefaultModel}
	_, err = w.Describe(context.Background(), "Soup", "")
	assert.Error(t, err)
}

func TestPrompt_OmitsEmptyIngredients(t *testing.T) {
	assert.NotContains(t, prompt("Soup", ""), "ingredients")
}

type limiterFunc func(ctx context.Context) error

func (f limiterFunc) Wait(ctx context.Context) error { return f(ctx) }

func TestWriter_WaitsForLimiter(t *testing.T) {
	fake := &fakeGenerator{text: "draft"}
	w := &Writer{models: fake, model: DefaultModel, limiter: limiterFunc(func(context.Context) error {
		return context.Canceled
	})}

	_, err := w.Describe(context.Background(), "Soup", "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.prompt, "no request may be sent past the limiter")
}
