package di

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"foodie/internal/feature/recipe/usecase"
	"foodie/internal/platform/config"
	"foodie/internal/platform/gemini"
	"foodie/internal/platform/vision"
	"foodie/internal/shared/ratelimiter"
)

// AIConfig selects the optional AI collaborators of the recipe usecase.
type AIConfig struct {
	ImageLabeling bool
	Gemini        bool
	GeminiModel   string

	// GeminiPerMinute caps drafting requests; zero disables the cap.
	GeminiPerMinute int
}

// LoadAIConfig reads AI settings from environment variables.
func LoadAIConfig() AIConfig {
	return AIConfig{
		ImageLabeling:   config.Bool("IMAGE_LABELING", false),
		Gemini:          config.Bool("GEMINI_ENABLED", false),
		GeminiModel:     config.String("GEMINI_MODEL", gemini.DefaultModel),
		GeminiPerMinute: config.Int("GEMINI_RATE_PER_MINUTE", 10),
	}
}

// NewRecipeOptions builds the enabled AI collaborators. A collaborator that fails
// to start is logged and left out; the returned func releases the others.
func NewRecipeOptions(ctx context.Context, cfg AIConfig, httpClient *http.Client) ([]usecase.Option, func()) {
	var (
		opts    []usecase.Option
		closers []func() error
	)

	if cfg.ImageLabeling {
		labeler, err := vision.NewLabeler(ctx)
		if err != nil {
			slog.Warn("image labelling disabled", "error", err)
		} else {
			opts = append(opts, usecase.WithLabeler(labeler))
			closers = append(closers, labeler.Close)
		}
	}

	if cfg.Gemini {
		var limiter ratelimiter.Limiter
		if cfg.GeminiPerMinute > 0 {
			limiter = ratelimiter.NewRateLimiter(cfg.GeminiPerMinute, time.Minute)
		}
		writer, err := gemini.NewWriter(ctx, cfg.GeminiModel, httpClient, limiter)
		if err != nil {
			slog.Warn("description drafting disabled", "error", err)
		} else {
			opts = append(opts, usecase.WithDescriptionWriter(writer))
		}
	}

	return opts, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				slog.Error("failed to close AI client", "error", err)
			}
		}
	}
}
