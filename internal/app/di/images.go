package di

import (
	"context"
	"fmt"
	"net/http"

	"foodie/internal/feature/recipe/usecase"
	"foodie/internal/platform/storage"
)

// Images is the configured image store. Local is set when this process serves
// the images itself.
type Images struct {
	Store usecase.ImageStore
	Local *storage.LocalStore
}

// NewImages opens the image store selected by cfg.Backend.
func NewImages(ctx context.Context, cfg storage.Config, httpClient *http.Client) (Images, error) {
	switch cfg.Backend {
	case storage.BackendLocal, "":
		local, err := storage.NewLocalStore(cfg.Dir, cfg.URLPrefix)
		if err != nil {
			return Images{}, err
		}
		return Images{Store: local, Local: local}, nil
	case storage.BackendS3:
		s3, err := storage.NewS3Store(ctx, cfg, httpClient)
		if err != nil {
			return Images{}, err
		}
		return Images{Store: s3}, nil
	default:
		return Images{}, fmt.Errorf("unsupported IMAGE_STORAGE %q", cfg.Backend)
	}
}
