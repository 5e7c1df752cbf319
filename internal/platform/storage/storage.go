// Package storage persists uploaded recipe images, either in a local directory
// served by the application or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"foodie/internal/platform/config"
)

const (
	// BackendLocal stores images under Config.Dir.
	BackendLocal = "local"
	// BackendS3 stores images in Config.Bucket.
	BackendS3 = "s3"
)

// ErrForeignURL is returned when deleting a URL this store did not produce.
var ErrForeignURL = errors.New("image url does not belong to this store")

// Config holds image storage settings.
type Config struct {
	Backend   string
	Dir       string
	URLPrefix string

	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// LoadConfigFromEnv reads storage settings from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Backend:   config.String("IMAGE_STORAGE", BackendLocal),
		Dir:       config.String("UPLOAD_DIR", "static/uploads"),
		URLPrefix: config.String("UPLOAD_URL_PREFIX", "/static/uploads"),
		Bucket:    os.Getenv("AWS_S3_BUCKET"),
		Region:    os.Getenv("AWS_S3_REGION"),
		AccessKey: os.Getenv("AWS_ACCESS_KEY"),
		SecretKey: os.Getenv("AWS_SECRET_KEY"),
		PublicURL: os.Getenv("AWS_S3_PUBLIC_URL"),
	}
}

// keyFromURL returns the object key of url when it lives under prefix.
func keyFromURL(prefix, url string) (string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" || key != path.Base(key) || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrForeignURL, url)
	}
	return key, nil
}

// LocalStore writes images into a directory that is served under URLPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the directory images are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPrefix returns the path the directory is served under.
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// Save writes data under key and returns its URL path. A partially written file
// never becomes visible.
func (s *LocalStore) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	if key != filepath.Base(key) {
		return "", fmt.Errorf("invalid image key %q", key)
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return "", err
	}
	return s.urlPrefix + "/" + key, nil
}

// Delete removes the file behind url. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	key, err := keyFromURL(s.urlPrefix, url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
