package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalStorage writes images under a media directory served by the web
// server at /media/. Used in development and tests.
type LocalStorage struct {
	mediaDir string
}

// NewLocalStorage creates the media directory if needed.
func NewLocalStorage(mediaDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStorage{mediaDir: mediaDir}, nil
}

func (ls *LocalStorage) SaveImage(_ context.Context, data []byte, ownerID, filename string) (string, error) {
	key := imageKey(ownerID, filename)

	path := filepath.Join(ls.mediaDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return "/media/" + key, nil
}

// imageKey builds an organized object key: posts/{year}/{month}/{ownerID}/{fileID}{ext}
func imageKey(ownerID, filename string) string {
	fileID := uuid.New().String()
	extension := filepath.Ext(filename)

	now := time.Now()
	return fmt.Sprintf("posts/%d/%02d/%s/%s%s",
		now.Year(), now.Month(), ownerID, fileID, extension)
}
