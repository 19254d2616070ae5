package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage implements Storage on the local filesystem. Files land
// under basePath and are served by the HTTP server at publicPrefix.
type LocalStorage struct {
	basePath     string
	publicPrefix string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, publicPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath:     basePath,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}, nil
}

// BasePath returns the directory backing this store, for static serving
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

// UploadAvatar writes the avatar to disk and returns its serving URL
func (s *LocalStorage) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, data io.Reader) (string, error) {
	key := avatarKey(userID, filename)
	fullPath := filepath.Join(s.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return s.publicPrefix + "/" + key, nil
}

// DeleteAvatar removes any stored avatar for the user
func (s *LocalStorage) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	for _, ext := range avatarExtensions {
		fullPath := filepath.Join(s.basePath, "avatars", userID.String()+ext)
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	return nil
}
