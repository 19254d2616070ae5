package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage persists profile avatars and hands back the URL clients use
// to fetch them.
type Storage interface {
	// UploadAvatar stores a user's avatar and returns its public URL.
	// Re-uploading for the same user replaces the previous image.
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, data io.Reader) (string, error)

	// DeleteAvatar removes a user's stored avatars, if any
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	PublicPrefix string // URL prefix for locally served files
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath, cfg.PublicPrefix)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv creates a storage instance from environment variables
func NewStorageFromEnv() (Storage, error) {
	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local" // Default to local for development
	}

	cfg := StorageConfig{
		Type: StorageType(storageType),
	}

	switch StorageType(storageType) {
	case StorageTypeLocal:
		cfg.LocalPath = os.Getenv("STORAGE_LOCAL_PATH")
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./storage/uploads"
		}
		cfg.PublicPrefix = os.Getenv("STORAGE_PUBLIC_PREFIX")
		if cfg.PublicPrefix == "" {
			cfg.PublicPrefix = "/uploads"
		}
		return NewLocalStorage(cfg.LocalPath, cfg.PublicPrefix)

	case StorageTypeS3:
		cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET")
		cfg.S3Region = os.Getenv("AWS_REGION")
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1" // Default region
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}

		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}

// avatarKey derives the deterministic per-user object key so repeat
// uploads overwrite the previous avatar
func avatarKey(userID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".gif", ".webp":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("avatars/%s%s", userID.String(), ext)
}

// avatarExtensions lists the keys DeleteAvatar has to probe, since the
// stored extension depends on what was uploaded
var avatarExtensions = []string{".jpg", ".png", ".gif", ".webp"}
