package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// AudioStore persists narration audio and returns a public URL for it.
type AudioStore interface {
	Upload(ctx context.Context, data []byte, filename, ownerID string) (string, error)
}

// localAudioStore writes audio files to a mounted volume served by the
// static file tier, one subdirectory per owner.
type localAudioStore struct {
	savePath string
	baseURL  string
	logger   *zap.Logger
}

// NewLocalAudioStore creates the store. Both the save path and the public
// base URL must be configured.
func NewLocalAudioStore(savePath, baseURL string, logger *zap.Logger) (AudioStore, error) {
	if savePath == "" {
		return nil, errors.New("audio save path (AUDIO_SAVE_PATH) is not configured")
	}
	if baseURL == "" {
		return nil, errors.New("audio public base URL (AUDIO_PUBLIC_BASE_URL) is not configured")
	}
	return &localAudioStore{
		savePath: savePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger.Named("AudioStore"),
	}, nil
}

func (s *localAudioStore) Upload(ctx context.Context, data []byte, filename, ownerID string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("refusing to store empty audio")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.savePath, ownerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("Failed to write audio file", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	url := s.baseURL + "/" + ownerID + "/" + filename
	s.logger.Info("Audio stored",
		zap.String("path", path), zap.Int("bytes", len(data)), zap.String("url", url))
	return url, nil
}
