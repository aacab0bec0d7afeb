package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// MediaStore persists generated media under the static root, addressed by a
// hash of the generation prompt. Repeated prompts map to the same file, so
// a regenerated answer reuses its illustration instead of writing a copy.
type MediaStore struct {
	staticDir string
}

// NewMediaStore creates the images and audio subdirectories under staticDir.
func NewMediaStore(staticDir string) (*MediaStore, error) {
	for _, sub := range []string{"images", "audio"} {
		if err := os.MkdirAll(filepath.Join(staticDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", sub, err)
		}
	}
	return &MediaStore{staticDir: staticDir}, nil
}

// SaveImage writes image bytes keyed by prompt and returns the public URL
// path. An existing file for the same prompt is left untouched.
func (m *MediaStore) SaveImage(prompt string, data []byte) (string, error) {
	return m.save("images", contentKey(prompt)+".png", data)
}

// SaveAudio writes audio bytes keyed by the narrated text and returns the
// public URL path.
func (m *MediaStore) SaveAudio(text string, data []byte) (string, error) {
	return m.save("audio", contentKey(text)+".mp3", data)
}

func (m *MediaStore) save(sub, filename string, data []byte) (string, error) {
	path := filepath.Join(m.staticDir, sub, filename)
	if _, err := os.Stat(path); err == nil {
		return "/static/" + sub + "/" + filename, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return "/static/" + sub + "/" + filename, nil
}

func contentKey(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
