// Package storage persists consultation text blobs under the media root.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes transcription and summary files for consultations.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// SaveTranscription stores the transcription text for a consultation and
// returns the path persisted on the consulta row.
func (s *FileStore) SaveTranscription(consultationID int64, text string) (string, error) {
	return s.save("transcriptions", fmt.Sprintf("transcription_%d.txt", consultationID), text)
}

// SaveSummary stores the summary text for a consultation.
func (s *FileStore) SaveSummary(consultationID int64, text string) (string, error) {
	return s.save("summaries", fmt.Sprintf("summary_%d.txt", consultationID), text)
}

func (s *FileStore) save(subdir, name, text string) (string, error) {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", subdir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// Read returns a stored blob's contents.
func (s *FileStore) Read(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
