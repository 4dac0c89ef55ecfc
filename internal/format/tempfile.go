package format

import (
	"fmt"
	"os"
)

// TempStore materializes document text into an artifact the external
// formatter can read. Each formatting request owns exactly one artifact and
// removes it before returning, cancelled or not.
type TempStore interface {
	WriteTemp(documentText, ext string) (string, error)
	RemoveTemp(path string) error
}

// OSTempStore writes artifacts into the system temp directory.
type OSTempStore struct{}

// WriteTemp writes the document to a fresh temp file carrying the document's
// extension, so extension-sniffing formatters pick the right language mode.
func (OSTempStore) WriteTemp(documentText, ext string) (string, error) {
	f, err := os.CreateTemp("", "fmtbridge-*"+ext)
	if err != nil {
		return "", fmt.Errorf("temp artifact: %w", err)
	}
	path := f.Name()
	if _, err := f.WriteString(documentText); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("temp artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("temp artifact: %w", err)
	}
	return path, nil
}

// RemoveTemp deletes the artifact. A vanished artifact is not an error.
func (OSTempStore) RemoveTemp(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
