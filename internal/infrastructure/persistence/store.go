// Package persistence implements the flat-file JSON stores for accounts and
// permanent pages. Every write is a whole-document overwrite; each store
// serializes its read-modify-write cycle behind a mutex so concurrent
// requests cannot clobber each other's changes.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Clock supplies the current time; injectable for tests.
type Clock func() time.Time

func ensureDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return nil
}

// readDocument loads the JSON document at path into out. It reports
// (false, nil) when the file does not exist and (false, err) when the content
// is unparsable, so the caller can substitute defaults.
func readDocument(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

// writeDocument overwrites the document at path with pretty-printed JSON.
func writeDocument(path string, v any) error {
	if err := ensureDataDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
