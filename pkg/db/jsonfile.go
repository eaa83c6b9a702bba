package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jakechorley/volunteer-roster/pkg/core/model"
)

const (
	dataDirPerms  = 0755
	dataFilePerms = 0644
)

// ErrCorruptMirror is returned when the mirror file exists but cannot be parsed
var ErrCorruptMirror = errors.New("mirror file is corrupt")

// JSONFile stores the roster as a JSON array in a single file.
// Every write replaces the whole file.
type JSONFile struct {
	path string
}

// NewJSONFile creates a JSON file mirror at the given path
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the location of the mirror file
func (f *JSONFile) Path() string {
	return f.path
}

// LoadVolunteers reads the roster from disk
func (f *JSONFile) LoadVolunteers(ctx context.Context) ([]model.Volunteer, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []model.Volunteer{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Volunteer{}, nil
	}

	var volunteers []model.Volunteer
	if err := json.Unmarshal(data, &volunteers); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptMirror, f.path, err)
	}
	if volunteers == nil {
		volunteers = []model.Volunteer{}
	}

	return volunteers, nil
}

// ReplaceVolunteers writes the full roster to a temp file in the same
// directory and renames it over the mirror, so readers never see a partial file.
func (f *JSONFile) ReplaceVolunteers(ctx context.Context, volunteers []model.Volunteer) error {
	data, err := json.MarshalIndent(model.CloneAll(volunteers), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal volunteers: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dataDirPerms); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, dataFilePerms); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set mirror file permissions: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace mirror file: %w", err)
	}

	return nil
}

// Quarantine moves an unreadable mirror file aside so the next write starts
// from a clean file. Returns the new location of the old file.
func (f *JSONFile) Quarantine(now time.Time) (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%s", f.path, now.Format("2006-01-02_15-04-05"))
	if err := os.Rename(f.path, dest); err != nil {
		return "", fmt.Errorf("failed to quarantine mirror file: %w", err)
	}
	return dest, nil
}
