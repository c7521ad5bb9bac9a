// Package repository loads the bulletin snapshot from its JSON file.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roledad/visa-wait-time/internal/bulletin/domain"
)

// LoadError reports a failure to read or decode the bulletin snapshot file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("bulletin snapshot %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsNotExist reports whether err means the snapshot file is simply absent,
// which disables the bulletin module instead of failing startup.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Load reads and validates the bulletin snapshot. A missing file surfaces as
// a LoadError wrapping fs.ErrNotExist; anything else in the file that cannot
// be decoded is a hard error.
func Load(path string) (domain.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, &LoadError{Path: path, Err: err}
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, &LoadError{Path: path, Err: err}
	}

	if snap.BulletinTitle == "" {
		return domain.Snapshot{}, &LoadError{Path: path, Err: errors.New("missing bulletin_title")}
	}
	if len(snap.FinalAction) == 0 {
		return domain.Snapshot{}, &LoadError{Path: path, Err: errors.New("missing final_action rows")}
	}

	return snap, nil
}

// Save writes the snapshot as indented JSON, the format the fetch tool
// produces and Load expects.
func Save(path string, snap domain.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}
