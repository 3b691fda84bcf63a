// Package store persists context records. Two address spaces exist, both
// with whole-file overwrite semantics: named records under the per-user
// state directory, and one ephemeral record per terminal session under the
// scratch directory. Last write wins; there is no locking or versioning.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ports/frs/internal/models"
)

// pathSafe replaces path separator characters in namespace and name
// components so a crafted name cannot escape the state directory.
var pathSafe = strings.NewReplacer("/", "·", "\\", "·")

// NotFoundError reports a load of a named context that does not exist.
type NotFoundError struct {
	Namespace string
	Name      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("context %s::%s not found", e.Namespace, e.Name)
}

// DecodeError reports a persisted record that cannot be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode context record %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Store reads and writes context records under a state directory.
type Store struct {
	// StateDir is the root for named records, one file per
	// (namespace, name) pair.
	StateDir string
}

// New returns a Store rooted at stateDir.
func New(stateDir string) *Store {
	return &Store{StateDir: stateDir}
}

// NamedPath returns the record path for a (namespace, name) pair.
func (s *Store) NamedPath(namespace, name string) string {
	return filepath.Join(s.StateDir, pathSafe.Replace(namespace), pathSafe.Replace(name)+".json")
}

// LoadNamed reads the record at (namespace, name). A missing record is a
// NotFoundError: silently substituting another context would make a later
// composed command diverge from what the user asked for.
func (s *Store) LoadNamed(namespace, name string) (*models.Context, error) {
	path := s.NamedPath(namespace, name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Namespace: namespace, Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("store.LoadNamed: read %s: %w", path, err)
	}
	ctx, err := models.Decode(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return ctx, nil
}

// SaveNamed writes ctx at the address named by its own metadata, creating
// missing parent directories.
func (s *Store) SaveNamed(ctx *models.Context) error {
	path := s.NamedPath(ctx.Meta.Namespace, ctx.Meta.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("store.SaveNamed: create %s: %w", filepath.Dir(path), err)
	}
	data, err := models.Encode(ctx)
	if err != nil {
		return fmt.Errorf("store.SaveNamed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store.SaveNamed: write %s: %w", path, err)
	}
	return nil
}

// LoadEphemeral reads the session record at path. A missing file is the
// expected first-use condition: ok is false and the error is nil so the
// caller substitutes a fresh base context.
func LoadEphemeral(path string) (ctx *models.Context, ok bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store.LoadEphemeral: read %s: %w", path, err)
	}
	ctx, err = models.Decode(data)
	if err != nil {
		return nil, false, &DecodeError{Path: path, Err: err}
	}
	return ctx, true, nil
}

// SaveEphemeral overwrites the session record at path.
func SaveEphemeral(path string, ctx *models.Context) error {
	data, err := models.Encode(ctx)
	if err != nil {
		return fmt.Errorf("store.SaveEphemeral: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store.SaveEphemeral: write %s: %w", path, err)
	}
	return nil
}
