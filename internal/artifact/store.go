// Package artifact materializes generated deck bytes into a local,
// saveable handle. A Store exposes at most one current handle; a new
// result supersedes and releases the previous one so repeated
// submissions do not accumulate temp files.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// SuggestedFilename is the download name offered to the user,
// regardless of what the backend actually produced.
const SuggestedFilename = "generated.pptx"

// Handle is a session-local reference to one generated artifact.
type Handle struct {
	data []byte
	path string
}

// Bytes returns the raw artifact content.
func (h *Handle) Bytes() []byte {
	return h.data
}

// Path returns the temp file backing this handle.
func (h *Handle) Path() string {
	return h.path
}

// SaveTo copies the artifact to dest. A dest naming a directory (or
// empty) gets SuggestedFilename appended.
func (h *Handle) SaveTo(dest string) (string, error) {
	if dest == "" {
		dest = SuggestedFilename
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		dest = filepath.Join(dest, SuggestedFilename)
	}
	if err := os.WriteFile(dest, h.data, 0644); err != nil {
		return "", fmt.Errorf("failed to save artifact: %w", err)
	}
	return dest, nil
}

// release deletes the backing temp file.
func (h *Handle) release() {
	if h.path != "" {
		os.Remove(h.path)
	}
}

// Store owns the current artifact handle for a session.
type Store struct {
	dir     string
	current *Handle
}

// NewStore creates a store writing temp files under dir (the system
// temp directory when empty).
func NewStore(dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{dir: dir}
}

// Materialize wraps the bytes in a new current handle, releasing the
// handle it supersedes.
func (s *Store) Materialize(data []byte) (*Handle, error) {
	f, err := os.CreateTemp(s.dir, "deckgen-*.pptx")
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write artifact file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to close artifact file: %w", err)
	}

	if s.current != nil {
		s.current.release()
	}
	s.current = &Handle{data: data, path: f.Name()}
	return s.current, nil
}

// Current returns the current handle, nil when none has been
// materialized yet (or the store was closed).
func (s *Store) Current() *Handle {
	return s.current
}

// Close releases the current handle.
func (s *Store) Close() {
	if s.current != nil {
		s.current.release()
		s.current = nil
	}
}
