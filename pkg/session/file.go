package session

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

// FileStore is a file-based session store for CLI applications.
// Sessions are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a new file-based session store.
// If baseDir is empty, defaults to ~/.config/treemap/sessions/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeStorage, err, "get config dir")
		}
		baseDir = filepath.Join(dir, "treemap", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create session dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := errs.ValidateSessionID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.read(s.sessionPath(id))
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, notFound(id)
	}
	return sess, err
}

func (s *FileStore) read(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidSession, err, "parse session %s", filepath.Base(path))
	}
	return &sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if err := errs.ValidateSessionID(sess.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "marshal session")
	}

	tmp := s.sessionPath(sess.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write session file")
	}
	if err := os.Rename(tmp, s.sessionPath(sess.ID)); err != nil {
		os.Remove(tmp)
		return errs.Wrap(errs.ErrCodeStorage, err, "write session file")
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateSessionID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(id)); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeStorage, err, "remove session file")
	}
	return nil
}

// List reads every session file. Files that fail to parse are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "read session dir")
	}

	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sess, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, sess.Summary())
	}
	slices.SortFunc(out, func(a, b Summary) int { return cmp.Compare(b.UpdatedAt.UnixNano(), a.UpdatedAt.UnixNano()) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}
