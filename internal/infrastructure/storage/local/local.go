package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"files-manager-api/internal/infrastructure/storage"
)

// Store keeps every content object as a flat file under one directory.
// The directory is created on first write.
type Store struct {
	root string

	mkdirOnce sync.Once
	mkdirErr  error
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid content key %q", key)
	}
	return filepath.Join(s.root, key), nil
}

func (s *Store) ensureRoot() error {
	s.mkdirOnce.Do(func() {
		s.mkdirErr = os.MkdirAll(s.root, 0o755)
	})
	return s.mkdirErr
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if err = s.ensureRoot(); err != nil {
		return fmt.Errorf("create storage folder: %w", err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("content %s: %w", key, storage.ErrContentExists)
		}
		return fmt.Errorf("open content %s: %w", key, err)
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(p)
		return fmt.Errorf("write content %s: %w", key, err)
	}

	return nil
}

func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, int64, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, 0, fmt.Errorf("content %s: %w", key, storage.ErrContentNotFound)
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, 0, fmt.Errorf("content %s: %w", key, storage.ErrContentNotFound)
		}
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if !st.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("content %s: %w", key, storage.ErrContentNotFound)
	}

	return f, st.Size(), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
