package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileTier is a durable tier that keeps one JSON file per scope and key.
type FileTier struct {
	BaseDir string
}

func NewFileTier(baseDir string) *FileTier {
	return &FileTier{BaseDir: baseDir}
}

func (l *FileTier) Name() string { return "local" }

func (l *FileTier) path(scope, key string) string {
	return filepath.Join(l.BaseDir, filepath.Base(scope), filepath.Base(key)+".json")
}

func (l *FileTier) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	_ = ctx
	if err := checkScope(scope, key); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(l.path(scope, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (l *FileTier) Put(ctx context.Context, scope, key string, value []byte) error {
	_ = ctx
	if err := checkScope(scope, key); err != nil {
		return err
	}
	dst := l.path(scope, key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	// write-then-rename so readers never see a torn record
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (l *FileTier) Delete(ctx context.Context, scope, key string) error {
	_ = ctx
	if err := checkScope(scope, key); err != nil {
		return err
	}
	err := os.Remove(l.path(scope, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *FileTier) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
