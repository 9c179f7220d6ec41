// Package adapters provides concrete implementations of the domain ports:
// filesystem, process execution, and logging.
package adapters

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// OSFilesystem implements domain.FS using the os package.
type OSFilesystem struct{}

// NewOSFilesystem creates an OS-backed filesystem adapter.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

func (f *OSFilesystem) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func (f *OSFilesystem) IsDir(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (f *OSFilesystem) IsFile(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *OSFilesystem) CreateDirectories(ctx context.Context, path string, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(path, perm)
}

func (f *OSFilesystem) DeleteRecursively(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

func (f *OSFilesystem) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *OSFilesystem) WriteText(ctx context.Context, path string, data string, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(data), perm)
}

func (f *OSFilesystem) ListFiles(ctx context.Context, path string) ([]domain.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	result := make([]domain.DirEntry, len(entries))
	for i, e := range entries {
		result[i] = osDirEntry{entry: e}
	}
	return result, nil
}

func (f *OSFilesystem) Copy(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode())
}

func (f *OSFilesystem) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

func (f *OSFilesystem) AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}

func (f *OSFilesystem) Normalize(path string) string {
	return domain.NewPath(path).String()
}

func (f *OSFilesystem) WorkingDirectory() (string, error) {
	return os.Getwd()
}

func (f *OSFilesystem) TempDirectory() string {
	return os.TempDir()
}

// osFileInfo wraps fs.FileInfo to implement domain.FileInfo.
type osFileInfo struct {
	info fs.FileInfo
}

func (i osFileInfo) Name() string      { return i.info.Name() }
func (i osFileInfo) Size() int64       { return i.info.Size() }
func (i osFileInfo) Mode() fs.FileMode { return i.info.Mode() }
func (i osFileInfo) IsDir() bool       { return i.info.IsDir() }

// osDirEntry wraps fs.DirEntry to implement domain.DirEntry.
type osDirEntry struct {
	entry fs.DirEntry
}

func (e osDirEntry) Name() string { return e.entry.Name() }
func (e osDirEntry) IsDir() bool  { return e.entry.IsDir() }

func (e osDirEntry) Info() (domain.FileInfo, error) {
	info, err := e.entry.Info()
	if err != nil {
		return nil, err
	}
	return osFileInfo{info: info}, nil
}
