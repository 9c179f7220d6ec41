package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFilesystemReadWriteText(t *testing.T) {
	fs := NewOSFilesystem()
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.toml")

	require.NoError(t, fs.WriteText(ctx, path, "hello", 0o644))
	assert.True(t, fs.Exists(ctx, path))

	got, err := fs.ReadText(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestOSFilesystemIsDirIsFile(t *testing.T) {
	fs := NewOSFilesystem()
	ctx := context.Background()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	isDir, err := fs.IsDir(ctx, dir)
	require.NoError(t, err)
	assert.True(t, isDir)

	isFile, err := fs.IsFile(ctx, file)
	require.NoError(t, err)
	assert.True(t, isFile)
}

func TestOSFilesystemCreateAndDeleteRecursively(t *testing.T) {
	fs := NewOSFilesystem()
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, fs.CreateDirectories(ctx, dir, 0o755))
	assert.True(t, fs.Exists(ctx, dir))

	require.NoError(t, fs.DeleteRecursively(ctx, dir))
	assert.False(t, fs.Exists(ctx, dir))
}

func TestOSFilesystemListFiles(t *testing.T) {
	fs := NewOSFilesystem()
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cj"), []byte(""), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	entries, err := fs.ListFiles(ctx, dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = e.IsDir()
	}
	assert.False(t, names["a.cj"])
	assert.True(t, names["sub"])
}

func TestOSFilesystemCopyAndMove(t *testing.T) {
	fs := NewOSFilesystem()
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	cp := filepath.Join(dir, "copy.txt")
	require.NoError(t, fs.Copy(ctx, src, cp))
	data, err := fs.ReadText(ctx, cp)
	require.NoError(t, err)
	assert.Equal(t, "payload", data)

	moved := filepath.Join(dir, "moved.txt")
	require.NoError(t, fs.Move(ctx, cp, moved))
	assert.False(t, fs.Exists(ctx, cp))
	assert.True(t, fs.Exists(ctx, moved))
}

func TestOSFilesystemNormalize(t *testing.T) {
	fs := NewOSFilesystem()
	assert.Equal(t, "a/b", fs.Normalize(`a\b\`))
}
