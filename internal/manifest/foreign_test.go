package manifest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcjpm/kcjpm/internal/adapters"
	"github.com/kcjpm/kcjpm/internal/manifest"
)

const foreignDoc = `
[package]
name = "hello"
version = "0.1.0"
cjc-version = "1.0"
output-type = "static-library"
src-dir = "source"
target-dir = "build"

[dependencies]
fmtlib = "1.2.0"

[dependencies.json]
git = "https://example.com/json.git"
branch = "develop"

[package-configuration]
custom-flag = "enabled"
`

func TestLoadFromProjectRootForeignDialect(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifest.ForeignFileName, foreignDoc)

	fs := adapters.NewOSFilesystem()
	m, err := manifest.LoadFromProjectRoot(context.Background(), fs, dir)
	require.NoError(t, err)

	assert.Equal(t, "hello", m.Package.Name)
	assert.Equal(t, "1.0", m.Package.CompilerVersion)
	assert.Equal(t, manifest.StaticLibrary, m.Package.OutputType)
	assert.Equal(t, "source", m.Build.SourceDir)
	assert.Equal(t, "build", m.Build.OutputDir)

	require.Contains(t, m.Dependencies, "json")
	assert.Equal(t, manifest.Branch, m.Dependencies["json"].Ref.Kind)
	assert.Equal(t, "develop", m.Dependencies["json"].Ref.Value)

	assert.Equal(t, "enabled", m.RawForeignConfig["custom-flag"])
}

func TestDetectDialectPrefersNativeWhenBothPresent(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifest.NativeFileName, nativeDoc)
	writeManifest(t, dir, manifest.ForeignFileName, foreignDoc)

	fs := adapters.NewOSFilesystem()
	dialect, path, err := manifest.DetectDialect(context.Background(), fs, dir)
	require.NoError(t, err)
	assert.Equal(t, manifest.Canonical, dialect)
	assert.Contains(t, path, manifest.NativeFileName)
}

// TestBothDialectsYieldSameSemanticContent checks that parsing either dialect
// for the same logical project yields the same package name and equal
// dependency kinds, regardless of surface syntax.
func TestBothDialectsYieldSameSemanticContent(t *testing.T) {
	nativeDir := t.TempDir()
	writeManifest(t, nativeDir, manifest.NativeFileName, nativeDoc)
	foreignDir := t.TempDir()
	writeManifest(t, foreignDir, manifest.ForeignFileName, foreignDoc)

	fs := adapters.NewOSFilesystem()
	native, err := manifest.LoadFromProjectRoot(context.Background(), fs, nativeDir)
	require.NoError(t, err)
	foreign, err := manifest.LoadFromProjectRoot(context.Background(), fs, foreignDir)
	require.NoError(t, err)

	assert.Equal(t, native.Package.Name, foreign.Package.Name)
	assert.Equal(t, native.Dependencies["json"].Kind, foreign.Dependencies["json"].Kind)
	assert.Equal(t, native.Dependencies["fmtlib"].Kind, foreign.Dependencies["fmtlib"].Kind)
}
