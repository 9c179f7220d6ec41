package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcjpm/kcjpm/internal/adapters"
	"github.com/kcjpm/kcjpm/internal/manifest"
)

const nativeDoc = `
[package]
name = "hello"
version = "0.1.0"
compilerVersion = "1.0"
outputType = "executable"

[dependencies]
fmtlib = "1.2.0"

[dependencies.json]
git = "https://example.com/json.git"
tag = "v2.0.0"

[dependencies.util]
path = "../util"
optional = true

[build]
sourceDir = "src"
jobs = 4
`

func writeManifest(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestLoadFromProjectRootNativeDialect(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifest.NativeFileName, nativeDoc)

	fs := adapters.NewOSFilesystem()
	m, err := manifest.LoadFromProjectRoot(context.Background(), fs, dir)
	require.NoError(t, err)

	assert.Equal(t, "hello", m.Package.Name)
	assert.Equal(t, "0.1.0", m.Package.Version)
	assert.Equal(t, manifest.Executable, m.Package.OutputType)

	require.Contains(t, m.Dependencies, "fmtlib")
	assert.Equal(t, manifest.KindRegistry, m.Dependencies["fmtlib"].Kind)
	assert.Equal(t, "1.2.0", m.Dependencies["fmtlib"].RegistryVersion)

	require.Contains(t, m.Dependencies, "json")
	jsonDep := m.Dependencies["json"]
	assert.Equal(t, manifest.KindGit, jsonDep.Kind)
	assert.Equal(t, "https://example.com/json.git", jsonDep.GitURL)
	assert.Equal(t, manifest.Tag, jsonDep.Ref.Kind)
	assert.Equal(t, "v2.0.0", jsonDep.Ref.Value)

	require.Contains(t, m.Dependencies, "util")
	utilDep := m.Dependencies["util"]
	assert.Equal(t, manifest.KindPath, utilDep.Kind)
	assert.Equal(t, "../util", utilDep.Path)
	assert.True(t, utilDep.Optional)

	assert.Equal(t, "src", m.Build.SourceDir)
	assert.Equal(t, 4, m.Build.Jobs)
}

func TestLoadAndConvertAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifest.NativeFileName, `
[package]
name = "bare"
`)

	fs := adapters.NewOSFilesystem()
	m, err := manifest.LoadAndConvert(context.Background(), fs, dir)
	require.NoError(t, err)

	assert.Equal(t, "src", m.Build.SourceDir)
	assert.Equal(t, "target", m.Build.OutputDir)
	assert.True(t, m.Build.Parallel)
	assert.Len(t, m.Profiles, 3)
	assert.Contains(t, m.Profiles, "release")
	assert.NotEmpty(t, m.Registry.Default)
}

func TestLoadFromProjectRootMissingManifest(t *testing.T) {
	dir := t.TempDir()
	fs := adapters.NewOSFilesystem()
	_, err := manifest.LoadFromProjectRoot(context.Background(), fs, dir)
	require.Error(t, err)
	assert.IsType(t, manifest.ValidationError{}, err)
}

func TestLoadFromProjectRootMissingPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifest.NativeFileName, `
[package]
version = "0.1.0"
`)
	fs := adapters.NewOSFilesystem()
	_, err := manifest.LoadFromProjectRoot(context.Background(), fs, dir)
	require.Error(t, err)
	var parseErr manifest.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestLoadFromProjectRootBadDependencyTable(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, manifest.NativeFileName, `
[package]
name = "broken"

[dependencies.bad]
git = "https://example.com/x.git"
path = "../x"
`)
	fs := adapters.NewOSFilesystem()
	_, err := manifest.LoadFromProjectRoot(context.Background(), fs, dir)
	require.Error(t, err)
}
