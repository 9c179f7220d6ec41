package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcjpm/kcjpm/internal/buildctx"
	"github.com/kcjpm/kcjpm/internal/compiler"
	"github.com/kcjpm/kcjpm/internal/discover"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/manifest"
)

type fakeExecutor struct {
	argv   []string
	result domain.ExecResult
}

func (f *fakeExecutor) Execute(ctx context.Context, argv []string, cwd string, env []string, captureOutput bool) (domain.ExecResult, error) {
	f.argv = argv
	return f.result, nil
}

func (f *fakeExecutor) ExecuteAsync(ctx context.Context, argv []string, cwd string, env []string, onStdout, onStderr func(string)) (domain.ProcessHandle, error) {
	return nil, nil
}

func TestCompileBuildsArgvFromProfile(t *testing.T) {
	exec := &fakeExecutor{result: domain.ExecResult{ExitCode: 0}}
	c := compiler.New(exec, "")

	bc := buildctx.Context{
		Manifest: manifest.Manifest{Package: manifest.PackageInfo{OutputType: manifest.Executable}},
		Profile:  manifest.Profile{OptimizationLevel: 2, DebugInfo: true, LTO: true},
		OutputDir: "/target/release",
	}
	pkg := discover.PackageInfo{Name: "main", Files: []string{"main.cj"}}

	result, err := c.Compile(context.Background(), bc, pkg)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Contains(t, exec.argv, "main.cj")
	assert.Contains(t, exec.argv, "-g")
	assert.Contains(t, exec.argv, "--lto")
}

func TestParseDiagnosticsExtractsErrorsAndWarnings(t *testing.T) {
	stderr := "main.cj:10:5: error: undefined symbol 'foo'\n" +
		"main.cj:12:1: warning: unused import\n" +
		"note that build failed\n"

	diags := compiler.ParseDiagnostics(stderr)
	require.Len(t, diags, 2)
	assert.Equal(t, 10, diags[0].Line)
	assert.Equal(t, "undefined symbol 'foo'", diags[0].Message)
	assert.Equal(t, 12, diags[1].Line)
}
