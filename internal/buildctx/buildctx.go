// Package buildctx assembles the CompilationContext a build run carries
// from manifest loading through to compiler invocation: the selected
// profile, target triple, output layout, discovered packages, and resolved
// dependency graph.
package buildctx

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/kcjpm/kcjpm/internal/discover"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/resolver"
)

// Context is the fully assembled state one build invocation needs.
type Context struct {
	ProjectRoot string
	Manifest    manifest.Manifest
	Profile     manifest.Profile
	ProfileName string

	// TargetTriple identifies the host this build compiles for, in
	// <arch>-<os> form (spec.md does not mandate cross-compilation, so this
	// always names the running host).
	TargetTriple string

	SourceDir string
	OutputDir string

	Packages []discover.PackageInfo
	Resolved resolver.ResolvedGraph
}

// HostTriple returns the running host's triple, e.g. "amd64-linux".
func HostTriple() string {
	return fmt.Sprintf("%s-%s", runtime.GOARCH, runtime.GOOS)
}

// Assemble builds a Context for one build invocation. resolved may be the
// zero value when the caller is only discovering packages (e.g. `check`)
// without needing dependency resolution.
func Assemble(projectRoot string, m manifest.Manifest, profileName string, packages []discover.PackageInfo, resolved resolver.ResolvedGraph) (Context, error) {
	profile, err := manifest.SelectProfile(m, profileName)
	if err != nil {
		return Context{}, err
	}

	return Context{
		ProjectRoot:  projectRoot,
		Manifest:     m,
		Profile:      profile,
		ProfileName:  profileName,
		TargetTriple: HostTriple(),
		SourceDir:    filepath.Join(projectRoot, m.Build.SourceDir),
		OutputDir:    filepath.Join(projectRoot, m.Build.OutputDir, profileName),
		Packages:     packages,
		Resolved:     resolved,
	}, nil
}

// OutputPathFor returns the path of the compiled artifact for the package's
// declared output type.
func (c Context) OutputPathFor(pkgName string) string {
	ext := ""
	switch c.Manifest.Package.OutputType {
	case manifest.DynamicLibrary:
		ext = ".so"
	case manifest.StaticLibrary:
		ext = ".a"
	}
	return filepath.Join(c.OutputDir, pkgName+ext)
}
