package fetch

import (
	"context"
	"path/filepath"

	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/lockfile"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/resolver"
)

// PathFetcher resolves a path dependency relative to the project root. Path
// dependencies are never cached or checksummed — they are expected to be
// edited in place alongside the project that depends on them.
type PathFetcher struct {
	FS          domain.FS
	ProjectRoot string
}

func (p *PathFetcher) Fetch(ctx context.Context, spec manifest.DependencySpec) (resolver.FetchedPackage, error) {
	dir := p.FS.Normalize(filepath.Join(p.ProjectRoot, spec.Path))
	m, err := loadManifest(ctx, p.FS, dir)
	if err != nil {
		return resolver.FetchedPackage{}, err
	}

	return resolver.FetchedPackage{
		Version:      m.Package.Version,
		Source:       lockfile.PackageSource{Kind: manifest.KindPath, Path: spec.Path},
		Dependencies: m.Dependencies,
	}, nil
}
