package fetch

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/kcjpm/kcjpm/internal/adapters"
	"github.com/kcjpm/kcjpm/internal/buildlock"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/lockfile"
	"github.com/kcjpm/kcjpm/internal/manifest"
	"github.com/kcjpm/kcjpm/internal/resolver"
	"github.com/kcjpm/kcjpm/internal/retry"
)

// DependencyErrorKind discriminates the ways a registry fetch can fail,
// matching the taxonomy a caller needs to tell "this package doesn't
// exist" apart from "the registry is having a bad day" apart from "what we
// got back isn't what was advertised".
type DependencyErrorKind int

const (
	DependencyNotFound DependencyErrorKind = iota
	RegistryUnreachable
	ChecksumMismatch
)

// DependencyError reports a classified registry fetch failure for one
// package version.
type DependencyError struct {
	Kind    DependencyErrorKind
	Package string
	Version string
	URL     string
	Err     error
}

func (e DependencyError) Error() string {
	switch e.Kind {
	case DependencyNotFound:
		return fmt.Sprintf("dependency %s@%s not found at %s", e.Package, e.Version, e.URL)
	case ChecksumMismatch:
		return fmt.Sprintf("checksum mismatch for %s@%s from %s: %v", e.Package, e.Version, e.URL, e.Err)
	default:
		return fmt.Sprintf("registry unreachable fetching %s@%s from %s: %v", e.Package, e.Version, e.URL, e.Err)
	}
}

func (e DependencyError) Unwrap() error { return e.Err }

// RegistryFetcher downloads a package archive (<name>/<version>.tar.gz) from a
// named registry, verifies its checksum against the registry's advertised
// digest (<name>/<version>.sha256), and extracts it into a content-addressed
// cache directory.
type RegistryFetcher struct {
	FS         domain.FS
	HTTP       adapters.HTTPClient
	CacheRoot  string
	Registries map[string]string // registry name -> base URL
	Retry      retry.Config
}

func (r *RegistryFetcher) Fetch(ctx context.Context, spec manifest.DependencySpec) (resolver.FetchedPackage, error) {
	baseURL := r.baseURLFor(spec.RegistryName)
	archiveURL := fmt.Sprintf("%s/%s/%s.tar.gz", baseURL, spec.Name, spec.RegistryVersion)
	checksumURL := fmt.Sprintf("%s/%s/%s.sha256", baseURL, spec.Name, spec.RegistryVersion)

	destDir := filepath.Join(r.CacheRoot, slug(spec.Name), spec.RegistryVersion)
	sentinel := filepath.Join(destDir, ".complete")

	if err := r.FS.CreateDirectories(ctx, filepath.Dir(destDir), 0o755); err != nil {
		return resolver.FetchedPackage{}, fmt.Errorf("prepare cache dir for %s: %w", destDir, err)
	}

	// destDir is shared by every fetcher racing to populate the same
	// (name, version) pair; the lock serializes the check-then-populate
	// section below instead of letting concurrent fetchers stomp each
	// other's temp directories.
	lock, err := buildlock.AcquireResource(ctx, destDir)
	if err != nil {
		return resolver.FetchedPackage{}, fmt.Errorf("lock cache entry for %s: %w", destDir, err)
	}
	defer lock.Release()

	var checksum string
	if !r.FS.Exists(ctx, sentinel) {
		advertised, err := r.fetchText(ctx, spec, checksumURL)
		if err != nil {
			return resolver.FetchedPackage{}, err
		}
		advertised = strings.TrimSpace(advertised)

		body, err := r.fetchBytes(ctx, spec, archiveURL)
		if err != nil {
			return resolver.FetchedPackage{}, err
		}

		checksum = sha256Hex(body)
		if advertised != "" && checksum != advertised {
			return resolver.FetchedPackage{}, DependencyError{
				Kind:    ChecksumMismatch,
				Package: spec.Name,
				Version: spec.RegistryVersion,
				URL:     archiveURL,
				Err:     fmt.Errorf("got %s, registry advertised %s", checksum, advertised),
			}
		}

		tmpDir := destDir + ".tmp-" + checksum[:12]
		if err := extractTarGz(ctx, r.FS, body, tmpDir); err != nil {
			return resolver.FetchedPackage{}, fmt.Errorf("extract %s: %w", archiveURL, err)
		}
		if err := r.FS.Move(ctx, tmpDir, destDir); err != nil {
			return resolver.FetchedPackage{}, fmt.Errorf("place %s: %w", destDir, err)
		}
		if err := r.FS.WriteText(ctx, sentinel, checksum, 0o644); err != nil {
			return resolver.FetchedPackage{}, fmt.Errorf("write sentinel for %s: %w", destDir, err)
		}
	} else {
		existing, err := r.FS.ReadText(ctx, sentinel)
		if err != nil {
			return resolver.FetchedPackage{}, fmt.Errorf("read sentinel for %s: %w", destDir, err)
		}
		checksum = existing
	}

	m, err := loadManifest(ctx, r.FS, destDir)
	if err != nil {
		return resolver.FetchedPackage{}, err
	}

	return resolver.FetchedPackage{
		Version:      spec.RegistryVersion,
		Source:       lockfile.PackageSource{Kind: manifest.KindRegistry, URL: baseURL},
		Checksum:     checksum,
		Dependencies: m.Dependencies,
	}, nil
}

// fetchBytes retrieves url, retrying every failed attempt (a 404 included)
// up to the retry config's attempt limit. Once attempts are exhausted, a 404
// is reported as DependencyNotFound and any other failure as
// RegistryUnreachable.
func (r *RegistryFetcher) fetchBytes(ctx context.Context, spec manifest.DependencySpec, url string) ([]byte, error) {
	retryCfg := r.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig()
	}

	body, err := retry.DoWithData(ctx, retryCfg, func() ([]byte, error) {
		status, data, err := r.HTTP.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		if status == 404 {
			return nil, DependencyError{Kind: DependencyNotFound, Package: spec.Name, Version: spec.RegistryVersion, URL: url}
		}
		if status != 200 {
			return nil, fmt.Errorf("unexpected status %d", status)
		}
		return data, nil
	})
	if err != nil {
		var depErr DependencyError
		if errors.As(err, &depErr) {
			return nil, depErr
		}
		return nil, DependencyError{Kind: RegistryUnreachable, Package: spec.Name, Version: spec.RegistryVersion, URL: url, Err: err}
	}
	return body, nil
}

// fetchText is fetchBytes for the small sidecar checksum file.
func (r *RegistryFetcher) fetchText(ctx context.Context, spec manifest.DependencySpec, url string) (string, error) {
	body, err := r.fetchBytes(ctx, spec, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (r *RegistryFetcher) baseURLFor(name string) string {
	if url, ok := r.Registries[name]; ok {
		return url
	}
	if name == "" {
		if url, ok := r.Registries["default"]; ok {
			return url
		}
	}
	return name // already a literal URL
}

func extractTarGz(ctx context.Context, fs domain.FS, archive []byte, destDir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		target := filepath.Join(destDir, header.Name)
		switch header.Typeflag {
		case tar.TypeDir:
			if err := fs.CreateDirectories(ctx, target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := fs.CreateDirectories(ctx, filepath.Dir(target), 0o755); err != nil {
				return err
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return fmt.Errorf("read tar entry %s: %w", header.Name, err)
			}
			if err := fs.WriteText(ctx, target, string(data), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
		}
	}
	return nil
}
