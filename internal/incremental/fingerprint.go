// Package incremental tracks per-package content fingerprints so a rebuild
// can skip packages whose sources and dependency set have not changed
// since the last successful compile.
package incremental

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// Fingerprint is the hash of one package's inputs: its own source file
// contents plus the resolved versions of everything it depends on, so a
// change anywhere upstream also invalidates it.
type Fingerprint string

// Inputs is everything that determines whether a package needs recompiling.
type Inputs struct {
	Package           string
	Files             map[string]string // path -> content
	DependencyVersions map[string]string // dependency name -> resolved version
}

// Compute hashes Inputs deterministically: map keys are sorted before
// hashing so the same logical inputs always produce the same fingerprint
// regardless of map iteration order.
func Compute(in Inputs) Fingerprint {
	h := xxhash.New()

	fmt.Fprintf(h, "package:%s\n", in.Package)

	files := make([]string, 0, len(in.Files))
	for path := range in.Files {
		files = append(files, path)
	}
	sort.Strings(files)
	for _, path := range files {
		fmt.Fprintf(h, "file:%s:%x\n", path, xxhash.Sum64String(in.Files[path]))
	}

	deps := make([]string, 0, len(in.DependencyVersions))
	for name := range in.DependencyVersions {
		deps = append(deps, name)
	}
	sort.Strings(deps)
	for _, name := range deps {
		fmt.Fprintf(h, "dep:%s:%s\n", name, in.DependencyVersions[name])
	}

	return Fingerprint(fmt.Sprintf("%016x", h.Sum64()))
}

// Store persists fingerprints under outputDir/.incremental/<package>.fingerprint
// so the next invocation of the same build can compare against them.
type Store struct {
	FS        domain.FS
	OutputDir string
}

func (s *Store) path(pkg string) string {
	return s.FS.Normalize(s.OutputDir + "/.incremental/" + pkg + ".fingerprint")
}

// Load returns the stored fingerprint for pkg, or ("", false) if none exists.
func (s *Store) Load(ctx context.Context, pkg string) (Fingerprint, bool) {
	text, err := s.FS.ReadText(ctx, s.path(pkg))
	if err != nil {
		return "", false
	}
	var fp Fingerprint
	if err := json.Unmarshal([]byte(text), &fp); err != nil {
		return "", false
	}
	return fp, true
}

// Store records pkg's current fingerprint.
func (s *Store) Store(ctx context.Context, pkg string, fp Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("marshal fingerprint for %s: %w", pkg, err)
	}
	dir := s.FS.Normalize(s.OutputDir + "/.incremental")
	if err := s.FS.CreateDirectories(ctx, dir, 0o755); err != nil {
		return fmt.Errorf("create incremental cache dir: %w", err)
	}
	if err := s.FS.WriteText(ctx, s.path(pkg), string(data), 0o644); err != nil {
		return fmt.Errorf("write fingerprint for %s: %w", pkg, err)
	}
	return nil
}

// Changed reports whether pkg's current Inputs differ from what was stored
// on the last successful build (or always true if nothing was stored yet).
func (s *Store) Changed(ctx context.Context, in Inputs) bool {
	current := Compute(in)
	stored, ok := s.Load(ctx, in.Package)
	return !ok || stored != current
}
