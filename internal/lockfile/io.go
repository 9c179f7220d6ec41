package lockfile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/renameio"
	"github.com/pelletier/go-toml/v2"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// FileName is the on-disk name of the lock file, always written at the
// project root alongside the manifest.
const FileName = "kcjpm.lock"

// LockFileMissing is returned by Read when no lock file exists at path,
// distinguishable via errors.As from any other I/O failure a caller might
// need to handle differently (e.g. running `resolve` to generate one vs.
// surfacing a corrupt-file error).
type LockFileMissing struct {
	Path string
}

func (e LockFileMissing) Error() string {
	return fmt.Sprintf("lock file missing: %s", e.Path)
}

// lockDocument is the TOML-serializable shape; LockFile itself stays free of
// struct tags so the domain model does not leak an encoding concern.
type lockDocument struct {
	Version     int                     `toml:"version"`
	GeneratedAt string                  `toml:"generatedAt,omitempty"`
	LastBuildID string                  `toml:"lastBuildId,omitempty"`
	Packages    []lockedPackageDocument `toml:"package"`
}

type lockedPackageDocument struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source"`
	Checksum     string   `toml:"checksum,omitempty"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

func toDocument(l LockFile) lockDocument {
	doc := lockDocument{Version: l.Version, LastBuildID: l.Metadata.LastBuildID}
	if !l.Metadata.GeneratedAt.IsZero() {
		doc.GeneratedAt = l.Metadata.GeneratedAt.Format(time.RFC3339)
	}
	for _, p := range l.Packages {
		doc.Packages = append(doc.Packages, lockedPackageDocument{
			Name:         p.Name,
			Version:      p.Version,
			Source:       p.Source,
			Checksum:     p.Checksum,
			Dependencies: p.Dependencies,
		})
	}
	return doc
}

func fromDocument(doc lockDocument) LockFile {
	l := LockFile{Version: doc.Version, Metadata: Metadata{LastBuildID: doc.LastBuildID}}
	if doc.GeneratedAt != "" {
		if t, err := time.Parse(time.RFC3339, doc.GeneratedAt); err == nil {
			l.Metadata.GeneratedAt = t
		}
	}
	for _, p := range doc.Packages {
		l.Packages = append(l.Packages, LockedPackage{
			Name:         p.Name,
			Version:      p.Version,
			Source:       p.Source,
			Checksum:     p.Checksum,
			Dependencies: p.Dependencies,
		})
	}
	return l
}

// Write serializes and atomically writes the lock file to path via
// renameio.WriteFile's temp-file-then-rename pattern, so a crash mid-write
// never leaves a truncated kcjpm.lock behind.
func Write(path string, l LockFile) error {
	data, err := toml.Marshal(toDocument(l))
	if err != nil {
		return fmt.Errorf("marshal lock file: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write lock file %s: %w", path, err)
	}
	return nil
}

// Read loads and parses the lock file at path through the supplied
// filesystem capability.
func Read(ctx context.Context, fs domain.FS, path string) (LockFile, error) {
	if !fs.Exists(ctx, path) {
		return LockFile{}, LockFileMissing{Path: path}
	}
	text, err := fs.ReadText(ctx, path)
	if err != nil {
		return LockFile{}, fmt.Errorf("read lock file %s: %w", path, err)
	}
	var doc lockDocument
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return LockFile{}, fmt.Errorf("parse lock file %s: %w", path, err)
	}
	return fromDocument(doc), nil
}

// Exists reports whether a lock file is present at path.
func Exists(ctx context.Context, fs domain.FS, path string) bool {
	return fs.Exists(ctx, path)
}
