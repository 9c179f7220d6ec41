// Package lockfile models kcjpm.lock: the content-addressed record of every
// dependency's exact resolved source, pinned so a later install reproduces
// the same dependency graph without re-resolving version ranges.
package lockfile

import "time"

// LockedPackage is one resolved dependency entry.
type LockedPackage struct {
	Name         string
	Version      string
	Source       string // scheme-prefixed PackageSource, see source.go
	Checksum     string // sha256 hex digest; empty for path and git dependencies
	Dependencies []string
}

// Metadata is the lock file's non-package bookkeeping: when it was written
// and which build run produced it, so an embedding tool can correlate a
// kcjpm.lock on disk with the event stream that wrote it.
type Metadata struct {
	GeneratedAt time.Time
	LastBuildID string
}

// LockFile is the full kcjpm.lock document.
type LockFile struct {
	Version  int
	Metadata Metadata
	Packages []LockedPackage
}

const formatVersion = 1

// New returns an empty lock file at the current format version.
func New() LockFile {
	return LockFile{Version: formatVersion}
}

func (l LockFile) byName() map[string]LockedPackage {
	m := make(map[string]LockedPackage, len(l.Packages))
	for _, p := range l.Packages {
		m[p.Name] = p
	}
	return m
}
