package lockfile

import (
	"sort"
	"time"
)

// ResolvedEntry is one dependency as the resolver produced it: an exact
// source and, for registry dependencies, a content checksum (empty for path
// and git dependencies).
type ResolvedEntry struct {
	Name         string
	Version      string
	Source       PackageSource
	Checksum     string
	Dependencies []string
}

// Generate builds a LockFile from the resolver's flattened dependency set,
// sorted by name so the serialized file is stable across runs with the same
// inputs (a prerequisite for it being meaningfully diffable in review).
// buildID tags the lock file with the run that produced it; pass "" when no
// correlation id is available.
func Generate(entries []ResolvedEntry, buildID string) LockFile {
	packages := make([]LockedPackage, 0, len(entries))
	for _, e := range entries {
		deps := append([]string(nil), e.Dependencies...)
		sort.Strings(deps)
		packages = append(packages, LockedPackage{
			Name:         e.Name,
			Version:      e.Version,
			Source:       e.Source.String(),
			Checksum:     e.Checksum,
			Dependencies: deps,
		})
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })

	return LockFile{
		Version:  formatVersion,
		Metadata: Metadata{GeneratedAt: time.Now().UTC(), LastBuildID: buildID},
		Packages: packages,
	}
}
