package lockfile

import (
	"fmt"

	"github.com/kcjpm/kcjpm/internal/manifest"
)

// ValidationResult reports whether a lock file still matches a manifest's
// declared dependencies, the errors that make it unusable, and the
// warnings that merely suggest re-resolution.
type ValidationResult struct {
	Errors   []error
	Warnings []string
}

// IsValid is false whenever Errors is non-empty.
func (r ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

// Validate checks a lock file against a manifest's direct dependency set:
// every non-optional direct dependency must be locked, and the lock file's
// format version must be one this build understands. An orphaned lock entry
// (no longer named by the manifest) is a warning, not an error — it is
// pruned on the next resolve rather than rejected outright.
func Validate(lock LockFile, manifestDeps map[string]manifest.DependencySpec) ValidationResult {
	var result ValidationResult

	if lock.Version != formatVersion {
		result.Errors = append(result.Errors, fmt.Errorf("lock file format version %d is not supported (expected %d)", lock.Version, formatVersion))
		return result
	}

	locked := lock.byName()

	for name, dep := range manifestDeps {
		if dep.Optional {
			continue
		}
		if _, ok := locked[name]; !ok {
			result.Errors = append(result.Errors, fmt.Errorf("dependency %q is declared but not locked", name))
		}
	}

	for name := range locked {
		if _, ok := manifestDeps[name]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("locked package %q is no longer declared in the manifest", name))
		}
	}

	return result
}
