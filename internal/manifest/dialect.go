package manifest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// Dialect names which on-disk manifest shape a project root carries.
type Dialect int

const (
	// Canonical is kcjpm.toml, shaped directly after the Manifest model.
	Canonical Dialect = iota
	// Foreign is cjpm.toml, the flatter third-party shape this tool also reads.
	Foreign
)

const (
	NativeFileName  = "kcjpm.toml"
	ForeignFileName = "cjpm.toml"
)

// DetectDialect probes a project root for a known manifest file name and
// reports which dialect it is, preferring the native file when both exist.
func DetectDialect(ctx context.Context, fs domain.FS, root string) (Dialect, string, error) {
	nativePath := fs.Normalize(filepath.Join(root, NativeFileName))
	if fs.Exists(ctx, nativePath) {
		if ok, err := fs.IsFile(ctx, nativePath); err != nil {
			return 0, "", fmt.Errorf("probe %s: %w", nativePath, err)
		} else if ok {
			return Canonical, nativePath, nil
		}
	}

	foreignPath := fs.Normalize(filepath.Join(root, ForeignFileName))
	if fs.Exists(ctx, foreignPath) {
		if ok, err := fs.IsFile(ctx, foreignPath); err != nil {
			return 0, "", fmt.Errorf("probe %s: %w", foreignPath, err)
		} else if ok {
			return Foreign, foreignPath, nil
		}
	}

	return 0, "", ValidationError{Reason: fmt.Sprintf("no %s or %s found under %s", NativeFileName, ForeignFileName, root)}
}
