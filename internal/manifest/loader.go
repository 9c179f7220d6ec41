package manifest

import (
	"context"
	"fmt"
	"runtime"

	"github.com/kcjpm/kcjpm/internal/domain"
)

// configParser is implemented by nativeParser and foreignParser. It is kept
// unexported: callers reach both through Load / LoadFromProjectRoot, which
// pick the right one by probing the project root, the way the teacher's
// config loader picks a source by probing well-known paths.
type configParser interface {
	supportedFormat() string
	parse(data []byte) (Manifest, error)
}

func parserFor(dialect Dialect) configParser {
	switch dialect {
	case Foreign:
		return foreignParser{}
	default:
		return nativeParser{}
	}
}

// Load reads and parses the manifest file at path, inferring its dialect
// from the file name.
func Load(ctx context.Context, fs domain.FS, path string) (Manifest, error) {
	text, err := fs.ReadText(ctx, path)
	if err != nil {
		return Manifest{}, ParseError{Path: path, Err: err}
	}

	dialect := Canonical
	if hasForeignName(path) {
		dialect = Foreign
	}

	m, err := parserFor(dialect).parse([]byte(text))
	if err != nil {
		return Manifest{}, ParseError{Path: path, Err: err}
	}
	return m, nil
}

func hasForeignName(path string) bool {
	n := len(path)
	f := len(ForeignFileName)
	return n >= f && path[n-f:] == ForeignFileName
}

// LoadFromProjectRoot detects the dialect present at root and loads it.
func LoadFromProjectRoot(ctx context.Context, fs domain.FS, root string) (Manifest, error) {
	dialect, path, err := DetectDialect(ctx, fs, root)
	if err != nil {
		return Manifest{}, err
	}

	text, err := fs.ReadText(ctx, path)
	if err != nil {
		return Manifest{}, ParseError{Path: path, Err: err}
	}

	m, err := parserFor(dialect).parse([]byte(text))
	if err != nil {
		return Manifest{}, ParseError{Path: path, Err: err}
	}
	return m, nil
}

// LoadAndConvert loads the manifest at root and applies the default-filling
// pass (profiles, build settings) a consumer downstream of parsing expects.
func LoadAndConvert(ctx context.Context, fs domain.FS, root string) (Manifest, error) {
	m, err := LoadFromProjectRoot(ctx, fs, root)
	if err != nil {
		return Manifest{}, err
	}
	return applyDefaults(m, runtime.NumCPU()), nil
}

// SelectProfile looks up a named profile; an empty name selects "release".
// A non-empty name absent from m.Profiles is an error, with no fallback to
// "release".
func SelectProfile(m Manifest, name string) (Profile, error) {
	if name == "" {
		name = "release"
	}
	if p, ok := m.Profiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("profile %q not found", name)
}
