package lockfile

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kcjpm/kcjpm/internal/manifest"
)

// PackageSource is a scheme-prefixed string identifying exactly where a
// locked package came from:
//
//	registry+https://registry.kcjpm.dev
//	path+../util
//	git+https://example.com/json.git?tag=v2.0.0#a1b2c3d4
//
// Encoding the variant as a string (rather than a struct field union) keeps
// the lock file a flat, diffable text format — the same property that makes
// a Cargo.lock or go.sum reviewable in a pull request.
type PackageSource struct {
	Kind manifest.DependencyKind
	Path string
	URL  string
	Ref  manifest.GitRef
	// Commit is the resolved commit SHA for a Git source; empty otherwise.
	Commit string
}

func (s PackageSource) String() string {
	switch s.Kind {
	case manifest.KindPath:
		return "path+" + s.Path
	case manifest.KindGit:
		v := url.Values{}
		v.Set(refKindName(s.Ref.Kind), s.Ref.Value)
		suffix := ""
		if s.Commit != "" {
			suffix = "#" + s.Commit
		}
		return "git+" + s.URL + "?" + v.Encode() + suffix
	default:
		return "registry+" + s.URL
	}
}

func refKindName(k manifest.GitRefKind) string {
	switch k {
	case manifest.Tag:
		return "tag"
	case manifest.Commit:
		return "commit"
	default:
		return "branch"
	}
}

func refKindFromName(s string) manifest.GitRefKind {
	switch s {
	case "tag":
		return manifest.Tag
	case "commit":
		return manifest.Commit
	default:
		return manifest.Branch
	}
}

// ParseSource decodes a PackageSource string produced by String.
func ParseSource(s string) (PackageSource, error) {
	switch {
	case strings.HasPrefix(s, "path+"):
		return PackageSource{Kind: manifest.KindPath, Path: strings.TrimPrefix(s, "path+")}, nil

	case strings.HasPrefix(s, "git+"):
		rest := strings.TrimPrefix(s, "git+")
		repoURL, commit, _ := strings.Cut(rest, "#")
		repoURL, query, hasQuery := strings.Cut(repoURL, "?")
		src := PackageSource{Kind: manifest.KindGit, URL: repoURL, Commit: commit}
		if hasQuery {
			values, err := url.ParseQuery(query)
			if err != nil {
				return PackageSource{}, fmt.Errorf("parse git source query %q: %w", s, err)
			}
			for _, name := range []string{"tag", "branch", "commit"} {
				if v, ok := values[name]; ok {
					src.Ref = manifest.GitRef{Kind: refKindFromName(name), Value: v[0]}
					break
				}
			}
		}
		return src, nil

	case strings.HasPrefix(s, "registry+"):
		return PackageSource{Kind: manifest.KindRegistry, URL: strings.TrimPrefix(s, "registry+")}, nil

	default:
		return PackageSource{}, fmt.Errorf("unrecognized package source %q", s)
	}
}
