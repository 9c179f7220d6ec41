// Package discover walks a project's source tree, groups .cj files into
// packages by directory, and extracts their import declarations so the
// compile pipeline can order and parallelize package compilation.
package discover

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/graph"
)

const sourceExtension = ".cj"

// PackageInfo is one discovered package: every .cj file directly under one
// directory, named by that directory's path relative to the source root
// with separators replaced by dots.
type PackageInfo struct {
	Name    string
	Dir     string
	Files   []string
	Imports []string
}

// IntraProjectCycle is returned when two or more packages within the same
// project import each other, directly or transitively.
type IntraProjectCycle struct {
	Packages []string
}

func (e IntraProjectCycle) Error() string {
	return fmt.Sprintf("import cycle among packages: %s", strings.Join(e.Packages, " -> "))
}

var importLineRE = regexp.MustCompile(`(?m)^\s*import\s+([A-Za-z_][A-Za-z0-9_.]*)`)

// Discover walks sourceRoot recursively, grouping .cj files by containing
// directory into packages, in the manner of the teacher's recursive
// ScanTree/CollectFiles walk, generalized from an arbitrary file tree into a
// package-name -> files grouping. The project root directory itself is named
// projectName rather than any directory-derived name.
func Discover(ctx context.Context, fs domain.FS, sourceRoot, projectName string) ([]PackageInfo, error) {
	dirs := map[string][]string{}

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fs.ListFiles(ctx, dir)
		if err != nil {
			return fmt.Errorf("list %s: %w", dir, err)
		}
		for _, entry := range entries {
			childPath := fs.Normalize(filepath.Join(dir, entry.Name()))
			if entry.IsDir() {
				if err := walk(childPath); err != nil {
					return err
				}
				continue
			}
			if strings.HasSuffix(entry.Name(), sourceExtension) {
				dirs[dir] = append(dirs[dir], childPath)
			}
		}
		return nil
	}

	if err := walk(sourceRoot); err != nil {
		return nil, err
	}

	infos := make([]PackageInfo, 0, len(dirs))
	for dir, files := range dirs {
		sort.Strings(files)

		var imports []string
		seen := map[string]bool{}
		for _, f := range files {
			text, err := fs.ReadText(ctx, f)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", f, err)
			}
			for _, imp := range scanImports(text) {
				if !seen[imp] {
					seen[imp] = true
					imports = append(imports, imp)
				}
			}
		}
		sort.Strings(imports)

		infos = append(infos, PackageInfo{
			Name:    packageNameFor(sourceRoot, dir, projectName),
			Dir:     dir,
			Files:   files,
			Imports: imports,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func packageNameFor(root, dir, projectName string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return projectName
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

func scanImports(text string) []string {
	matches := importLineRE.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ImportGraph builds a dependency graph over discovered packages' names,
// keyed by import declaration, and errors if it finds a cycle among
// packages within the same project (spec.md §4.E).
func ImportGraph(infos []PackageInfo) (*graph.Graph[string], error) {
	g := graph.New[string]()
	names := make(map[string]bool, len(infos))
	for _, info := range infos {
		names[info.Name] = true
	}

	for _, info := range infos {
		g.AddNode(info.Name)
		for _, imp := range info.Imports {
			if names[imp] {
				g.AddEdge(info.Name, imp)
			}
		}
	}

	if cycle := g.FindCycle(); cycle != nil {
		return nil, IntraProjectCycle{Packages: cycle.Nodes}
	}
	return g, nil
}
