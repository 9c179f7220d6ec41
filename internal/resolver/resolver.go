// Package resolver walks a project's direct dependencies out to a full,
// flattened dependency set using a worklist algorithm, detecting version
// conflicts and cycles along the way, and hands the result to the lockfile
// package for serialization.
package resolver

import (
	"context"
	"fmt"

	"github.com/kcjpm/kcjpm/internal/graph"
	"github.com/kcjpm/kcjpm/internal/lockfile"
	"github.com/kcjpm/kcjpm/internal/manifest"
)

// PackageFetcher resolves one dependency spec to its exact source and
// manifest, without caring whether that meant a filesystem copy, a git
// clone, or a registry download — that variation lives in the fetch
// package. Resolve calls Fetch at most once per package name, for the
// first edge that reaches it.
type PackageFetcher interface {
	Fetch(ctx context.Context, spec manifest.DependencySpec) (FetchedPackage, error)
}

// FetchedPackage is everything the resolver needs from one fetched
// dependency to keep walking and to eventually emit a lock entry.
type FetchedPackage struct {
	Version      string
	Source       lockfile.PackageSource
	Checksum     string
	Dependencies map[string]manifest.DependencySpec
}

// VersionConflict is reported when two edges into the graph name the same
// package with different declared versions. Resolution here is
// equality-only: there is no semver range intersection, matching spec.md's
// stated non-goal. FirstSeenBy and ConflictingDeclarant name the two
// dependents whose declarations disagree, so a caller can point at both
// manifests rather than just the package under dispute.
type VersionConflict struct {
	Package              string
	VersionA             string
	VersionB             string
	FirstSeenBy          string
	ConflictingDeclarant string
}

func (e VersionConflict) Error() string {
	return fmt.Sprintf("conflicting versions for %q: %s (declared by %s) vs %s (declared by %s)",
		e.Package, e.VersionA, e.FirstSeenBy, e.VersionB, e.ConflictingDeclarant)
}

// DependencyCycle is reported when the resolved graph contains a cycle
// among packages (as opposed to discover.IntraProjectCycle, which is scoped
// to one project's own source packages).
type DependencyCycle struct {
	Packages []string
}

func (e DependencyCycle) Error() string {
	return fmt.Sprintf("dependency cycle: %v", e.Packages)
}

// ResolvedGraph is the fully walked dependency set: the entries ready to
// become a lock file, plus the graph they form for topological ordering.
type ResolvedGraph struct {
	Entries []lockfile.ResolvedEntry
	Graph   *graph.Graph[string]
}

type workItem struct {
	name string
	spec manifest.DependencySpec
	// declaredBy is the package that introduced this edge: empty for the
	// project's own direct dependencies, otherwise the dependent package's
	// name.
	declaredBy string
}

// Resolve walks direct from a worklist seeded with the manifest's direct,
// non-optional dependencies, fetching each transitively and stopping when
// every reachable package has been visited. Packages are keyed by name
// alone: two different declared versions of the same name is a
// VersionConflict, not two coexisting nodes (spec.md §4.F).
func Resolve(ctx context.Context, fetcher PackageFetcher, direct map[string]manifest.DependencySpec) (ResolvedGraph, error) {
	g := graph.New[string]()
	declaredVersion := map[string]string{}
	declaredBy := map[string]string{}
	entries := map[string]lockfile.ResolvedEntry{}

	var worklist []workItem
	for name, spec := range direct {
		if spec.Optional {
			continue
		}
		worklist = append(worklist, workItem{name: name, spec: spec})
		g.AddNode(name)
	}

	visited := map[string]bool{}
	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]

		if existing, ok := declaredVersion[item.name]; ok {
			if existing != item.spec.DeclaredVersion {
				return ResolvedGraph{}, VersionConflict{
					Package:              item.name,
					VersionA:             existing,
					VersionB:             item.spec.DeclaredVersion,
					FirstSeenBy:          declaredBy[item.name],
					ConflictingDeclarant: item.declaredBy,
				}
			}
		} else {
			declaredVersion[item.name] = item.spec.DeclaredVersion
			declaredBy[item.name] = item.declaredBy
		}

		if visited[item.name] {
			continue
		}
		visited[item.name] = true

		fetched, err := fetcher.Fetch(ctx, item.spec)
		if err != nil {
			return ResolvedGraph{}, fmt.Errorf("fetch %q: %w", item.name, err)
		}

		depNames := make([]string, 0, len(fetched.Dependencies))
		for depName, depSpec := range fetched.Dependencies {
			if depSpec.Optional {
				continue
			}
			depNames = append(depNames, depName)
			g.AddEdge(item.name, depName)
			worklist = append(worklist, workItem{name: depName, spec: depSpec, declaredBy: item.name})
		}

		entries[item.name] = lockfile.ResolvedEntry{
			Name:         item.name,
			Version:      fetched.Version,
			Source:       fetched.Source,
			Checksum:     fetched.Checksum,
			Dependencies: depNames,
		}
	}

	if cycle := g.FindCycle(); cycle != nil {
		return ResolvedGraph{}, DependencyCycle{Packages: cycle.Nodes}
	}

	flat := make([]lockfile.ResolvedEntry, 0, len(entries))
	for _, e := range entries {
		flat = append(flat, e)
	}

	return ResolvedGraph{Entries: flat, Graph: g}, nil
}
