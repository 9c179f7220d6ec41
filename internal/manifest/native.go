package manifest

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// nativeParser reads kcjpm.toml, whose table/key names already match the
// canonical Manifest model one-for-one.
type nativeParser struct{}

func (nativeParser) supportedFormat() string { return NativeFileName }

func (nativeParser) parse(data []byte) (Manifest, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Manifest{}, err
	}

	pkgTable := getTable(doc, "package")
	if pkgTable == nil {
		return Manifest{}, ValidationError{Reason: "missing [package] table"}
	}
	if getString(pkgTable, "name") == "" {
		return Manifest{}, ValidationError{Reason: "package.name must not be empty"}
	}

	pkg := PackageInfo{
		Name:            getString(pkgTable, "name"),
		Version:         getString(pkgTable, "version"),
		CompilerVersion: getString(pkgTable, "compilerVersion"),
		OutputType:      ParseOutputType(getString(pkgTable, "outputType")),
		Description:     getString(pkgTable, "description"),
	}

	deps, err := parseDependenciesTable(getTable(doc, "dependencies"))
	if err != nil {
		return Manifest{}, err
	}
	for _, spec := range deps {
		if err := validateDependencySpec(spec); err != nil {
			return Manifest{}, err
		}
	}

	buildTable := getTable(doc, "build")
	build := BuildConfig{
		SourceDir:   getString(buildTable, "sourceDir"),
		OutputDir:   getString(buildTable, "outputDir"),
		Parallel:    asBool(buildTable["parallel"], true),
		Incremental: asBool(buildTable["incremental"], true),
		Jobs:        asInt(buildTable["jobs"], 0),
		Verbose:     asBool(buildTable["verbose"], false),
	}

	profiles := map[string]Profile{}
	for name, raw := range getTable(doc, "profile") {
		t := asTable(raw)
		if t == nil {
			return Manifest{}, ValidationError{Reason: fmt.Sprintf("profile.%s must be a table", name)}
		}
		profiles[name] = Profile{
			OptimizationLevel: asInt(t["optimizationLevel"], 0),
			DebugInfo:         asBool(t["debugInfo"], false),
			LTO:               asBool(t["lto"], false),
		}
	}

	registryTable := getTable(doc, "registry")
	registry := RegistryConfig{
		Default: getString(registryTable, "default"),
		Private: getString(registryTable, "private"),
	}

	workspaceTable := getTable(doc, "workspace")
	workspace := WorkspaceConfig{
		Members:        asStringSlice(workspaceTable["members"]),
		DefaultMembers: asStringSlice(workspaceTable["defaultMembers"]),
	}

	return Manifest{
		Package:      pkg,
		Dependencies: deps,
		Build:        build,
		Profiles:     profiles,
		Registry:     registry,
		Workspace:    workspace,
	}, nil
}
