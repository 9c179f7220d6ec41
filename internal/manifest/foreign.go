package manifest

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// foreignParser reads cjpm.toml: a flatter, kebab-case shape used by the
// third-party tool this one interoperates with. Build settings that the
// native dialect nests under [build] live directly on [package] here, and an
// undocumented [package-configuration] table is preserved verbatim rather
// than interpreted (spec.md §4.B).
type foreignParser struct{}

func (foreignParser) supportedFormat() string { return ForeignFileName }

func (foreignParser) parse(data []byte) (Manifest, error) {
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
		CompilerVersion: getString(pkgTable, "cjc-version"),
		OutputType:      ParseOutputType(getString(pkgTable, "output-type")),
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

	build := BuildConfig{
		SourceDir:   getString(pkgTable, "src-dir"),
		OutputDir:   getString(pkgTable, "target-dir"),
		Parallel:    asBool(pkgTable["parallel"], true),
		Incremental: asBool(pkgTable["incremental"], true),
		Jobs:        asInt(pkgTable["jobs"], 0),
		Verbose:     asBool(pkgTable["verbose"], false),
	}
	// compile-option is accepted but has no canonical-model home of its own;
	// it rides along in RawForeignConfig rather than being silently dropped.

	profiles := map[string]Profile{}
	for name, raw := range getTable(doc, "profile") {
		t := asTable(raw)
		if t == nil {
			return Manifest{}, ValidationError{Reason: fmt.Sprintf("profile.%s must be a table", name)}
		}
		profiles[name] = Profile{
			OptimizationLevel: asInt(t["opt-level"], 0),
			DebugInfo:         asBool(t["debug-info"], false),
			LTO:               asBool(t["lto"], false),
		}
	}

	rawConfig := map[string]string{}
	for k, v := range getTable(doc, "package-configuration") {
		if s, ok := asString(v); ok {
			rawConfig[k] = s
		}
	}
	if opts := asStringSlice(pkgTable["compile-option"]); len(opts) > 0 {
		for i, opt := range opts {
			rawConfig[fmt.Sprintf("compile-option[%d]", i)] = opt
		}
	}

	return Manifest{
		Package:          pkg,
		Dependencies:     deps,
		Build:            build,
		Profiles:         profiles,
		RawForeignConfig: rawConfig,
	}, nil
}
