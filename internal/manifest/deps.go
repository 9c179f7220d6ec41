package manifest

import "fmt"

// parseDependenciesTable walks the generic [dependencies] table shared by
// both dialects: each entry is either a bare version string (registry
// shorthand) or an inline table naming exactly one of path/git/version.
func parseDependenciesTable(table map[string]any) (map[string]DependencySpec, error) {
	out := make(map[string]DependencySpec, len(table))
	for name, raw := range table {
		spec, err := parseDependencyEntry(name, raw)
		if err != nil {
			return nil, err
		}
		out[name] = spec
	}
	return out, nil
}

func parseDependencyEntry(name string, raw any) (DependencySpec, error) {
	if version, ok := asString(raw); ok {
		return DependencySpec{
			Name:            name,
			Kind:            KindRegistry,
			DeclaredVersion: version,
			RegistryVersion: version,
			RegistryName:    "default",
		}, nil
	}

	entry := asTable(raw)
	if entry == nil {
		return DependencySpec{}, DependencyConfigError{
			Dependency: name,
			Reason:     "must be a version string or an inline table",
		}
	}

	spec := DependencySpec{
		Name:     name,
		Optional: asBool(entry["optional"], false),
	}

	path, hasPath := asString(entry["path"])
	gitURL, hasGit := asString(entry["git"])
	version, hasVersion := asString(entry["version"])

	kindsPresent := 0
	if hasPath {
		kindsPresent++
	}
	if hasGit {
		kindsPresent++
	}
	if hasVersion {
		kindsPresent++
	}
	if kindsPresent != 1 {
		return DependencySpec{}, DependencyConfigError{
			Dependency: name,
			Reason:     "must declare exactly one of path, git, version",
		}
	}

	switch {
	case hasPath:
		spec.Kind = KindPath
		spec.Path = path
	case hasGit:
		spec.Kind = KindGit
		spec.GitURL = gitURL
		spec.Ref = parseGitRef(entry)
	case hasVersion:
		spec.Kind = KindRegistry
		spec.DeclaredVersion = version
		spec.RegistryVersion = version
		if registry, ok := asString(entry["registry"]); ok {
			spec.RegistryName = registry
		} else {
			spec.RegistryName = "default"
		}
	}

	return spec, nil
}

func parseGitRef(entry map[string]any) GitRef {
	if tag, ok := asString(entry["tag"]); ok {
		return GitRef{Kind: Tag, Value: tag}
	}
	if branch, ok := asString(entry["branch"]); ok {
		return GitRef{Kind: Branch, Value: branch}
	}
	if rev, ok := asString(entry["rev"]); ok {
		return GitRef{Kind: Commit, Value: rev}
	}
	return DefaultGitRef()
}

func validateDependencySpec(spec DependencySpec) error {
	switch spec.Kind {
	case KindPath:
		if spec.Path == "" {
			return DependencyConfigError{Dependency: spec.Name, Reason: "path must not be empty"}
		}
	case KindGit:
		if spec.GitURL == "" {
			return DependencyConfigError{Dependency: spec.Name, Reason: "git must not be empty"}
		}
	case KindRegistry:
		if spec.RegistryVersion == "" {
			return DependencyConfigError{Dependency: spec.Name, Reason: "version must not be empty"}
		}
	default:
		return fmt.Errorf("dependency %q: unrecognized kind", spec.Name)
	}
	return nil
}
