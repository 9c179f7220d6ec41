// Package manifest models the project manifest (kcjpm.toml / cjpm.toml),
// parses both on-disk dialects into one canonical form, and applies the
// defaults a bare manifest is entitled to.
package manifest

// OutputType is the kind of artifact the compiler produces for this package.
type OutputType int

const (
	Executable OutputType = iota
	Library
	StaticLibrary
	DynamicLibrary
)

func (t OutputType) String() string {
	switch t {
	case Executable:
		return "executable"
	case Library:
		return "library"
	case StaticLibrary:
		return "static-library"
	case DynamicLibrary:
		return "dynamic-library"
	default:
		return "unknown"
	}
}

// PackageInfo is the [package] table: project identity.
type PackageInfo struct {
	Name            string
	Version         string
	CompilerVersion string
	OutputType      OutputType
	Description     string
}

// BuildConfig is the [build] table, with the defaults from spec.md §4.B
// already applied by the time a Manifest reaches the pipeline.
type BuildConfig struct {
	SourceDir   string
	OutputDir   string
	Parallel    bool
	Incremental bool
	Jobs        int
	Verbose     bool
}

// Profile is one named entry of the [profile.<name>] table.
type Profile struct {
	OptimizationLevel int
	DebugInfo         bool
	LTO               bool
}

// RegistryConfig is the [registry] table.
type RegistryConfig struct {
	Default string
	Private string
}

// WorkspaceConfig is the [workspace] table.
type WorkspaceConfig struct {
	Members        []string
	DefaultMembers []string
}

// Manifest is the canonical, dialect-independent project declaration.
type Manifest struct {
	Package      PackageInfo
	Dependencies map[string]DependencySpec
	Build        BuildConfig
	Profiles     map[string]Profile
	Registry     RegistryConfig
	Workspace    WorkspaceConfig

	// RawForeignConfig preserves the foreign dialect's undocumented
	// package-configuration table verbatim; the core never interprets it.
	RawForeignConfig map[string]string
}

// DefaultProfiles returns the three built-in profiles applied when a
// manifest declares none (spec.md §4.B).
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"debug":       {OptimizationLevel: 0, DebugInfo: true, LTO: false},
		"release":     {OptimizationLevel: 2, DebugInfo: false, LTO: false},
		"release-lto": {OptimizationLevel: 3, DebugInfo: false, LTO: true},
	}
}

// DefaultBuildConfig returns the BuildConfig defaults from spec.md §4.B.
// jobs is the caller-supplied CPU count (runtime.NumCPU()).
func DefaultBuildConfig(jobs int) BuildConfig {
	return BuildConfig{
		SourceDir:   "src",
		OutputDir:   "target",
		Parallel:    true,
		Incremental: true,
		Jobs:        jobs,
		Verbose:     false,
	}
}
