package manifest

// applyDefaults fills in the gaps a bare manifest is entitled to leave: a
// missing profile table gets the three built-ins, and build settings left at
// their zero value get spec.md §4.B's stated defaults. jobs is the
// caller-supplied CPU count, used only when the manifest names no job count.
func applyDefaults(m Manifest, jobs int) Manifest {
	if len(m.Profiles) == 0 {
		m.Profiles = DefaultProfiles()
	}

	defaults := DefaultBuildConfig(jobs)
	if m.Build.SourceDir == "" {
		m.Build.SourceDir = defaults.SourceDir
	}
	if m.Build.OutputDir == "" {
		m.Build.OutputDir = defaults.OutputDir
	}
	if m.Build.Jobs == 0 {
		m.Build.Jobs = defaults.Jobs
	}

	if m.Registry.Default == "" {
		m.Registry.Default = "https://registry.kcjpm.dev"
	}

	if m.Dependencies == nil {
		m.Dependencies = map[string]DependencySpec{}
	}

	return m
}
