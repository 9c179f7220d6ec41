package manifest

import "testing"

func TestParseDependencyEntryRegistryShorthand(t *testing.T) {
	spec, err := parseDependencyEntry("fmtlib", "1.2.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Kind != KindRegistry || spec.RegistryVersion != "1.2.0" {
		t.Fatalf("got %+v", spec)
	}
}

func TestParseDependencyEntryAmbiguousTableRejected(t *testing.T) {
	_, err := parseDependencyEntry("bad", map[string]any{
		"path": "../x",
		"git":  "https://example.com/x.git",
	})
	if err == nil {
		t.Fatal("expected error for dependency naming both path and git")
	}
}

func TestParseDependencyEntryNeitherKindRejected(t *testing.T) {
	_, err := parseDependencyEntry("bad", map[string]any{"optional": true})
	if err == nil {
		t.Fatal("expected error for dependency naming no source")
	}
}

func TestParseGitRefDefaultsToMainBranch(t *testing.T) {
	ref := parseGitRef(map[string]any{})
	if ref.Kind != Branch || ref.Value != "main" {
		t.Fatalf("got %+v", ref)
	}
}

func TestParseGitRefPrefersTagOverBranch(t *testing.T) {
	ref := parseGitRef(map[string]any{"tag": "v1.0.0", "branch": "main"})
	if ref.Kind != Tag || ref.Value != "v1.0.0" {
		t.Fatalf("got %+v", ref)
	}
}

func TestParseOutputTypeAliasesAndDefault(t *testing.T) {
	cases := map[string]OutputType{
		"executable":     Executable,
		"exe":            Executable,
		"library":        Library,
		"lib":            Library,
		"static-library": StaticLibrary,
		"staticlib":      StaticLibrary,
		"dylib":          DynamicLibrary,
		"nonsense":       Executable,
		"":               Executable,
	}
	for input, want := range cases {
		if got := ParseOutputType(input); got != want {
			t.Errorf("ParseOutputType(%q) = %v, want %v", input, got, want)
		}
	}
}
