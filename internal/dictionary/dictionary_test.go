package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestApplyCaseInsensitive(t *testing.T) {
	d := New()
	if err := d.Add(ScopeUser, Entry{Pattern: "claude", Replacement: "Claude"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := d.Apply("claude and CLAUDE and Claude")
	want := "Claude and Claude and Claude"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApplyUserBeforeGlobal(t *testing.T) {
	d := New()
	d.Add(ScopeGlobal, Entry{Pattern: "api", Replacement: "Api"})
	d.Add(ScopeUser, Entry{Pattern: "API", Replacement: "API"})

	// The user entry covers "api" case-insensitively, so the global
	// entry must not run afterwards.
	got := d.Apply("the api is ready")
	want := "the API is ready"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApplyGlobalFallback(t *testing.T) {
	d := New()
	d.Add(ScopeUser, Entry{Pattern: "foo", Replacement: "FOO"})
	d.Add(ScopeGlobal, Entry{Pattern: "bar", Replacement: "BAR"})

	got := d.Apply("foo and bar")
	want := "FOO and BAR"
	if got != want {
		t.Errorf("Apply = %q, want %q", got, want)
	}
}

func TestApplyLiteralPattern(t *testing.T) {
	d := New()
	d.Add(ScopeUser, Entry{Pattern: "c++", Replacement: "C++"})

	if got := d.Apply("i like c++"); got != "i like C++" {
		t.Errorf("Apply = %q", got)
	}
	// Regex metacharacters in the pattern must not match arbitrarily.
	if got := d.Apply("cat"); got != "cat" {
		t.Errorf("Apply = %q, pattern should be literal", got)
	}
}

func TestApplyLiteralReplacement(t *testing.T) {
	d := New()
	d.Add(ScopeUser, Entry{Pattern: "price", Replacement: "$100"})

	if got := d.Apply("the price today"); got != "the $100 today" {
		t.Errorf("Apply = %q, replacement should be literal", got)
	}
}

func TestApplyEmptyText(t *testing.T) {
	d := New()
	d.Add(ScopeUser, Entry{Pattern: "x", Replacement: "y"})
	if got := d.Apply(""); got != "" {
		t.Errorf("Apply(empty) = %q", got)
	}
}

func TestAddDuplicate(t *testing.T) {
	d := New()
	if err := d.Add(ScopeUser, Entry{Pattern: "Foo", Replacement: "a"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := d.Add(ScopeUser, Entry{Pattern: "foo", Replacement: "b"})
	if !errors.Is(err, ErrDuplicatePattern) {
		t.Errorf("expected ErrDuplicatePattern, got %v", err)
	}
	// Same pattern in the other scope is fine.
	if err := d.Add(ScopeGlobal, Entry{Pattern: "foo", Replacement: "c"}); err != nil {
		t.Errorf("Add to global scope: %v", err)
	}
}

func TestUserEntryLimit(t *testing.T) {
	d := New()
	for i := 0; i < UserEntryLimit; i++ {
		if err := d.Add(ScopeUser, Entry{Pattern: fmt.Sprintf("p%d", i), Replacement: "r"}); err != nil {
			t.Fatalf("Add %d: %v", i, err)
		}
	}
	err := d.Add(ScopeUser, Entry{Pattern: "one-too-many", Replacement: "r"})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	d := New()
	d.Add(ScopeUser, Entry{Pattern: "foo", Replacement: "bar"})

	if !d.Remove(ScopeUser, "FOO") {
		t.Error("Remove should match case-insensitively")
	}
	if d.Remove(ScopeUser, "foo") {
		t.Error("Remove on missing pattern should return false")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	content := `[
		{"pattern": "golang", "replacement": "Go"},
		{"pattern": "k8s", "replacement": "Kubernetes"}
	]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := New()
	added, err := d.ImportFile(path, ScopeUser)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
	if got := d.Apply("deploy golang on k8s"); got != "deploy Go on Kubernetes" {
		t.Errorf("Apply = %q", got)
	}
}

func TestImportJSONInvalidShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	content := `[{"pattern": "x"}]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := New()
	if _, err := d.ImportFile(path, ScopeUser); err == nil {
		t.Error("expected schema validation error for missing replacement")
	}
}

func TestImportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.yaml")
	content := "- pattern: vox\n  replacement: Vox\n- pattern: typed\n  replacement: Typed\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := New()
	added, err := d.ImportFile(path, ScopeGlobal)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
}

func TestImportSkipsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	content := `[{"pattern": "foo", "replacement": "bar"}]`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	d := New()
	d.Add(ScopeUser, Entry{Pattern: "foo", Replacement: "existing"})

	added, err := d.ImportFile(path, ScopeUser)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if added != 0 {
		t.Errorf("added = %d, want 0", added)
	}
	// Existing replacement wins.
	if got := d.Apply("foo"); got != "existing" {
		t.Errorf("Apply = %q", got)
	}
}

func TestImportUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.txt")
	os.WriteFile(path, []byte("foo=bar"), 0600)

	d := New()
	if _, err := d.ImportFile(path, ScopeUser); err == nil {
		t.Error("expected error for unsupported format")
	}
}
