package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadRequests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.txt")
	content := `# sample requests
Create a calculator

Create a todo API
  # indented comment
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readRequests(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Create a calculator", "Create a todo API"}
	if len(got) != len(want) {
		t.Fatalf("got %d requests, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadRequestsMissingFile(t *testing.T) {
	if _, err := readRequests(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
