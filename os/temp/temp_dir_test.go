package temp

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestTempFileDiscard(t *testing.T) {
	d, err := NewTempDir("", "temp-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer d.Remove()

	f, err := d.TempFile(".partial-*.tmp")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("half")); err != nil {
		t.Fatal(err)
	}
	f.Discard()

	entries, err := ioutil.ReadDir(d.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected discarded file to be removed, found %d entries", len(entries))
	}
}

func TestTempFileKeep(t *testing.T) {
	d, err := NewTempDir("", "temp-test-")
	if err != nil {
		t.Fatal(err)
	}
	defer d.Remove()

	f, err := d.TempFile(".partial-*.tmp")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("whole")); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(d.Dir, "final")
	if err := f.Keep(dest); err != nil {
		t.Fatal(err)
	}
	f.Discard()

	data, err := ioutil.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "whole" {
		t.Fatalf("unexpected contents %q", data)
	}
	if _, err := os.Stat(f.Name()); !os.IsNotExist(err) {
		t.Fatalf("expected temp name to be gone after Keep, got %v", err)
	}
}
