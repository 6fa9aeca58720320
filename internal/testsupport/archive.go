package testsupport

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// ZipMember is one entry written by WriteZip.
type ZipMember struct {
	Name string
	Data []byte
}

// WriteZip creates a zip archive at path with members in the given order.
func WriteZip(t testing.TB, path string, members ...ZipMember) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			t.Fatalf("create zip member %s: %v", m.Name, err)
		}
		if _, err := w.Write(m.Data); err != nil {
			t.Fatalf("write zip member %s: %v", m.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}
