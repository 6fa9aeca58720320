package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// junkByte is neither a valid FIT header size nor the first byte of a zip
// local file header.
const junkByte = 0x42

// WriteJunk writes size bytes that no decoder accepts to dir/name and
// returns the path. A size <= 0 writes a single byte.
func WriteJunk(t testing.TB, dir, name string, size int) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{junkByte}, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
