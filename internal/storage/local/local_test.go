package local

import (
	"bytes"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestWriteCreatesParentDirs(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "sub", "dir", "f.txt")
	content := []byte("stored bytes")

	size, err := Store{}.Write(path, bytes.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}
	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d", size, len(content))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("content = %q, want %q", got, content)
	}

	info, err := os.Stat(filepath.Join(base, "sub"))
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("parent is not a directory")
	}
}

func TestWriteAppliesDirPermWithExecBits(t *testing.T) {
	old := syscall.Umask(0)
	defer syscall.Umask(old)

	base := t.TempDir()
	path := filepath.Join(base, "masked", "f.txt")

	if _, err := (Store{DirPerm: 0o600}).Write(path, bytes.NewReader([]byte("x"))); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(base, "masked"))
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o711 {
		t.Errorf("created dir mode = %o, want %o (mask OR'd with execute bits)", got, 0o711)
	}
}

func TestWriteSeeksToStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	content := []byte("full content expected")

	reader := bytes.NewReader(content)
	if _, err := reader.Seek(5, 0); err != nil {
		t.Fatal(err)
	}

	size, err := Store{}.Write(path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d despite pre-positioned reader", size, len(content))
	}
}

func TestWriteTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	if _, err := (Store{}).Write(path, bytes.NewReader([]byte("a much longer first version"))); err != nil {
		t.Fatal(err)
	}
	size, err := Store{}.Write(path, bytes.NewReader([]byte("short")))
	if err != nil {
		t.Fatal(err)
	}
	if size != 5 {
		t.Errorf("size after overwrite = %d, want 5", size)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-existed.txt")

	if err := (Store{}).Remove(path); err != nil {
		t.Errorf("remove of missing file: %v", err)
	}
	// Twice in a row never raises.
	if err := (Store{}).Remove(path); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestRemoveExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if _, err := (Store{}).Write(path, bytes.NewReader([]byte("x"))); err != nil {
		t.Fatal(err)
	}

	if err := (Store{}).Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after remove: %v", err)
	}
}

func TestListPrefix(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"app.log", "apple.txt", "banana.txt"} {
		if _, err := (Store{}).Write(filepath.Join(base, name), bytes.NewReader([]byte("x"))); err != nil {
			t.Fatal(err)
		}
	}

	matches, err := Store{}.ListPrefix(filepath.Join(base, "app"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("ListPrefix(app) returned %d matches, want 2: %v", len(matches), matches)
	}

	matches, err = Store{}.ListPrefix(filepath.Join(base, "zzz"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("ListPrefix(zzz) returned %d matches, want 0", len(matches))
	}
}
