package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestSibling(t *testing.T) {
	testCases := []struct {
		path string
		name string
		want string
	}{
		{"/logs/run1/samples.csv", "unmatched.csv", "/logs/run1/unmatched.csv"},
		{"samples.csv", "out.png", "out.png"},
		{"logs/summary.csv", "out.png", filepath.Join("logs", "out.png")},
	}
	for _, tc := range testCases {
		if got := Sibling(tc.path, tc.name); got != tc.want {
			t.Errorf("Sibling(%q, %q) = %q, want %q", tc.path, tc.name, got, tc.want)
		}
	}
}

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}
	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_WriteWithAndRead(t *testing.T) {
	fsys := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "out.csv")

	err := WriteWith(fsys, path, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteWith failed: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("expected %q, got %q", "a,b\n", data)
	}

	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	body, _ := io.ReadAll(f)
	if string(body) != "a,b\n" {
		t.Errorf("Open read %q", body)
	}
}

func TestRequireFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "summary.csv")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	fsys := OSFileSystem{}
	if err := RequireFile(fsys, file); err != nil {
		t.Errorf("RequireFile(file) = %v", err)
	}
	if err := RequireFile(fsys, dir); err == nil {
		t.Error("RequireFile(dir) should fail")
	}
	err := RequireFile(fsys, filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("RequireFile(missing) = %v, want ErrNotExist", err)
	}
}

func TestWriteWith_PropagatesWriteError(t *testing.T) {
	mfs := NewMemoryFileSystem()
	boom := errors.New("boom")
	err := WriteWith(mfs, "/out.png", func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("WriteWith error = %v, want boom", err)
	}
}

func TestMemoryFileSystem_CreateAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/created.txt")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("created content")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := mfs.ReadFile("/created.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "created content" {
		t.Errorf("expected 'created content', got %q", data)
	}

	info, err := mfs.Stat("/created.txt")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != int64(len("created content")) || info.IsDir() {
		t.Errorf("unexpected FileInfo: size=%d dir=%v", info.Size(), info.IsDir())
	}
}

func TestMemoryFileSystem_OpenNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.Open("/nonexistent.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open error = %v, want ErrNotExist", err)
	}
	if _, err := mfs.Stat("/nonexistent.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat error = %v, want ErrNotExist", err)
	}
	if _, err := mfs.ReadFile("/nonexistent.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile error = %v, want ErrNotExist", err)
	}
}

func TestMemoryFileSystem_PathCleaning(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/a/./b/../c.csv", []byte("x"))

	if !mfs.Exists("/a/c.csv") {
		t.Error("expected cleaned path to exist")
	}

	names := mfs.Names()
	sort.Strings(names)
	if len(names) != 1 || names[0] != "/a/c.csv" {
		t.Errorf("Names() = %v", names)
	}
}

func TestMemoryFileSystem_DataIsolation(t *testing.T) {
	mfs := NewMemoryFileSystem()
	original := []byte("original")
	mfs.WriteFile("/f", original)
	original[0] = 'X'

	data, _ := mfs.ReadFile("/f")
	if string(data) != "original" {
		t.Errorf("stored data changed with caller slice: %q", data)
	}
	data[0] = 'Y'
	again, _ := mfs.ReadFile("/f")
	if string(again) != "original" {
		t.Errorf("stored data changed with returned slice: %q", again)
	}
}
