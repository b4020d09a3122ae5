package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMD5Sum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := MD5Sum(path)
	if err != nil {
		t.Fatal(err)
	}
	// Known digest of "hello world".
	want := "5eb63bbbe01eeed093cb22bb8f5acdc3"
	if got != want {
		t.Fatalf("MD5Sum = %q, want %q", got, want)
	}
}

func TestMD5SumSameContentDifferentNames(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	b := filepath.Join(dir, "b.mp3")
	for _, path := range []string{a, b} {
		if err := os.WriteFile(path, []byte("identical audio bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	hashA, err := MD5Sum(a)
	if err != nil {
		t.Fatal(err)
	}
	hashB, err := MD5Sum(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashA != hashB {
		t.Fatal("identical content produced different hashes")
	}
}

func TestMD5SumMissingFile(t *testing.T) {
	if _, err := MD5Sum(filepath.Join(t.TempDir(), "absent.bin")); err == nil {
		t.Fatal("MD5Sum succeeded on a missing file")
	}
}
