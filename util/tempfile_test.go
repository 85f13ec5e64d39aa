package util

import (
	"os"
	"strings"
	"testing"
)

func TestMaterializeTempFile(t *testing.T) {
	data := []byte("not really audio")
	path, cleanup, err := MaterializeTempFile(data, ".wav")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasSuffix(path, ".wav") {
		t.Errorf("expected .wav suffix on %q", path)
	}
	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(onDisk) != string(data) {
		t.Error("temp file content mismatch")
	}

	cleanup()
	if _, err = os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected temp file to be removed after cleanup")
	}

	// Cleanup must tolerate being called again.
	cleanup()
}

func TestMaterializeTempFile_UniqueNames(t *testing.T) {
	path1, cleanup1, err := MaterializeTempFile([]byte("a"), ".bin")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup1()
	path2, cleanup2, err := MaterializeTempFile([]byte("b"), ".bin")
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup2()

	if path1 == path2 {
		t.Error("expected unique temp file paths")
	}
}
