package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCreateHardlinkSharesContent(t *testing.T) {
	tmp := t.TempDir()

	src := filepath.Join(tmp, "shared", "config.json")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte(`{"v":1}`), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(tmp, "project1", "config.json")
	if err := CreateHardlink(src, dst); err != nil {
		t.Fatalf("CreateHardlink failed: %v", err)
	}

	same, err := SameFile(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if !same {
		t.Fatal("hard link does not resolve to the source inode")
	}

	// A write through one name is visible through the other.
	if err := os.WriteFile(dst, []byte(`{"v":2}`), 0644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"v":2}` {
		t.Errorf("source content = %q, want write through link", string(data))
	}
}

func TestHardlinkSurvivesSourceRemoval(t *testing.T) {
	tmp := t.TempDir()

	src := filepath.Join(tmp, "config.json")
	if err := os.WriteFile(src, []byte("durable"), 0644); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(tmp, "project2", "config.json")
	if err := CreateHardlink(src, dst); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(src); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading surviving name: %v", err)
	}
	if string(data) != "durable" {
		t.Errorf("surviving content = %q", string(data))
	}
}

func TestCreateHardlinkExistingDestination(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.json")
	dst := filepath.Join(tmp, "b.json")
	for _, p := range []string{src, dst} {
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := CreateHardlink(src, dst); err == nil {
		t.Error("expected error linking over an existing name")
	}
}

func TestStatLinkCount(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("inode metadata is Unix-only")
	}
	tmp := t.TempDir()

	src := filepath.Join(tmp, "config.json")
	if err := os.WriteFile(src, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	before, err := Stat(src)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if before.Links != 1 {
		t.Errorf("Links = %d, want 1", before.Links)
	}

	for _, name := range []string{"p1/config.json", "p2/config.json"} {
		if err := CreateHardlink(src, filepath.Join(tmp, name)); err != nil {
			t.Fatal(err)
		}
	}

	after, err := Stat(filepath.Join(tmp, "p2/config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if after.Links != 3 {
		t.Errorf("Links = %d, want 3", after.Links)
	}
	if !after.Same(before) {
		t.Errorf("identity changed: %+v vs %+v", after, before)
	}
}
