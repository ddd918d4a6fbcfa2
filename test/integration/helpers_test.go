//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // SHAREDCFG_HOME, holds config.yaml
	SharedDir string // holds the shared resource
	Projects  []string
}

// setupTestEnv creates isolated temp directories and points SHAREDCFG_HOME at
// one of them so user settings never leak in from the real home directory.
func setupTestEnv(t *testing.T, projects ...string) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		HomeDir:   t.TempDir(),
		SharedDir: filepath.Join(root, "shared"),
	}
	t.Setenv("SHAREDCFG_HOME", env.HomeDir)

	if err := os.MkdirAll(env.SharedDir, 0755); err != nil {
		t.Fatalf("creating shared dir: %v", err)
	}
	for _, p := range projects {
		dir := filepath.Join(root, p)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", p, err)
		}
		env.Projects = append(env.Projects, dir)
	}
	return env
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to not exist, err=%v", path, err)
	}
}

func assertMode(t *testing.T, path string, want os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if got := info.Mode().Perm(); got != want {
		t.Errorf("mode of %s = %o, want %o", path, got, want)
	}
}
