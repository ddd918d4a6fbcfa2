package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
)

// run executes the command tree with args, isolated from the user's settings.
func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return Execute("test", "none", "unknown")
}

func setupCLI(t *testing.T) (root, resource string) {
	t.Helper()
	t.Setenv("SHAREDCFG_HOME", t.TempDir())
	root = t.TempDir()
	return root, filepath.Join(root, "shared", "config.json")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestInitLinkSet(t *testing.T) {
	root, resource := setupCLI(t)
	p1 := filepath.Join(root, "project1", "config.json")
	p2 := filepath.Join(root, "project2", "config.json")

	if err := run(t, "init", resource); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, p := range []string{p1, p2} {
		if err := run(t, "link", "add", p, "--file", resource); err != nil {
			t.Fatalf("link add %s: %v", p, err)
		}
	}
	if err := run(t, "set", "database.host", "new_secure_host", "--file", resource); err != nil {
		t.Fatalf("set: %v", err)
	}

	for _, p := range []string{resource, p1, p2} {
		if got := readFile(t, p); !strings.Contains(got, `"new_secure_host"`) {
			t.Errorf("%s does not contain the new host:\n%s", p, got)
		}
	}
	mode, err := platform.Perm(resource)
	if err != nil {
		t.Fatal(err)
	}
	if mode != platform.ModeReadOnly {
		t.Errorf("mode = %o, want %o", mode, platform.ModeReadOnly)
	}

	if err := run(t, "doctor", "--file", resource); err != nil {
		t.Errorf("doctor on a healthy resource: %v", err)
	}
}

func TestSetFailureIsReported(t *testing.T) {
	_, resource := setupCLI(t)
	if err := run(t, "init", resource); err != nil {
		t.Fatalf("init: %v", err)
	}

	err := run(t, "set", "database.missing.key", "x", "--file", resource)
	if !errors.Is(err, errReported) {
		t.Fatalf("set on a missing path: err = %v, want errReported", err)
	}

	mode, err := platform.Perm(resource)
	if err != nil {
		t.Fatal(err)
	}
	if mode != platform.ModeReadOnly {
		t.Errorf("mode after failed set = %o, want %o", mode, platform.ModeReadOnly)
	}
}

func TestGetUnknownKey(t *testing.T) {
	_, resource := setupCLI(t)
	if err := run(t, "init", resource); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := run(t, "get", "database.nope", "--file", resource); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigSetWritesUserSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SHAREDCFG_HOME", home)
	t.Setenv("SHAREDCFG_MODE_LOCKED", "0400")

	if err := run(t, "--file", "/tmp/one-off.json", "config", "set", "lock.timeout", "2s"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(home, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config.yaml: %v", err)
	}
	if !strings.Contains(string(data), "2s") {
		t.Errorf("config.yaml missing timeout:\n%s", data)
	}
	for _, leaked := range []string{"one-off.json", "0400"} {
		if strings.Contains(string(data), leaked) {
			t.Errorf("config.yaml picked up %q from flags or env:\n%s", leaked, data)
		}
	}

	if err := run(t, "config", "set", "mode.locked", "banana"); err == nil {
		t.Error("expected invalid mode to be rejected")
	}
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SHAREDCFG_HOME", home)

	if err := run(t, "config", "set", "databse.host", "x"); err == nil {
		t.Error("expected unknown key to be rejected")
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); !os.IsNotExist(err) {
		t.Errorf("config.yaml written for unknown key: %v", err)
	}
}

func TestVersionInfo(t *testing.T) {
	buildVersion = "1.2.3"
	info := currentBuild()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.ManifestFormat == "" {
		t.Error("ManifestFormat is empty")
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch", info.Platform)
	}
}
