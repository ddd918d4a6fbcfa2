package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SHAREDCFG_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}

func TestDirHonorsEnv(t *testing.T) {
	dir := setup(t)
	if got := Dir(); got != dir {
		t.Errorf("Dir() = %q, want %q", got, dir)
	}
	if got, want := FilePath(), filepath.Join(dir, "config.yaml"); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestDefaults(t *testing.T) {
	setup(t)
	Load()

	if got := Resource(); got != DefaultResource {
		t.Errorf("Resource() = %q, want %q", got, DefaultResource)
	}
	if got := LockedMode(); got != 0444 {
		t.Errorf("LockedMode() = %o, want 444", got)
	}
	if got := UnlockedMode(); got != 0644 {
		t.Errorf("UnlockedMode() = %o, want 644", got)
	}
	if got := LockTimeout(); got != 5*time.Second {
		t.Errorf("LockTimeout() = %v, want 5s", got)
	}
}

func TestEnvOverride(t *testing.T) {
	setup(t)
	t.Setenv("SHAREDCFG_MODE_LOCKED", "0400")
	Load()

	if got := LockedMode(); got != 0400 {
		t.Errorf("LockedMode() = %o, want 400", got)
	}
}

func TestSetPersists(t *testing.T) {
	dir := setup(t)
	Load()

	if err := Set(KeyResource, "/srv/shared/app.json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	viper.Reset()
	Load()
	if got := Get(KeyResource); got != "/srv/shared/app.json" {
		t.Errorf("Get(resource) after reload = %q", got)
	}
}

func TestSetWritesOnlyFileKeys(t *testing.T) {
	dir := setup(t)
	t.Setenv("SHAREDCFG_MODE_LOCKED", "0400")
	Load()
	viper.Set(KeyResource, "/tmp/one-off.json")

	if err := Set(KeyUnlockedMode, "0600"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Set(KeyLockTimeout, "2s"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, leaked := range []string{"one-off", "0400", "0644"} {
		if strings.Contains(content, leaked) {
			t.Errorf("config.yaml contains %q:\n%s", leaked, content)
		}
	}
	for _, kept := range []string{"2s", "0600"} {
		if !strings.Contains(content, kept) {
			t.Errorf("config.yaml missing %q:\n%s", kept, content)
		}
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	setup(t)
	Load()

	if err := Set(KeyLockedMode, "rw-r--r--"); err == nil {
		t.Error("expected error for non-octal mode")
	}
	if err := Set(KeyLockTimeout, "soon"); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestLookupSources(t *testing.T) {
	setup(t)
	t.Setenv("SHAREDCFG_MODE_LOCKED", "0400")
	Load()
	if err := Set(KeyLockTimeout, "2s"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key        string
		wantValue  string
		wantSource string
	}{
		{KeyLockedMode, "0400", SourceEnv},
		{KeyLockTimeout, "2s", SourceFile},
		{KeyUnlockedMode, DefaultUnlockedMode, SourceDefault},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			value, source := Lookup(tt.key)
			if value != tt.wantValue || source != tt.wantSource {
				t.Errorf("Lookup(%q) = %q, %q; want %q, %q", tt.key, value, source, tt.wantValue, tt.wantSource)
			}
		})
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName(KeyLockTimeout); got != "SHAREDCFG_LOCK_TIMEOUT" {
		t.Errorf("EnvName = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    os.FileMode
		wantErr bool
	}{
		{"0444", 0444, false},
		{"644", 0644, false},
		{"0600", 0600, false},
		{"1777", 0, true},
		{"9", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseMode(%q) expected error, got %o", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %o, want %o", tt.in, got, tt.want)
			}
		})
	}
}
