//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sharedcfg-labs/sharedcfg/internal/doctor"
	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/sharedcfg-labs/sharedcfg/internal/linker"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
	"github.com/sharedcfg-labs/sharedcfg/internal/store"
)

// TestFullFlowShareUpdateRepair tests the complete flow:
// init -> link into projects -> update -> break a link -> doctor --fix.
func TestFullFlowShareUpdateRepair(t *testing.T) {
	env := setupTestEnv(t, "project1", "project2")
	ctx := context.Background()

	res, err := store.Open(filepath.Join(env.SharedDir, "config.json"), store.DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Step 1: create the resource with defaults.
	if err := res.Init(ctx, document.Default(), false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	assertMode(t, res.Path(), platform.ModeReadOnly)

	// Step 2: share it with both projects.
	var names []string
	for _, p := range env.Projects {
		name := filepath.Join(p, "config.json")
		if err := linker.Add(res.Path(), name, linker.KindHard); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
		names = append(names, name)
	}
	assertFileExists(t, linker.ManifestPath(res.Path()))

	// Step 3: controlled update.
	if err := res.Update(ctx, "database.host", "new_secure_host"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	assertMode(t, res.Path(), platform.ModeReadOnly)

	for _, name := range names {
		doc, err := res.LoadVia(name)
		if err != nil {
			t.Fatalf("LoadVia(%s): %v", name, err)
		}
		host, err := doc.Get("database.host")
		if err != nil {
			t.Fatalf("Get via %s: %v", name, err)
		}
		if host != "new_secure_host" {
			t.Errorf("host via %s = %v, want new_secure_host", name, host)
		}
	}

	// Step 4: simulate an editor that saves by rename, detaching project2.
	detached := names[1]
	if err := os.Remove(detached); err != nil {
		t.Fatalf("removing %s: %v", detached, err)
	}
	if err := os.WriteFile(detached, []byte(`{"database":{"host":"h","user":"u","password":"p"}}`), 0644); err != nil {
		t.Fatalf("writing detached copy: %v", err)
	}

	var out bytes.Buffer
	rep, err := doctor.CheckResource(&out, res, false)
	if err != nil {
		t.Fatalf("CheckResource: %v", err)
	}
	if rep.Healthy() {
		t.Fatalf("expected diverged link to be reported, output:\n%s", out.String())
	}

	// Step 5: sync --force re-links the diverged name.
	results, err := linker.Sync(res.Path(), true)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	relinked := false
	for _, r := range results {
		if r.Action == linker.ActionRelinked {
			relinked = true
		}
	}
	if !relinked {
		t.Errorf("Sync results %+v, expected a relinked entry", results)
	}
	same, err := platform.SameFile(res.Path(), detached)
	if err != nil || !same {
		t.Errorf("SameFile after sync = %v, %v", same, err)
	}

	out.Reset()
	rep, err = doctor.CheckResource(&out, res, false)
	if err != nil {
		t.Fatalf("CheckResource: %v", err)
	}
	if !rep.Healthy() {
		t.Errorf("expected healthy resource after sync, output:\n%s", out.String())
	}
}

// TestPrimaryRemovedSurvivorKeepsContent removes the name that created the
// resource and verifies a hard link still serves and accepts updates.
func TestPrimaryRemovedSurvivorKeepsContent(t *testing.T) {
	env := setupTestEnv(t, "project1")
	ctx := context.Background()

	primary := filepath.Join(env.SharedDir, "config.json")
	res, err := store.Open(primary, store.DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := res.Init(ctx, document.Default(), false); err != nil {
		t.Fatalf("Init: %v", err)
	}

	survivor := filepath.Join(env.Projects[0], "config.json")
	if err := platform.CreateHardlink(primary, survivor); err != nil {
		t.Fatalf("CreateHardlink: %v", err)
	}
	symlink := filepath.Join(env.Projects[0], "config.symlink.json")
	if err := platform.CreateSymlink(primary, symlink); err != nil {
		t.Fatalf("CreateSymlink: %v", err)
	}

	if err := os.Remove(primary); err != nil {
		t.Fatalf("removing primary: %v", err)
	}
	assertNotExists(t, primary)

	dangling, err := platform.IsDangling(symlink)
	if err != nil {
		t.Fatalf("IsDangling: %v", err)
	}
	if !dangling {
		t.Error("symlink to removed name should dangle")
	}

	other, err := store.Open(survivor, store.DefaultOptions())
	if err != nil {
		t.Fatalf("Open survivor: %v", err)
	}
	cfg, err := other.Config()
	if err != nil {
		t.Fatalf("Config via survivor: %v", err)
	}
	if cfg.Database.Host != "default_host" {
		t.Errorf("host = %q, want default_host", cfg.Database.Host)
	}

	if err := other.Update(ctx, "database.user", "operator"); err != nil {
		t.Fatalf("Update via survivor: %v", err)
	}
	assertMode(t, survivor, platform.ModeReadOnly)
}

// TestUpdateFailureKeepsFileIntact checks that a rejected update leaves the
// content byte-for-byte unchanged and the mode locked.
func TestUpdateFailureKeepsFileIntact(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	res, err := store.Open(filepath.Join(env.SharedDir, "config.json"), store.DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := res.Init(ctx, document.Default(), false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	before, err := os.ReadFile(res.Path())
	if err != nil {
		t.Fatal(err)
	}

	err = res.Update(ctx, "database.host", "")
	if !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("Update with empty host: err = %v, want ErrInvalid", err)
	}
	var ue *store.UpdateError
	if !errors.As(err, &ue) || ue.Key != "database.host" {
		t.Errorf("expected *UpdateError for database.host, got %v", err)
	}

	after, err := os.ReadFile(res.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("content changed after failed update:\n%s", after)
	}
	if !strings.Contains(string(after), "default_host") {
		t.Errorf("content lost default host:\n%s", after)
	}
	assertMode(t, res.Path(), platform.ModeReadOnly)
}
