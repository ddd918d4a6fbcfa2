// Package scenario runs the shared-configuration walkthrough end to end:
// create a read-only config, hard-link it into two projects, update it through
// the controlled procedure, read it back through each name, and contrast how
// hard and symbolic links behave when the original name is removed.
package scenario

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/sharedcfg-labs/sharedcfg/internal/linker"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
	"github.com/sharedcfg-labs/sharedcfg/internal/store"
)

// Scenario constants.
const (
	SharedFile = "shared/config.json"
	UpdateKey  = "database.host"
	NewHost    = "new_secure_host"
)

// ProjectNames are the linked names created under the scenario directory.
var ProjectNames = []string{"project1/config.json", "project2/config.json"}

// Result captures what the walkthrough observed.
type Result struct {
	Resource string
	// Hosts maps every name to the host read through it after the update.
	Hosts    map[string]string
	Mode     os.FileMode
	Updated  bool
	Links    uint64
	Survived bool // hard link readable after its original name was removed
	Dangling bool // symlink broken after its target was removed
}

// Run executes the walkthrough under dir, writing a narrated log to w.
func Run(ctx context.Context, w io.Writer, dir string, opts store.Options) (*Result, error) {
	res, err := store.Open(filepath.Join(dir, SharedFile), opts)
	if err != nil {
		return nil, err
	}
	result := &Result{Resource: res.Path(), Hosts: map[string]string{}}

	fmt.Fprintf(w, "1. Creating %s with default values\n", res.Path())
	if err := res.Init(ctx, document.Default(), true); err != nil {
		return nil, fmt.Errorf("initializing resource: %w", err)
	}

	fmt.Fprintln(w, "2. Hard-linking into project directories")
	names := []string{res.Path()}
	for _, rel := range ProjectNames {
		name := filepath.Join(dir, rel)
		if err := ensureLinked(res.Path(), name); err != nil {
			return nil, err
		}
		names = append(names, name)
		fmt.Fprintf(w, "   %s\n", name)
	}
	for _, name := range names {
		if id, err := platform.Stat(name); err == nil {
			fmt.Fprintf(w, "   inode %d, %d names: %s\n", id.Inode, id.Links, name)
			result.Links = id.Links
		}
	}

	mode, err := res.Mode()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "3. Resource mode is %o\n", mode)

	fmt.Fprintf(w, "4. Updating %s to %q\n", UpdateKey, NewHost)
	result.Updated = res.TryUpdate(ctx, UpdateKey, NewHost)
	if result.Updated {
		fmt.Fprintln(w, "   Configuration updated successfully.")
	} else {
		fmt.Fprintln(w, "   Failed to update configuration.")
	}

	fmt.Fprintln(w, "5. Reading back through every name")
	for _, name := range names {
		doc, err := res.LoadVia(name)
		if err != nil {
			return nil, err
		}
		host, err := doc.Get(UpdateKey)
		if err != nil {
			return nil, err
		}
		result.Hosts[name] = fmt.Sprint(host)
		fmt.Fprintf(w, "   %s: %s = %v\n", name, UpdateKey, host)
	}

	result.Mode, err = res.Mode()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "   mode after update: %o\n", result.Mode)

	fmt.Fprintln(w, "6. Removing an original name: hard link versus symlink")
	result.Survived, result.Dangling, err = contrast(w, filepath.Join(dir, "links-demo"))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ensureLinked adds name as a hard link unless it already is one.
func ensureLinked(resourcePath, name string) error {
	statuses, err := linker.Status(resourcePath)
	if err != nil {
		return err
	}
	for _, st := range statuses {
		if st.Name == name && st.State == linker.StateOK {
			return nil
		}
		if st.Name == name {
			_, err := linker.Sync(resourcePath, true)
			return err
		}
	}
	return linker.Add(resourcePath, name, linker.KindHard)
}

// contrast creates original.txt with a hard link and a symlink to it, removes
// the original and reports which of the two still reads.
func contrast(w io.Writer, dir string) (survived, dangling bool, err error) {
	if err := os.RemoveAll(dir); err != nil {
		return false, false, err
	}
	if err := os.MkdirAll(dir, platform.DirPermNormal); err != nil {
		return false, false, err
	}

	original := filepath.Join(dir, "original.txt")
	hard := filepath.Join(dir, "hard.txt")
	soft := filepath.Join(dir, "soft.txt")

	if err := os.WriteFile(original, []byte("shared content\n"), 0644); err != nil {
		return false, false, err
	}
	if err := platform.CreateHardlink(original, hard); err != nil {
		return false, false, err
	}
	if err := platform.CreateSymlink(original, soft); err != nil {
		return false, false, err
	}
	if err := os.Remove(original); err != nil {
		return false, false, err
	}

	if data, err := os.ReadFile(hard); err == nil {
		survived = true
		fmt.Fprintf(w, "   %s still reads %q\n", hard, string(data))
	}
	dangling, err = platform.IsDangling(soft)
	if err != nil {
		return survived, false, err
	}
	if dangling {
		fmt.Fprintf(w, "   %s is dangling\n", soft)
	}
	return survived, dangling, nil
}
