package linker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
)

// Link states reported by Status.
const (
	StateOK       = "ok"
	StateMissing  = "missing"
	StateDiverged = "diverged"
	StateDangling = "dangling"
)

// KindPrimary marks the resource's own path in Status output.
const KindPrimary Kind = "primary"

// ErrNoSurvivor is returned when neither the resource nor any hard link exists.
var ErrNoSurvivor = errors.New("no name still holds the resource")

// LinkStatus describes one name of a resource.
type LinkStatus struct {
	Name  string
	Kind  Kind
	State string
	// Links is the inode's link count, 0 when unknown.
	Links uint64
}

// SyncResult describes what Sync did for one name.
type SyncResult struct {
	Name   string
	Action string
	Detail string
}

// Sync actions.
const (
	ActionNone     = "none"
	ActionRelinked = "relinked"
	ActionRestored = "restored"
	ActionSkipped  = "skipped"
)

// Add creates name as a new link to the resource and records it.
func Add(resourcePath, name string, kind Kind) error {
	abs, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", name, err)
	}
	if abs == resourcePath {
		return fmt.Errorf("%s is the resource itself", name)
	}
	if _, err := os.Stat(resourcePath); err != nil {
		return fmt.Errorf("resource %s: %w", resourcePath, err)
	}

	m, err := LoadManifest(resourcePath)
	if err != nil {
		return err
	}
	if m.find(resourcePath, abs) >= 0 {
		return fmt.Errorf("%s is already linked", name)
	}
	if _, err := os.Lstat(abs); err == nil {
		return fmt.Errorf("%s already exists", name)
	}

	if err := create(resourcePath, abs, kind); err != nil {
		return err
	}

	m.Links = append(m.Links, Link{Name: recordName(resourcePath, abs), Kind: kind})
	return SaveManifest(resourcePath, m)
}

// Remove drops name from the manifest. The directory entry is deleted only
// while it still refers to the resource; a diverged file is left in place.
// It reports whether an entry was deleted from disk.
func Remove(resourcePath, name string) (bool, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", name, err)
	}

	m, err := LoadManifest(resourcePath)
	if err != nil {
		return false, err
	}
	idx := m.find(resourcePath, abs)
	if idx < 0 {
		return false, fmt.Errorf("%s is not currently linked", name)
	}
	l := m.Links[idx]

	ref := reference(resourcePath, m)
	st := inspect(abs, l.Kind, ref)

	if l.Kind == KindHard && st.State == StateOK && !exists(resourcePath) && countOK(resourcePath, m, ref) == 1 {
		return false, fmt.Errorf("refusing to remove %s: it is the last name holding the resource", name)
	}

	deleted := false
	switch {
	case st.State == StateOK && l.Kind == KindSymbolic, st.State == StateDangling:
		if err := platform.RemoveSymlink(abs); err != nil {
			return false, fmt.Errorf("removing %s: %w", name, err)
		}
		deleted = true
	case st.State == StateOK:
		if err := os.Remove(abs); err != nil {
			return false, fmt.Errorf("removing %s: %w", name, err)
		}
		deleted = true
	}

	m.Links = append(m.Links[:idx], m.Links[idx+1:]...)
	if err := SaveManifest(resourcePath, m); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// Status reports the primary path followed by every recorded name.
func Status(resourcePath string) ([]LinkStatus, error) {
	m, err := LoadManifest(resourcePath)
	if err != nil {
		return nil, err
	}
	ref := reference(resourcePath, m)

	results := make([]LinkStatus, 0, len(m.Links)+1)
	primary := LinkStatus{Name: resourcePath, Kind: KindPrimary, State: StateMissing}
	if exists(resourcePath) {
		primary.State = StateOK
		primary.Links = linkCount(resourcePath)
	}
	results = append(results, primary)

	for _, l := range m.Links {
		results = append(results, inspect(resolveName(resourcePath, l.Name), l.Kind, ref))
	}
	return results, nil
}

// Sync re-creates missing and dangling names and restores a missing primary
// from a surviving hard link. Diverged names are moved aside to <name>.orig
// (or the next free <name>.orig.N) and re-linked only when force is set.
func Sync(resourcePath string, force bool) ([]SyncResult, error) {
	m, err := LoadManifest(resourcePath)
	if err != nil {
		return nil, err
	}
	ref := reference(resourcePath, m)
	if ref == "" {
		return nil, fmt.Errorf("%s: %w", resourcePath, ErrNoSurvivor)
	}

	var results []SyncResult
	if !exists(resourcePath) {
		if err := platform.CreateHardlink(ref, resourcePath); err != nil {
			return nil, fmt.Errorf("restoring primary: %w", err)
		}
		results = append(results, SyncResult{Name: resourcePath, Action: ActionRestored, Detail: "from " + ref})
	}

	for _, l := range m.Links {
		abs := resolveName(resourcePath, l.Name)
		st := inspect(abs, l.Kind, resourcePath)

		switch st.State {
		case StateOK:
			results = append(results, SyncResult{Name: abs, Action: ActionNone})
		case StateMissing:
			if err := create(resourcePath, abs, l.Kind); err != nil {
				return results, err
			}
			results = append(results, SyncResult{Name: abs, Action: ActionRelinked, Detail: "was missing"})
		case StateDangling:
			if err := platform.RemoveSymlink(abs); err != nil {
				return results, fmt.Errorf("removing dangling %s: %w", abs, err)
			}
			if err := create(resourcePath, abs, l.Kind); err != nil {
				return results, err
			}
			results = append(results, SyncResult{Name: abs, Action: ActionRelinked, Detail: "was dangling"})
		case StateDiverged:
			if !force {
				results = append(results, SyncResult{Name: abs, Action: ActionSkipped, Detail: "diverged; rerun with --force"})
				continue
			}
			backup := backupName(abs)
			if err := os.Rename(abs, backup); err != nil {
				return results, fmt.Errorf("moving aside %s: %w", abs, err)
			}
			if err := create(resourcePath, abs, l.Kind); err != nil {
				return results, err
			}
			results = append(results, SyncResult{Name: abs, Action: ActionRelinked, Detail: "diverged copy kept at " + backup})
		}
	}
	return results, nil
}

// backupName returns <name>.orig, or <name>.orig.N for the first N not
// already taken, so earlier diverged copies are never overwritten.
func backupName(abs string) string {
	backup := abs + ".orig"
	for i := 1; ; i++ {
		if _, err := os.Lstat(backup); err != nil {
			return backup
		}
		backup = fmt.Sprintf("%s.orig.%d", abs, i)
	}
}

// Names returns the absolute paths of all recorded names.
func Names(resourcePath string) ([]string, error) {
	m, err := LoadManifest(resourcePath)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.Links))
	for _, l := range m.Links {
		names = append(names, resolveName(resourcePath, l.Name))
	}
	return names, nil
}

func create(resourcePath, abs string, kind Kind) error {
	switch kind {
	case KindHard:
		return platform.CreateHardlink(resourcePath, abs)
	case KindSymbolic:
		if err := platform.CreateSymlink(resourcePath, abs); err != nil {
			return fmt.Errorf("symlinking %s to %s: %w", abs, resourcePath, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown link kind %q", kind)
	}
}

// inspect classifies abs against the reference file ref.
func inspect(abs string, kind Kind, ref string) LinkStatus {
	st := LinkStatus{Name: abs, Kind: kind}

	isLink, err := platform.IsSymlink(abs)
	if errors.Is(err, fs.ErrNotExist) {
		st.State = StateMissing
		return st
	}
	if err != nil {
		st.State = StateDiverged
		return st
	}

	if kind == KindSymbolic {
		if !isLink {
			st.State = StateDiverged
			return st
		}
		if dangling, _ := platform.IsDangling(abs); dangling {
			st.State = StateDangling
			return st
		}
	} else if isLink {
		st.State = StateDiverged
		return st
	}

	st.Links = linkCount(abs)
	if ref == "" {
		st.State = StateOK
		return st
	}
	same, err := platform.SameFile(abs, ref)
	if err != nil || !same {
		st.State = StateDiverged
		return st
	}
	st.State = StateOK
	return st
}

// reference picks the path whose inode defines the resource: the primary
// path, or the first surviving hard link when the primary is gone.
func reference(resourcePath string, m *Manifest) string {
	if exists(resourcePath) {
		return resourcePath
	}
	for _, l := range m.Links {
		if l.Kind != KindHard {
			continue
		}
		abs := resolveName(resourcePath, l.Name)
		if isLink, err := platform.IsSymlink(abs); err == nil && !isLink {
			return abs
		}
	}
	return ""
}

func countOK(resourcePath string, m *Manifest, ref string) int {
	n := 0
	for _, l := range m.Links {
		if l.Kind != KindHard {
			continue
		}
		if inspect(resolveName(resourcePath, l.Name), l.Kind, ref).State == StateOK {
			n++
		}
	}
	return n
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func linkCount(path string) uint64 {
	id, err := platform.Stat(path)
	if err != nil {
		return 0
	}
	return id.Links
}
