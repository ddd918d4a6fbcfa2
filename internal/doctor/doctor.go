// Package doctor runs health checks on a shared resource and its names and
// optionally repairs what it can: re-locking the mode and re-creating links.
package doctor

import (
	"fmt"
	"io"

	"github.com/sharedcfg-labs/sharedcfg/internal/linker"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
	"github.com/sharedcfg-labs/sharedcfg/internal/store"
)

// Report counts what a check run found.
type Report struct {
	Problems int
	Fixed    int
}

// Healthy reports whether every problem found was fixed.
func (r Report) Healthy() bool { return r.Problems == r.Fixed }

// CheckResource validates the resource's presence, mode, content and links.
// When fix is true, it attempts to repair issues.
func CheckResource(w io.Writer, res *store.Resource, fix bool) (Report, error) {
	var rep Report
	fmt.Fprintf(w, "Resource check: %s\n", res.Path())

	if !res.Exists() {
		rep.Problems++
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", res.Path())
		if !fix {
			fmt.Fprintln(w, "         Run 'sharedcfg link sync' to restore it from a surviving hard link")
			return rep, nil
		}
		if _, err := linker.Sync(res.Path(), false); err != nil {
			fmt.Fprintf(w, "  [FAIL] Could not restore %s: %v\n", res.Path(), err)
			return rep, nil
		}
		rep.Fixed++
		fmt.Fprintf(w, "  [FIX ] Restored %s from a surviving hard link\n", res.Path())
	} else {
		fmt.Fprintf(w, "  [ OK ] %s exists\n", res.Path())
	}

	checkMode(w, res, fix, &rep)
	checkContent(w, res, &rep)
	if err := checkLinks(w, res, fix, &rep); err != nil {
		return rep, err
	}
	return rep, nil
}

func checkMode(w io.Writer, res *store.Resource, fix bool, rep *Report) {
	want := res.Options().LockedMode
	got, err := res.Mode()
	if err != nil {
		rep.Problems++
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", res.Path(), err)
		return
	}
	if got == want {
		fmt.Fprintf(w, "  [ OK ] permissions %o\n", got)
		return
	}

	rep.Problems++
	fmt.Fprintf(w, "  [WARN] permissions %o (expected %o)\n", got, want)
	if platform.IsWritable(got) {
		fmt.Fprintln(w, "         The file is writable outside an update")
	}
	if !fix {
		return
	}
	if err := res.Relock(); err != nil {
		fmt.Fprintf(w, "  [FAIL] Could not fix permissions: %v\n", err)
		return
	}
	rep.Fixed++
	fmt.Fprintf(w, "  [FIX ] Fixed permissions to %o\n", want)
}

func checkContent(w io.Writer, res *store.Resource, rep *Report) {
	result, err := res.Validate()
	if err != nil {
		rep.Problems++
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return
	}
	if result.Valid {
		fmt.Fprintf(w, "  [ OK ] valid %s content\n", res.Format())
		return
	}

	rep.Problems++
	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    - %s\n", issue)
	}
}

func checkLinks(w io.Writer, res *store.Resource, fix bool, rep *Report) error {
	statuses, err := linker.Status(res.Path())
	if err != nil {
		return fmt.Errorf("reading link status: %w", err)
	}

	var broken int
	var hardNames uint64
	var inodeLinks uint64
	for _, st := range statuses {
		if st.Kind == linker.KindPrimary {
			inodeLinks = st.Links
			continue
		}
		if st.Kind == linker.KindHard {
			hardNames++
		}
		switch st.State {
		case linker.StateOK:
			fmt.Fprintf(w, "  [ OK ] %s (%s)\n", st.Name, st.Kind)
		case linker.StateMissing:
			broken++
			fmt.Fprintf(w, "  [MISS] %s (%s link missing)\n", st.Name, st.Kind)
		case linker.StateDangling:
			broken++
			fmt.Fprintf(w, "  [WARN] %s -> target does not exist\n", st.Name)
		case linker.StateDiverged:
			broken++
			fmt.Fprintf(w, "  [WARN] %s no longer shares the resource (diverged)\n", st.Name)
		}
	}

	if inodeLinks > hardNames+1 {
		fmt.Fprintf(w, "  [INFO] inode has %d names, %d recorded\n", inodeLinks, hardNames+1)
	}

	rep.Problems += broken
	if broken == 0 || !fix {
		return nil
	}

	results, err := linker.Sync(res.Path(), false)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] Could not re-link: %v\n", err)
		return nil
	}
	for _, r := range results {
		switch r.Action {
		case linker.ActionRelinked:
			rep.Fixed++
			fmt.Fprintf(w, "  [FIX ] Re-linked %s (%s)\n", r.Name, r.Detail)
		case linker.ActionSkipped:
			fmt.Fprintf(w, "  [SKIP] %s: %s\n", r.Name, r.Detail)
		}
	}
	return nil
}
