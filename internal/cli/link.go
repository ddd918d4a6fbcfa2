package cli

import (
	"fmt"

	"github.com/sharedcfg-labs/sharedcfg/internal/linker"
	"github.com/spf13/cobra"
)

var (
	linkSymbolic bool
	syncForce    bool
)

func init() {
	linkAddCmd.Flags().BoolVarP(&linkSymbolic, "symbolic", "s", false, "Create a symbolic link instead of a hard link")
	linkSyncCmd.Flags().BoolVar(&syncForce, "force", false, "Re-link diverged names, keeping their content at <name>.orig")

	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkRemoveCmd)
	linkCmd.AddCommand(linkSyncCmd)
	linkCmd.AddCommand(linkStatusCmd)
	rootCmd.AddCommand(linkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage the names that share the config file",
	Long: `Manage which paths share the config file. Hard links are the default:
every name refers to the same inode, and the content survives as long as any
name remains. Symbolic links only store the resource path and break when it
is removed.`,
}

var linkAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Link the config file into a project",
	Long: `Create <path> as another name for the shared config file and record it.

Example:
  sharedcfg link add project1/config.json
  sharedcfg link add project2/config.json
  sharedcfg link add --symbolic project3/config.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		kind := linker.KindHard
		if linkSymbolic {
			kind = linker.KindSymbolic
		}

		if err := linker.Add(res.Path(), args[0], kind); err != nil {
			return err
		}
		fmt.Printf("Linked %s (%s) -> %s\n", args[0], kind, res.Path())
		return nil
	},
}

var linkRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Unlink a project from the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		deleted, err := linker.Remove(res.Path(), args[0])
		if err != nil {
			return err
		}
		if deleted {
			fmt.Printf("Removed %s\n", args[0])
		} else {
			fmt.Printf("Forgot %s (left on disk: it no longer shares the resource)\n", args[0])
		}
		return nil
	},
}

var linkSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Re-create missing, dangling or detached names",
	Long: `Re-create recorded names that are missing or dangling, and restore the
primary path from a surviving hard link if it was removed. Names detached by
an editor that saves through rename are only re-linked with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		results, err := linker.Sync(res.Path(), syncForce)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("  %-9s %s", r.Action, r.Name)
			if r.Detail != "" {
				fmt.Printf(" (%s)", r.Detail)
			}
			fmt.Println()
		}
		fmt.Println("Sync complete.")
		return nil
	},
}

var linkStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether every name still shares the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		results, err := linker.Status(res.Path())
		if err != nil {
			return err
		}

		for _, r := range results {
			statusIcon := "?"
			switch r.State {
			case linker.StateOK:
				statusIcon = "OK"
			case linker.StateDiverged, linker.StateDangling:
				statusIcon = "!!"
			case linker.StateMissing:
				statusIcon = "--"
			}

			fmt.Printf("  [%s] %-9s %-9s %s", statusIcon, r.Kind, r.State, r.Name)
			if r.Links > 0 {
				fmt.Printf(" (%d names)", r.Links)
			}
			fmt.Println()
		}
		return nil
	},
}
