package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sharedcfg-labs/sharedcfg/internal/config"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
	"github.com/sharedcfg-labs/sharedcfg/internal/scenario"
	"github.com/sharedcfg-labs/sharedcfg/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo [dir]",
	Short: "Run the hard link walkthrough in a scratch directory",
	Long: `Create shared/config.json under dir (a new temporary directory by default),
hard-link it into project1/ and project2/, update database.host through the
controlled procedure, and read it back through every name. Finishes by
removing an original name to show that a hard link survives while a symlink
dangles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
			if err := os.MkdirAll(dir, platform.DirPermNormal); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
		} else {
			tmp, err := os.MkdirTemp("", "sharedcfg-demo-")
			if err != nil {
				return fmt.Errorf("creating scratch directory: %w", err)
			}
			dir = tmp
		}

		result, err := scenario.Run(context.Background(), os.Stdout, dir, store.Options{
			LockedMode:   config.LockedMode(),
			UnlockedMode: config.UnlockedMode(),
			LockTimeout:  config.LockTimeout(),
			Logger:       logger,
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nDone. Files are in %s\n", dir)
		if !result.Updated {
			return errReported
		}
		return nil
	},
}
