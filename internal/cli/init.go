package cli

import (
	"context"
	"fmt"

	"github.com/sharedcfg-labs/sharedcfg/internal/branding"
	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reset an existing resource to defaults (links are kept)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create the shared config file with default values",
	Long: `Create the shared config file with default values and leave it read-only.

The format follows the file extension: .json (default), .yaml/.yml or .toml.

Example:
  sharedcfg init shared/config.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := rootCmd.PersistentFlags().Set("file", args[0]); err != nil {
				return err
			}
		}
		res, err := openResource()
		if err != nil {
			return err
		}

		if err := res.Init(context.Background(), document.Default(), initForce); err != nil {
			return fmt.Errorf("initializing %s: %w", res.Path(), err)
		}

		mode, err := res.Mode()
		if err != nil {
			return err
		}
		fmt.Printf("Initialized %s (%s, mode %o)\n", res.Path(), res.Format(), mode)
		fmt.Printf("Use '%s link add <path>' to share it with a project.\n", branding.CLIName())
		return nil
	},
}
