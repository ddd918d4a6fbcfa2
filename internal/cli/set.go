package cli

import (
	"context"
	"fmt"

	"github.com/sharedcfg-labs/sharedcfg/internal/document"
	"github.com/sharedcfg-labs/sharedcfg/internal/store"
	"github.com/spf13/cobra"
)

var (
	setCreate   bool
	setAsString bool
)

func init() {
	setCmd.Flags().BoolVar(&setCreate, "create", false, "Create missing intermediate keys")
	setCmd.Flags().BoolVar(&setAsString, "string", false, "Store the value as a string even if it parses as JSON")
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a value through the controlled update procedure",
	Long: `Update the value at a dotted key path. The file is locked against other
writers, made writable, rewritten in place and returned to the mode it had
before, even when the update fails. Values that parse as JSON keep their
type; use --string to store them as text.

Example:
  sharedcfg set database.host new_secure_host
  sharedcfg set database.port 5432`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		var opts []store.UpdateOption
		if setCreate {
			opts = append(opts, store.CreateMissing())
		}

		value := document.ParseValue(args[1], setAsString)
		if err := res.Update(context.Background(), args[0], value, opts...); err != nil {
			fmt.Printf("Failed to update configuration: %v\n", err)
			return errReported
		}

		fmt.Println("Configuration updated successfully.")
		return nil
	},
}
