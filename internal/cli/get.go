package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sharedcfg-labs/sharedcfg/internal/codec"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(showCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value at a dotted key path",
	Long: `Print the value at a dotted key path. Scalars print as-is; objects and
arrays print as JSON.

Example:
  sharedcfg get database.host`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		value, err := res.Get(args[0])
		if err != nil {
			return err
		}

		switch v := value.(type) {
		case map[string]any, []any:
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting %s: %w", args[0], err)
			}
			fmt.Println(string(out))
		default:
			fmt.Println(v)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print the whole config, optionally read through another name",
	Long: `Print the whole config. With a name, the content is read through that
path instead of the primary one; for a hard link it is always identical.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		name := res.Path()
		if len(args) == 1 {
			name = args[0]
		}

		doc, err := res.LoadVia(name)
		if err != nil {
			return err
		}
		c, err := codec.ForPath(res.Path())
		if err != nil {
			return err
		}
		return c.Encode(doc, os.Stdout)
	},
}
