package cli

import (
	"fmt"
	"slices"

	"github.com/sharedcfg-labs/sharedcfg/internal/config"
	"github.com/spf13/cobra"
)

var configShowSource bool

func init() {
	configGetCmd.Flags().BoolVar(&configShowSource, "source", false, "Also print where the value comes from")
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.sharedcfg/config.yaml.

Keys:
  resource        default path of the shared config file
  mode.locked     mode between updates (default 0444)
  mode.unlocked   mode while an update writes (default 0644)
  lock.timeout    wait for another writer (default 5s)

Each key can be overridden by SHAREDCFG_<KEY> with dots as underscores,
e.g. SHAREDCFG_LOCK_TIMEOUT=10s. Only 'config set' writes the file.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !slices.Contains(config.Keys, key) {
			return fmt.Errorf("unknown setting %q (known: %v)", key, config.Keys)
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
		fmt.Printf("Set %s = %s in %s\n", key, value, config.FilePath())
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, source := settingSource(args[0])
		if configShowSource {
			fmt.Printf("%s (%s)\n", value, source)
			return nil
		}
		fmt.Println(value)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every setting with its effective value and source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range config.Keys {
			value, source := settingSource(key)
			fmt.Printf("  %-14s %-22s %s\n", key, value, source)
		}
		return nil
	},
}

// settingSource reports the --file flag as its own source for "resource".
func settingSource(key string) (string, string) {
	if key == config.KeyResource && rootCmd.PersistentFlags().Changed("file") {
		return config.Get(key), "flag"
	}
	return config.Lookup(key)
}
