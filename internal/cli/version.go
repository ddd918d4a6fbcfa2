package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/sharedcfg-labs/sharedcfg/internal/branding"
	"github.com/sharedcfg-labs/sharedcfg/internal/linker"
	"github.com/sharedcfg-labs/sharedcfg/internal/platform"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

// buildInfo is what `version` reports. ManifestFormat is the link manifest
// version this binary writes; older binaries refuse a newer major.
type buildInfo struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	Date           string `json:"date"`
	ManifestFormat string `json:"manifest_format"`
	Platform       string `json:"platform"`
	FileLocks      bool   `json:"file_locks"`
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and link manifest format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShort {
			fmt.Println(buildVersion)
			return nil
		}

		info := currentBuild()
		if versionJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(info); err != nil {
				return fmt.Errorf("encoding version info: %w", err)
			}
			return nil
		}

		fmt.Printf("%s %s (commit %s, built %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Printf("  link manifest format %s, %s", info.ManifestFormat, info.Platform)
		if !info.FileLocks {
			fmt.Print(", in-process locking only")
		}
		fmt.Println()
		return nil
	},
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:        buildVersion,
		Commit:         buildCommit,
		Date:           buildDate,
		ManifestFormat: linker.ManifestVersion,
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		FileLocks:      platform.FileLocking,
	}
}
