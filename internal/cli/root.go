package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sharedcfg-labs/sharedcfg/internal/branding"
	"github.com/sharedcfg-labs/sharedcfg/internal/config"
	"github.com/sharedcfg-labs/sharedcfg/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	logger  = slog.New(slog.DiscardHandler)
)

// errReported marks failures whose message was already printed.
var errReported = errors.New("already reported")

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "Path of the shared config file (default from config key \"resource\")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each step of an update")
	_ = viper.BindPFlag(config.KeyResource, rootCmd.PersistentFlags().Lookup("file"))
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps one configuration file shared between several project
directories. Every project holds a hard link to the same inode, so an update
through any name is visible through all of them. Between updates the file is
read-only; updates unlock it, rewrite it in place and restore its mode.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// openResource returns the resource named by --file or the config file.
func openResource() (*store.Resource, error) {
	path := config.Resource()
	if path == "" {
		return nil, fmt.Errorf("no resource configured: pass --file or run '%s config set resource <path>'", branding.CLIName())
	}
	return store.Open(path, store.Options{
		LockedMode:   config.LockedMode(),
		UnlockedMode: config.UnlockedMode(),
		LockTimeout:  config.LockTimeout(),
		Logger:       logger,
	})
}
