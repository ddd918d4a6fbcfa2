package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sharedcfg-labs/sharedcfg/internal/linker"
	"github.com/sharedcfg-labs/sharedcfg/internal/watcher"
	"github.com/spf13/cobra"
)

var watchKey string

func init() {
	watchCmd.Flags().StringVar(&watchKey, "key", "", "Only print this dotted key path")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes as seen through every name",
	Long: `Watch the config file and all recorded names. Whenever one of them is
written, the content is read back through every name and printed, showing that
all hard links observe the same update. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}
		names, err := linker.Names(res.Path())
		if err != nil {
			return err
		}
		names = append([]string{res.Path()}, names...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := watcher.New(names, res.LoadVia, printChange).WithLogger(logger)
		fmt.Printf("Watching %d name(s) of %s\n", len(names), res.Path())
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func printChange(c watcher.Change) {
	fmt.Printf("change via %s\n", c.Trigger)
	for _, s := range c.Snapshots {
		if s.Err != nil {
			fmt.Printf("  %s: %v\n", s.Name, s.Err)
			continue
		}
		if watchKey == "" {
			cfg, err := s.Doc.ToConfig()
			if err != nil {
				fmt.Printf("  %s: %v\n", s.Name, err)
				continue
			}
			fmt.Printf("  %s: host=%s user=%s\n", s.Name, cfg.Database.Host, cfg.Database.User)
			continue
		}
		v, err := s.Doc.Get(watchKey)
		if err != nil {
			fmt.Printf("  %s: %v\n", s.Name, err)
			continue
		}
		fmt.Printf("  %s: %s = %v\n", s.Name, watchKey, v)
	}
}
