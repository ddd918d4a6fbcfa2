package cli

import (
	"fmt"
	"os"

	"github.com/sharedcfg-labs/sharedcfg/internal/doctor"
	"github.com/spf13/cobra"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Re-lock the mode and re-create broken links")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the shared config file and its links",
	Long: `Check that the shared config file exists, rests in its locked mode, holds
valid content, and that every recorded name still refers to it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := openResource()
		if err != nil {
			return err
		}

		rep, err := doctor.CheckResource(os.Stdout, res, doctorFix)
		if err != nil {
			return err
		}
		if !rep.Healthy() {
			fmt.Printf("\n%d problem(s) found, %d fixed.\n", rep.Problems, rep.Fixed)
			return errReported
		}
		return nil
	},
}
