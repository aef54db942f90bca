package cmd

import (
	"fmt"
	"runtime"

	"github.com/nfrund/webauth/internal/preflight"
	"github.com/spf13/cobra"
)

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Check that the runtime meets the minimum version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := preflight.CheckRuntime(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Runtime %s OK (minimum %s)\n", runtime.Version(), preflight.MinimumGo)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preflightCmd)
}
