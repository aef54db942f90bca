package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webauth",
	Short: "Web login page for chat-bot initiated Telegram sign-ins",
	Long: `webauth serves the page a user opens from the bot's login link.

The page reads the session token from /auth/<token>, and posts the one-time
code and optional 2FA password back to the pending login that owns it.

Available commands:
  serve        Start the web login server
  preflight    Check that the runtime meets the minimum version
  version      Print the version

Use "webauth [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true
}
