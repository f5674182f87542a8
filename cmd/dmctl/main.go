package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dmctl",
	Short: "dmctl - command-line client for dm-server",
	Long: `dmctl talks to a dm-server instance: register, log in, search users,
send and read direct messages, and watch a conversation live.

The server address and session are kept in ~/.dmctl.yaml.

Examples:
  dmctl --server http://localhost:8090 register alice alice@example.com
  dmctl login alice@example.com
  dmctl send <bob-id> "hi"
  dmctl watch <bob-id>`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, meCmd)
	rootCmd.AddCommand(usersCmd, conversationsCmd, deleteConversationCmd)
	rootCmd.AddCommand(sendCmd, messagesCmd, historyCmd, watchCmd, deleteMessageCmd, clearCmd)

	rootCmd.PersistentFlags().String("server", "", "dm-server base URL (overrides the config file)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.dmctl.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", defaultTimeout, "Per-request timeout")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log HTTP requests")
}
