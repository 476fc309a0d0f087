// Command playtest drives a running relay from the outside: it replays the
// room-code and random-match flows with two websocket clients and prints
// server stats.
//
// Usage: go run ./cmd/playtest e2e --server ws://localhost:3000/ws
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "playtest",
	Short: "Exercise a live MatchRelay server",
	Long:  `playtest connects throwaway players to a MatchRelay server and checks that rooms, random matches and move relays behave end to end.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "ws://localhost:3000/ws", "relay websocket URL")
	rootCmd.AddCommand(e2eCmd, statsCmd)
}

func main() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}
