// Command relaynetd is a demo CLI driving a channel-layer server or
// client over real UDP sockets, wiring pkg/config and pkg/logging at
// startup.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "relaynetd",
	Short: "relaynet channel-layer demo server and client",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
