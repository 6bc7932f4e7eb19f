/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pearpanel",
	Short: "Control panel backend for the Pear Desktop player",
	Long: `PearPanel connects to a running Pear Desktop player and its Twitch
integration backend, folds their websocket event streams into live
projections, and serves the result over a local status endpoint.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
