package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mica/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the artifact cache",
	Long:  "Remove every cached build artifact. The next build recompiles from scratch.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	cache, err := driver.OpenCache("mica")
	if err != nil {
		return err
	}
	if err := cache.Drop(); err != nil {
		return err
	}
	if !isQuiet(cmd) {
		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	}
	return nil
}
