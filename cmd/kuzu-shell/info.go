package main

import (
	"fmt"

	"github.com/spf13/cobra"

	kuzu "github.com/semihalev/go-kuzu"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show shared library and version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, kuzu.GetNativeInfo())
		fmt.Fprintln(out, kuzu.GetVersionInfo())
		return nil
	},
}
