package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wpanalyzer.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wpanalyzer",
		Short: "Analyze WordPress XML export files",
		Long: `wpanalyzer reads WordPress eXtended RSS (WXR) export files and summarizes
their content: post types, custom fields, taxonomies and individual posts.

Every analysis is stored in a local history database so that later exports
of the same site can be compared with 'wpanalyzer history'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
