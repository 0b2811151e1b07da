package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the crawlengine root command. It only needs to happen
// once, in main.main.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crawlengine",
		Short:         "Crawl job engine: fetches sites, extracts signals, and reports results over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}
