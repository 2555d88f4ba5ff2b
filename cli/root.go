// Package cli provides the portal command line: the API server plus offline
// dataset tooling.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	configDir string
}

// NewRootCommand builds the portal command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "portal",
		Short: "Governance census review portal",
		Long: `portal serves the census review API used by supervisors, district
administrators, state analysts and policy makers, and provides offline
tools for generating and summarizing census datasets.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "directory containing config.yaml")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newSeedCommand())
	root.AddCommand(newSummarizeCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "portal %s\n", Version)
		},
	}
}
