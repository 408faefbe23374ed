package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/cronex/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  `Display the version, build time, git commit and Go version of cronex.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "cronex - extended cron expressions and a job scheduler")
			fmt.Fprintf(out, "Version: %s\n", version.Version)
			fmt.Fprintf(out, "Build Time: %s\n", version.BuildTime)
			fmt.Fprintf(out, "Git Commit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "Go Version: %s\n", version.GoVersion)
		},
	}
}
