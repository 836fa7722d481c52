package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/checkmate-dev/checkmate/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "checkmate",
		Short: "GitHub App bot enforcing configurable pull request policies",
		Long: `CheckMate inspects pull request events and posts check-run verdicts
based on per-repository policies: conventional commits and titles, signed
commits, task-list completion, lifecycle labels, and automatic approval.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewServeCmd(),
		commands.NewSmokeCmd(),
		commands.NewLintCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
