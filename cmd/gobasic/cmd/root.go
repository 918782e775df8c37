package cmd

import (
	"context"
	"fmt"

	"github.com/cwbudde/go-basic/internal/shell"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "gobasic",
	Short: "Interactive BASIC interpreter",
	Long: `go-basic is a Go implementation of a retro line-numbered BASIC.

Programs are edited by line number at an interactive prompt, listed,
renumbered, saved and loaded, and executed with RUN. The dialect has
numeric and string variables, arrays of up to three dimensions, FOR/NEXT
loops, GOSUB/RETURN subroutines, computed GOTO/GOSUB, DATA/READ/RESTORE,
IF/THEN/ELSE, INPUT/PRINT and sequential file I/O.

Without a subcommand the interactive environment is started.`,
	Version: Version,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sh := shell.New(shell.ConfigFromEnv(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		return sh.Run(context.Background())
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
