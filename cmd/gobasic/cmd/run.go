package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/cwbudde/go-basic/internal/interp"
	"github.com/cwbudde/go-basic/internal/program"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a BASIC program file",
	Long: `Load a .bas program and execute it once, without entering the
interactive environment.

Examples:
  # Run a program (the .bas extension is appended when missing)
  gobasic run hammurabi.bas`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runProgram(cmd *cobra.Command, args []string) error {
	store := program.NewStore()
	if err := store.Load(args[0]); err != nil {
		return err
	}

	ev := interp.New(store.Data(),
		interp.WithOutput(cmd.OutOrStdout()),
		interp.WithInput(cmd.InOrStdin()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT)
	defer stop()

	return program.NewController(store, ev).Run(ctx)
}
