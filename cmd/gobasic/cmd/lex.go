package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/go-basic/internal/lexer"
	"github.com/spf13/cobra"
)

var lexExpr string

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a BASIC file or line",
	Long: `Print the token stream of a BASIC program, one token per line,
with category, value and source position. Useful for debugging the lexer
and for inspecting how a statement will be interpreted.

Examples:
  # Tokenize a program file
  gobasic lex hammurabi.bas

  # Tokenize a single line
  gobasic lex -e '10 PRINT "HELLO"'`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexInput,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize an inline line instead of reading from file")
}

func lexInput(cmd *cobra.Command, args []string) error {
	var lines []string
	switch {
	case lexExpr != "":
		lines = []string{lexExpr}
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		lines = strings.Split(strings.ReplaceAll(string(content), "\r", ""), "\n")
	default:
		return fmt.Errorf("either provide a file path or use -e flag for an inline line")
	}

	out := cmd.OutOrStdout()
	for _, line := range lines {
		tokens, err := lexer.Tokenize(line)
		if err != nil {
			return err
		}
		for _, t := range tokens {
			fmt.Fprintln(out, t)
		}
	}
	return nil
}
