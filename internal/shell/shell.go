// Package shell implements the interactive BASIC environment: a prompt
// that accepts immediate commands (NEW, LIST, LOAD, SAVE, RENUM, RUN, EXIT)
// and numbered lines that edit the stored program. Errors are printed to
// stderr and the loop keeps running.
package shell

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/internal/interp"
	"github.com/cwbudde/go-basic/internal/lexer"
	"github.com/cwbudde/go-basic/internal/program"
	"github.com/cwbudde/go-basic/pkg/token"
)

// Shell is the read-eval loop of the BASIC environment. One evaluator
// lives for the whole session, so variables persist across RUNs until NEW.
type Shell struct {
	cfg Config

	in   *bufio.Reader
	out  io.Writer
	errW io.Writer

	store *program.Store
	ev    *interp.Evaluator
	ctl   *program.Controller
}

// New creates a shell reading commands from in and writing program output
// to out and diagnostics to errOut. The same reader feeds INPUT statements,
// so interactive programs and the command prompt share one stream.
func New(cfg Config, in io.Reader, out, errOut io.Writer) *Shell {
	reader := bufio.NewReader(in)
	store := program.NewStore()
	ev := interp.New(store.Data(), interp.WithOutput(out), interp.WithInput(reader))

	return &Shell{
		cfg:   cfg,
		in:    reader,
		out:   out,
		errW:  errOut,
		store: store,
		ev:    ev,
		ctl:   program.NewController(store, ev),
	}
}

// Run drives the shell until EXIT or end of input.
func (s *Shell) Run(ctx context.Context) error {
	if !s.cfg.Quiet {
		fmt.Fprint(s.out, "\nWelcome to go-basic\n\n")
	}

	if s.cfg.Autoload != "" {
		if err := s.store.Load(s.cfg.Autoload); err != nil {
			fmt.Fprintln(s.errW, err)
		} else {
			fmt.Fprintln(s.out, "Program loaded")
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(s.out, s.cfg.Prompt)
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			return nil // end of input
		}

		quit, err := s.dispatch(ctx, trimEOL(line))
		if err != nil {
			fmt.Fprintln(s.errW, err)
		}
		if quit {
			return nil
		}
	}
}

// dispatch performs the command carried by one input line. The returned
// bool requests shell termination.
//
// LOAD and SAVE are handled on the raw line, because file paths may contain
// characters the dialect's lexer rejects.
func (s *Shell) dispatch(ctx context.Context, line string) (bool, error) {
	if cmd, path := splitCommand(line); cmd == "LOAD" || cmd == "SAVE" {
		if path == "" {
			return false, errors.Syntax("Expecting file name", 0)
		}
		if cmd == "LOAD" {
			if err := s.store.Load(path); err != nil {
				return false, err
			}
			fmt.Fprintln(s.out, "Program loaded")
		} else {
			if err := s.store.Save(path); err != nil {
				return false, err
			}
			fmt.Fprintln(s.out, "Program saved")
		}
		return false, nil
	}

	tokens, err := lexer.Tokenize(line)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return false, nil
	}

	switch tokens[0].Type {
	case token.EXIT:
		return true, nil

	case token.NEW:
		s.store.Clear()
		s.ev.Reset()
		return false, nil

	case token.UNSIGNEDINT:
		if len(tokens) == 1 {
			n, err := strconv.Atoi(tokens[0].Literal)
			if err != nil {
				return false, errors.Syntax("Invalid line number", 0)
			}
			return false, s.store.DeleteLine(n)
		}
		return false, s.store.AddLine(tokens)

	case token.LIST:
		start, end, err := parseRange(tokens, true)
		if err != nil {
			return false, err
		}
		return false, s.store.List(s.out, start, end)

	case token.RENUM:
		start, step, err := parseRange(tokens, false)
		if err != nil {
			return false, err
		}
		s.store.Renum(start, step)
		return false, nil

	case token.RUN:
		return false, s.runProgram(ctx)
	}

	fmt.Fprint(s.errW, "Unrecognised command")
	for _, t := range tokens {
		fmt.Fprintf(s.errW, " %s", t.Literal)
	}
	fmt.Fprintln(s.errW)
	return false, nil
}

// runProgram executes the stored program, honoring the interrupt key: an
// interrupted run prints "Program terminated" and returns to the prompt.
func (s *Shell) runProgram(ctx context.Context) error {
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT)
	defer stop()

	err := s.ctl.Run(runCtx)
	if goerrors.Is(err, context.Canceled) {
		fmt.Fprintln(s.out, "Program terminated")
		return nil
	}
	return err
}

// parseRange parses the argument forms shared by LIST and RENUM:
// nothing, "a", "a b", "a - b", "- b" and "a -". Zero means "use the
// default". For LIST a single argument selects exactly that line; for
// RENUM it sets the start and keeps the default step.
func parseRange(tokens []token.Token, single bool) (int, int, error) {
	num := func(t token.Token) (int, error) {
		if t.Type != token.UNSIGNEDINT {
			return 0, errors.Syntax("Expecting line number", 0)
		}
		n, err := strconv.Atoi(t.Literal)
		if err != nil {
			return 0, errors.Syntax("Expecting line number", 0)
		}
		return n, nil
	}

	switch len(tokens) {
	case 1:
		return 0, 0, nil

	case 2:
		n, err := num(tokens[1])
		if err != nil {
			return 0, 0, err
		}
		if single {
			return n, n, nil
		}
		return n, 0, nil

	case 3:
		if tokens[1].Type == token.MINUS {
			n, err := num(tokens[2])
			if err != nil {
				return 0, 0, err
			}
			return 0, n, nil
		}
		if tokens[2].Type == token.MINUS {
			n, err := num(tokens[1])
			if err != nil {
				return 0, 0, err
			}
			return n, 0, nil
		}
		a, err := num(tokens[1])
		if err != nil {
			return 0, 0, err
		}
		b, err := num(tokens[2])
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil

	case 4:
		a, err := num(tokens[1])
		if err != nil {
			return 0, 0, err
		}
		b, err := num(tokens[3])
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil
	}

	return 0, 0, errors.Syntax("Too many arguments", 0)
}

// splitCommand splits an input line into its upper-cased first word and the
// trimmed remainder.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		return strings.ToUpper(line[:i]), strings.TrimSpace(line[i+1:])
	}
	return strings.ToUpper(line), ""
}

// trimEOL strips the trailing newline and carriage return of an input line.
func trimEOL(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
