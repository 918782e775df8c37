// Package interp implements the BASIC statement evaluator and its
// collaborators: runtime values, the symbol table, arrays, the DATA pool,
// the file handle table and the random stream.
//
// The evaluator is a recursive-descent interpreter that executes directly
// from the token stream of one logical line; there is no separate syntax
// tree. Each statement either falls through (nil) or returns a ControlMsg
// describing a non-local transfer, which the execution controller in the
// program package interprets.
package interp

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/pkg/token"
)

// Evaluator executes BASIC statements. Variables and arrays persist across
// runs until the shell issues NEW; file handles persist from OPEN to CLOSE,
// STOP or the end of a run.
type Evaluator struct {
	symbols *SymbolTable
	data    *DataPool
	files   *handleTable
	rand    *rng

	out io.Writer
	in  *bufio.Reader

	// Parsing state for the statement currently being executed.
	tokens []token.Token
	pos    int
	line   int

	// lastMsg is the ControlMsg produced by the previous statement. FOR
	// inspects it to tell first entry from re-entry via NEXT.
	lastMsg *ControlMsg

	// printColumn tracks characters emitted since the last newline; it
	// persists across PRINT statements and is consumed by TAB.
	printColumn int

	// dataValues holds decoded DATA literals pending consumption by READ.
	dataValues []Value
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithOutput directs PRINT output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithInput reads INPUT lines from r instead of stdin.
func WithInput(r io.Reader) Option {
	return func(e *Evaluator) { e.in = bufio.NewReader(r) }
}

// WithRandSeed seeds the random stream, for deterministic tests.
func WithRandSeed(n int64) Option {
	return func(e *Evaluator) { e.rand.seed(n) }
}

// New creates an Evaluator reading DATA values from the given pool.
func New(data *DataPool, opts ...Option) *Evaluator {
	e := &Evaluator{
		symbols: NewSymbolTable(),
		data:    data,
		files:   newHandleTable(),
		rand:    newRNG(),
		out:     os.Stdout,
		in:      bufio.NewReader(os.Stdin),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Symbols exposes the symbol table, mainly for tests.
func (e *Evaluator) Symbols() *SymbolTable { return e.symbols }

// Data returns the DATA pool the evaluator reads from.
func (e *Evaluator) Data() *DataPool { return e.data }

// SetLastMsg records the ControlMsg of the previously executed statement.
// The controller calls this after every statement.
func (e *Evaluator) SetLastMsg(m *ControlMsg) { e.lastMsg = m }

// BeginRun resets the per-run state: the DATA cursor and pending values,
// the previous control message and the print column.
func (e *Evaluator) BeginRun() {
	e.data.Restore(0)
	e.dataValues = nil
	e.lastMsg = nil
	e.printColumn = 0
}

// EndRun closes all file handles; runs own their handles.
func (e *Evaluator) EndRun() {
	e.files.closeAll()
}

// Reset clears variables, arrays and file handles; used by NEW.
func (e *Evaluator) Reset() {
	e.symbols.Clear()
	e.files.closeAll()
	e.dataValues = nil
	e.lastMsg = nil
	e.printColumn = 0
}

// Execute runs one logical line. tokens is the statement body without the
// leading line number. The line is split on top-level colons; once an IF is
// seen the remainder of the line belongs to the IF, and its selected branch
// is executed through a recursive call. Returns the first non-nil
// ControlMsg, or nil if every statement fell through.
func (e *Evaluator) Execute(lineNum int, tokens []token.Token) (*ControlMsg, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	stmtStart := 0
	for i := 0; i < len(tokens); i++ {
		switch {
		case tokens[i].Type == token.IF:
			// The IF owns the rest of the line: colons after it separate
			// the statements of its THEN or ELSE block.
			msg, consumed, err := e.exec(lineNum, tokens[stmtStart:])
			if err != nil {
				return nil, err
			}
			if msg != nil && msg.Type == MsgExecute {
				return e.Execute(lineNum, tokens[stmtStart+consumed:])
			}
			return msg, nil

		case tokens[i].Type == token.COLON:
			msg, _, err := e.exec(lineNum, tokens[stmtStart:i])
			if err != nil || msg != nil {
				return msg, err
			}
			stmtStart = i + 1

		case tokens[i].Type == token.ELSE && i > stmtStart && tokens[stmtStart].Type != token.OPEN:
			// An ELSE outside an OPEN statement means we are executing the
			// THEN block of an IF; the block ends here.
			msg, _, err := e.exec(lineNum, tokens[stmtStart:i])
			return msg, err
		}
	}

	msg, _, err := e.exec(lineNum, tokens[stmtStart:])
	return msg, err
}

// exec executes a single statement and reports how many of its tokens were
// consumed, which the IF handling uses to locate the branch body.
func (e *Evaluator) exec(lineNum int, body []token.Token) (*ControlMsg, int, error) {
	if len(body) == 0 {
		return nil, 0, nil
	}
	e.line = lineNum
	e.tokens = body
	e.pos = 0
	msg, err := e.stmt()
	return msg, e.pos, err
}

// stmt dispatches on the leading token of the statement.
func (e *Evaluator) stmt() (*ControlMsg, error) {
	switch e.tok().Type {
	case token.FOR:
		return e.forStmt()
	case token.NEXT:
		return e.nextStmt()
	case token.IF:
		return e.ifStmt()
	case token.ON:
		return e.onStmt()
	case token.GOTO:
		return e.gotoStmt()
	case token.GOSUB:
		return e.gosubStmt()
	case token.RETURN:
		e.advance()
		return &ControlMsg{Type: MsgReturn}, nil
	case token.STOP:
		return e.stopStmt()
	case token.OPEN:
		return e.openStmt()
	case token.NAME:
		return nil, e.assignmentStmt()
	case token.LET:
		e.advance()
		return nil, e.assignmentStmt()
	case token.PRINT:
		return nil, e.printStmt()
	case token.INPUT:
		return nil, e.inputStmt()
	case token.DIM:
		return nil, e.dimStmt()
	case token.RANDOMIZE:
		return nil, e.randomizeStmt()
	case token.DATA:
		// DATA lines are pre-extracted into the pool.
		return nil, nil
	case token.READ:
		return nil, e.readStmt()
	case token.RESTORE:
		return nil, e.restoreStmt()
	case token.CLOSE:
		return nil, e.closeStmt()
	case token.FSEEK:
		return nil, e.fseekStmt()
	case token.REM:
		return nil, nil
	}
	return nil, errors.Syntax("Expecting program statement", e.line)
}

// tok returns the current token. Past the end of the statement the last
// token is returned, so lookahead checks after the final token see the
// final token rather than panicking; atEnd distinguishes the two cases.
func (e *Evaluator) tok() token.Token {
	if e.pos >= len(e.tokens) {
		return e.tokens[len(e.tokens)-1]
	}
	return e.tokens[e.pos]
}

// atEnd reports whether every token of the statement has been consumed.
func (e *Evaluator) atEnd() bool {
	return e.pos >= len(e.tokens)
}

// advance moves to the next token.
func (e *Evaluator) advance() {
	e.pos++
}

// consume checks the current token's type and advances past it.
func (e *Evaluator) consume(tt token.TokenType) error {
	if e.atEnd() || e.tok().Type != tt {
		return errors.Newf(errors.SyntaxError, e.line, "Expecting %s", tt)
	}
	e.advance()
	return nil
}

// toInt coerces a value to an int, accepting integral floats.
func (e *Evaluator) toInt(v Value, what string) (int, error) {
	n, ok := AsInt(v)
	if !ok {
		return 0, errors.Newf(errors.TypeError, e.line, "%s must be an integer", what)
	}
	return int(n), nil
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
