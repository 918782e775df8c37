package interp

import (
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/pkg/token"
)

// assignmentStmt handles "name = expr" and "name(i[,j[,k]]) = expr", with
// the optional LET already consumed.
func (e *Evaluator) assignmentStmt() error {
	name := e.tok().Literal
	e.advance()

	if !e.atEnd() && e.tok().Type == token.LEFTPAREN {
		return e.arrayAssignmentStmt(name)
	}

	if err := e.consume(token.ASSIGNOP); err != nil {
		return err
	}
	v, err := e.logexpr()
	if err != nil {
		return err
	}
	return e.symbols.Assign(name, v, e.line)
}

// arrayAssignmentStmt assigns to an array element.
func (e *Evaluator) arrayAssignmentStmt(name string) error {
	indices, err := e.indexList()
	if err != nil {
		return err
	}

	a, ok := e.symbols.Array(name)
	if !ok {
		return errors.Name("Array could not be found", e.line)
	}
	if a.Dims() != len(indices) {
		return errors.Index("Incorrect number of indices applied to array", e.line)
	}

	if err := e.consume(token.ASSIGNOP); err != nil {
		return err
	}
	v, err := e.logexpr()
	if err != nil {
		return err
	}

	if a.IsString() && !IsString(v) {
		return errors.Type("Attempt to assign non-string to string array", e.line)
	}
	if !a.IsString() && IsString(v) {
		return errors.Type("Attempt to assign string to numeric array", e.line)
	}

	return a.Set(indices, v, e.line)
}

// dimStmt creates one or more arrays: DIM name(s1[,s2[,s3]])[, ...].
func (e *Evaluator) dimStmt() error {
	e.advance() // past DIM

	for {
		if e.atEnd() || e.tok().Type != token.NAME {
			return errors.Syntax("Expecting array name in DIM", e.line)
		}
		name := e.tok().Literal
		e.advance()

		if err := e.consume(token.LEFTPAREN); err != nil {
			return err
		}
		var sizes []Value
		for {
			v, err := e.expr()
			if err != nil {
				return err
			}
			sizes = append(sizes, v)
			if e.atEnd() || e.tok().Type != token.COMMA {
				break
			}
			e.advance()
		}
		if err := e.consume(token.RIGHTPAREN); err != nil {
			return err
		}

		if err := e.symbols.Dim(name, sizes, e.line); err != nil {
			return err
		}

		if e.atEnd() {
			return nil
		}
		if err := e.consume(token.COMMA); err != nil {
			return err
		}
	}
}

// gotoStmt handles GOTO expr.
func (e *Evaluator) gotoStmt() (*ControlMsg, error) {
	e.advance() // past GOTO
	target, err := e.jumpTarget("GOTO")
	if err != nil {
		return nil, err
	}
	return Jump(target), nil
}

// gosubStmt handles GOSUB expr.
func (e *Evaluator) gosubStmt() (*ControlMsg, error) {
	e.advance() // past GOSUB
	target, err := e.jumpTarget("GOSUB")
	if err != nil {
		return nil, err
	}
	return &ControlMsg{Type: MsgGosub, Target: target}, nil
}

// jumpTarget evaluates a computed jump target to a line number.
func (e *Evaluator) jumpTarget(stmt string) (int, error) {
	v, err := e.expr()
	if err != nil {
		return 0, err
	}
	n, ok := AsInt(v)
	if !ok {
		return 0, errors.Newf(errors.RuntimeError, e.line,
			"Invalid line number supplied in %s", stmt)
	}
	return int(n), nil
}

// stopStmt handles STOP and END: all file handles are closed and the run
// terminates.
func (e *Evaluator) stopStmt() (*ControlMsg, error) {
	e.advance() // past STOP
	e.files.closeAll()
	return &ControlMsg{Type: MsgStop}, nil
}

// ifStmt handles IF expr THEN (line | stmt) [ELSE (line | stmt)]. A line
// number branch produces a SIMPLE_JUMP; a statement branch produces an
// EXECUTE message and leaves the token position at the start of the branch
// body for the evaluator's recursive call.
func (e *Evaluator) ifStmt() (*ControlMsg, error) {
	e.advance() // past IF
	cond, err := e.logexpr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.THEN); err != nil {
		return nil, err
	}

	if e.atEnd() || e.tok().Type != token.UNSIGNEDINT {
		if Truthy(cond) {
			return &ControlMsg{Type: MsgExecute}, nil
		}
	} else {
		v, err := e.expr()
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			target, err := e.toInt(v, "Jump target")
			if err != nil {
				return nil, err
			}
			return Jump(target), nil
		}
	}

	// Condition handled; advance to the ELSE branch, skipping the THEN body.
	for !e.atEnd() && e.tok().Type != token.ELSE {
		e.advance()
	}

	if !e.atEnd() && e.tok().Type == token.ELSE {
		e.advance()
		if e.atEnd() || e.tok().Type != token.UNSIGNEDINT {
			return &ControlMsg{Type: MsgExecute}, nil
		}
		v, err := e.expr()
		if err != nil {
			return nil, err
		}
		target, err := e.toInt(v, "Jump target")
		if err != nil {
			return nil, err
		}
		return Jump(target), nil
	}

	return nil, nil
}

// forStmt handles FOR v = e1 TO e2 [STEP e3]. Reached from its own NEXT it
// increments the loop variable; reached any other way it initializes it.
// When the variable has passed the end value the loop body is skipped.
func (e *Evaluator) forStmt() (*ControlMsg, error) {
	e.advance() // past FOR

	if e.atEnd() || e.tok().Type != token.NAME {
		return nil, errors.Syntax("Expecting loop variable in FOR", e.line)
	}
	loopVar := e.tok().Literal
	if IsStringName(loopVar) {
		return nil, errors.Syntax("Loop variable is not numeric", e.line)
	}
	e.advance()

	if err := e.consume(token.ASSIGNOP); err != nil {
		return nil, err
	}
	start, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.TO); err != nil {
		return nil, err
	}
	end, err := e.expr()
	if err != nil {
		return nil, err
	}

	step := Value(NewInt(1))
	increment := true
	if !e.atEnd() {
		if err := e.consume(token.STEP); err != nil {
			return nil, err
		}
		step, err = e.expr()
		if err != nil {
			return nil, err
		}
		sf, ok := AsFloat(step)
		if !ok {
			return nil, errors.Type("Non-numeric step value supplied for loop", e.line)
		}
		if sf == 0 {
			return nil, errors.Value("Zero step value supplied for loop", e.line)
		}
		increment = sf > 0
	}

	// The loop variable must be initialized whenever this FOR is reached
	// from anywhere but its own NEXT. The variable may have been used
	// elsewhere, so its mere presence in the symbol table proves nothing;
	// the previous statement's message decides, and the loop variable is
	// compared so that a NEXT of a different loop does not count.
	fromNext := e.lastMsg != nil && e.lastMsg.Type == MsgLoopRepeat &&
		e.lastMsg.LoopVar == loopVar

	if !fromNext {
		if !IsNumeric(start) {
			return nil, errors.Type("Non-numeric start value supplied for loop", e.line)
		}
		e.symbols.SetNumeric(loopVar, start)
	} else {
		cur, ok := e.symbols.Get(loopVar)
		if !ok {
			return nil, errors.Newf(errors.NameError, e.line, "Name %s is not defined", loopVar)
		}
		next, err := Add(cur, step)
		if err != nil {
			return nil, errors.WithLine(err, e.line)
		}
		e.symbols.SetNumeric(loopVar, next)
	}

	cur, _ := e.symbols.Get(loopVar)
	cmp, err := Compare(cur, end)
	if err != nil {
		return nil, errors.WithLine(err, e.line)
	}
	if (increment && cmp > 0) || (!increment && cmp < 0) {
		return &ControlMsg{Type: MsgLoopSkip, LoopVar: loopVar}, nil
	}
	return &ControlMsg{Type: MsgLoopBegin, LoopVar: loopVar}, nil
}

// nextStmt handles NEXT v.
func (e *Evaluator) nextStmt() (*ControlMsg, error) {
	e.advance() // past NEXT

	if e.atEnd() || e.tok().Type != token.NAME {
		return nil, errors.Syntax("Expecting loop variable in NEXT", e.line)
	}
	loopVar := e.tok().Literal
	if IsStringName(loopVar) {
		return nil, errors.Syntax("Loop variable is not numeric", e.line)
	}
	e.advance()

	return &ControlMsg{Type: MsgLoopRepeat, LoopVar: loopVar}, nil
}

// onStmt handles ON expr (GOTO|GOSUB) e1, e2, ..., eN. A selector outside
// 1..N falls through.
func (e *Evaluator) onStmt() (*ControlMsg, error) {
	e.advance() // past ON
	sel, err := e.expr()
	if err != nil {
		return nil, err
	}
	k, err := e.toInt(sel, "ON selector")
	if err != nil {
		return nil, err
	}

	gosub := false
	if !e.atEnd() && e.tok().Type == token.GOTO {
		e.advance()
	} else {
		if err := e.consume(token.GOSUB); err != nil {
			return nil, err
		}
		gosub = true
	}

	var targets []int
	if !e.atEnd() {
		for {
			t, err := e.jumpTarget("ON")
			if err != nil {
				return nil, err
			}
			targets = append(targets, t)
			if e.atEnd() || e.tok().Type != token.COMMA {
				break
			}
			e.advance()
		}
	}

	if k < 1 || k > len(targets) {
		return nil, nil
	}
	if gosub {
		return &ControlMsg{Type: MsgGosub, Target: targets[k-1]}, nil
	}
	return Jump(targets[k-1]), nil
}

// randomizeStmt handles RANDOMIZE [expr]: the RNG is seeded with the
// expression, or with a monotonic clock sample when absent.
func (e *Evaluator) randomizeStmt() error {
	e.advance() // past RANDOMIZE

	if e.atEnd() {
		e.rand.seedFromClock()
		return nil
	}
	v, err := e.expr()
	if err != nil {
		return err
	}
	f, ok := AsFloat(v)
	if !ok {
		return errors.Type("Non-numeric seed supplied to RANDOMIZE", e.line)
	}
	e.rand.seed(int64(f))
	return nil
}

// readStmt handles READ v1 [, v2 ...]: values are consumed from the DATA
// pool, one line at a time, and assigned with suffix checking.
func (e *Evaluator) readStmt() error {
	e.advance() // past READ

	var vars []string
	if !e.atEnd() {
		vars = append(vars, e.tok().Literal)
		e.advance()
		for !e.atEnd() && e.tok().Type == token.COMMA {
			e.advance()
			if e.atEnd() {
				return errors.Syntax("Expecting variable name in READ", e.line)
			}
			vars = append(vars, e.tok().Literal)
			e.advance()
		}
	}

	for _, name := range vars {
		if len(e.dataValues) < 1 {
			vals, err := e.data.Read(e.line)
			if err != nil {
				return err
			}
			e.dataValues = vals
		}
		v := e.dataValues[0]
		e.dataValues = e.dataValues[1:]

		if IsStringName(name) {
			if !IsString(v) {
				return errors.Value("Non-string input provided to a string variable", e.line)
			}
			if err := e.symbols.Assign(name, v, e.line); err != nil {
				return err
			}
			continue
		}
		f, ok := AsFloat(v)
		if !ok {
			return errors.Value("Non-numeric input provided to a numeric variable", e.line)
		}
		if err := e.symbols.Assign(name, NewNumber(f), e.line); err != nil {
			return err
		}
	}
	return nil
}

// restoreStmt handles RESTORE expr: the DATA cursor is reset so that the
// next READ consumes the given line; 0 rewinds before the first DATA line.
func (e *Evaluator) restoreStmt() error {
	e.advance() // past RESTORE

	v, err := e.expr()
	if err != nil {
		return err
	}
	n, err := e.toInt(v, "RESTORE line number")
	if err != nil {
		return err
	}
	e.dataValues = nil
	return errors.WithLine(e.data.Restore(n), e.line)
}

// openStmt handles OPEN expr FOR (INPUT|OUTPUT|APPEND) AS # expr
// [ELSE [GOTO] expr]. With an ELSE target, an open failure or duplicate
// handle becomes a jump instead of an error.
func (e *Evaluator) openStmt() (*ControlMsg, error) {
	e.advance() // past OPEN

	nameV, err := e.logexpr()
	if err != nil {
		return nil, err
	}
	filename, ok := nameV.(*StringValue)
	if !ok {
		return nil, errors.Type("Non-string filename supplied to OPEN", e.line)
	}

	if err := e.consume(token.FOR); err != nil {
		return nil, err
	}

	var mode string
	switch e.tok().Type {
	case token.INPUT:
		mode = "r"
	case token.APPEND:
		mode = "a"
	case token.OUTPUT:
		mode = "w"
	default:
		return nil, errors.Syntax("Invalid Open access mode", e.line)
	}
	e.advance() // past the access mode

	if e.atEnd() || e.tok().Literal != "AS" {
		return nil, errors.Syntax("Expecting AS", e.line)
	}
	e.advance() // past AS

	if err := e.consume(token.HASH); err != nil {
		return nil, err
	}
	numV, err := e.expr()
	if err != nil {
		return nil, err
	}
	num, err := e.toInt(numV, "File number")
	if err != nil {
		return nil, err
	}

	branchOnError := false
	elseTarget := 0
	if !e.atEnd() && e.tok().Type == token.ELSE {
		branchOnError = true
		e.advance() // past ELSE
		if !e.atEnd() && e.tok().Type == token.GOTO {
			e.advance() // past the optional GOTO
		}
		elseTarget, err = e.jumpTarget("OPEN")
		if err != nil {
			return nil, err
		}
	}

	if e.files.isOpen(num) {
		if branchOnError {
			return Jump(elseTarget), nil
		}
		return nil, errors.Newf(errors.RuntimeError, e.line, "File #%d already opened", num)
	}

	if err := e.files.open(num, filename.Value, mode, e.line); err != nil {
		if branchOnError {
			return Jump(elseTarget), nil
		}
		return nil, err
	}
	return nil, nil
}

// closeStmt handles CLOSE # expr.
func (e *Evaluator) closeStmt() error {
	e.advance() // past CLOSE

	if err := e.consume(token.HASH); err != nil {
		return err
	}
	v, err := e.expr()
	if err != nil {
		return err
	}
	num, err := e.toInt(v, "File number")
	if err != nil {
		return err
	}
	return e.files.close(num, e.line)
}

// fseekStmt handles FSEEK # expr, expr.
func (e *Evaluator) fseekStmt() error {
	e.advance() // past FSEEK

	if err := e.consume(token.HASH); err != nil {
		return err
	}
	v, err := e.expr()
	if err != nil {
		return err
	}
	num, err := e.toInt(v, "File number")
	if err != nil {
		return err
	}
	if _, err := e.files.get(num, "FSEEK", e.line); err != nil {
		return err
	}

	if err := e.consume(token.COMMA); err != nil {
		return err
	}
	v, err = e.expr()
	if err != nil {
		return err
	}
	offset, err := e.toInt(v, "File position")
	if err != nil {
		return err
	}
	return e.files.seek(num, int64(offset), e.line)
}

// printStmt handles PRINT [#fh,] items separated by ; or ,. A trailing
// separator suppresses the newline. TAB items advance the print column,
// which persists across PRINT statements until a newline is emitted.
func (e *Evaluator) printStmt() error {
	e.advance() // past PRINT

	fileIO := false
	fileNum := 0
	if !e.atEnd() && e.tok().Type == token.HASH {
		fileIO = true
		e.advance() // past #
		v, err := e.expr()
		if err != nil {
			return err
		}
		fileNum, err = e.toInt(v, "File number")
		if err != nil {
			return err
		}
		if _, err := e.files.get(fileNum, "PRINT", e.line); err != nil {
			return err
		}
		if !e.atEnd() && e.tok().Type != token.COLON {
			if err := e.consume(token.COMMA); err != nil {
				return err
			}
		}
	}

	if !e.atEnd() {
		if err := e.printItem(fileIO, fileNum); err != nil {
			return err
		}
		for !e.atEnd() && (e.tok().Type == token.SEMICOLON || e.tok().Type == token.COMMA) {
			if e.pos == len(e.tokens)-1 {
				// Trailing separator: no newline, the column carries over.
				e.advance()
				return nil
			}
			e.advance()
			if err := e.printItem(fileIO, fileNum); err != nil {
				return err
			}
		}
	}

	if err := e.emit(fileIO, fileNum, "\n"); err != nil {
		return err
	}
	e.printColumn = 0
	return nil
}

// printItem evaluates and prints one PRINT item. A TAB(n) item pads the
// current column up to n, emitting a newline first when the column is
// already past n.
func (e *Evaluator) printItem(fileIO bool, fileNum int) error {
	isTab := e.tok().Type == token.TAB
	v, err := e.logexpr()
	if err != nil {
		return err
	}

	if isTab {
		n := len(v.String()) // TAB yielded n spaces
		if e.printColumn >= n {
			if err := e.emit(fileIO, fileNum, "\n"); err != nil {
				return err
			}
			e.printColumn = 0
		}
		pad := n - e.printColumn
		if pad > 1 {
			if err := e.emit(fileIO, fileNum, strings.Repeat(" ", pad-1)); err != nil {
				return err
			}
		}
		e.printColumn = n - 1
		return nil
	}

	s := formatPrint(v)
	e.printColumn += len(s)
	return e.emit(fileIO, fileNum, s)
}

// emit writes to the current PRINT destination.
func (e *Evaluator) emit(fileIO bool, fileNum int, s string) error {
	if fileIO {
		return e.files.write(fileNum, s, e.line)
	}
	if _, err := io.WriteString(e.out, s); err != nil {
		return errors.Newf(errors.IOError, e.line, "could not write output: %v", err)
	}
	return nil
}

// formatPrint renders a value for PRINT: non-negative numbers carry a
// leading space in the sign column, strings print verbatim.
func formatPrint(v Value) string {
	switch v := v.(type) {
	case *IntegerValue:
		if v.Value >= 0 {
			return " " + v.String()
		}
		return v.String()
	case *FloatValue:
		if v.Value >= 0 {
			return " " + v.String()
		}
		return v.String()
	}
	return v.String()
}

// inputStmt handles INPUT [#fh,] [prompt ;] var [, var ...]. Interactive
// input is retried from the start when a numeric variable receives
// non-numeric text or too few values arrive; file input is not retried.
func (e *Evaluator) inputStmt() error {
	e.advance() // past INPUT

	fileIO := false
	fileNum := 0
	if !e.atEnd() && e.tok().Type == token.HASH {
		fileIO = true
		e.advance() // past #
		v, err := e.expr()
		if err != nil {
			return err
		}
		fileNum, err = e.toInt(v, "File number")
		if err != nil {
			return err
		}
		if _, err := e.files.get(fileNum, "INPUT", e.line); err != nil {
			return err
		}
		if err := e.consume(token.COMMA); err != nil {
			return err
		}
	}

	prompt := "? "
	if !e.atEnd() && e.tok().Type == token.STRING {
		if fileIO {
			return errors.Syntax("Input prompt specified for file I/O", e.line)
		}
		v, err := e.logexpr()
		if err != nil {
			return err
		}
		prompt = v.String()
		if err := e.consume(token.SEMICOLON); err != nil {
			return err
		}
	}

	var vars []string
	if !e.atEnd() {
		if e.tok().Type != token.NAME {
			return errors.Value("Expecting NAME in INPUT statement", e.line)
		}
		vars = append(vars, e.tok().Literal)
		e.advance()
		for !e.atEnd() && e.tok().Type == token.COMMA {
			e.advance()
			if e.atEnd() || e.tok().Type != token.NAME {
				return errors.Value("Expecting NAME in INPUT statement", e.line)
			}
			vars = append(vars, e.tok().Literal)
			e.advance()
		}
	}

	for {
		var line string
		var err error
		if fileIO {
			line, err = e.files.readLine(fileNum, e.line)
		} else {
			if err := e.emit(false, 0, prompt); err != nil {
				return err
			}
			line, err = e.readInputLine()
		}
		if err != nil {
			return err
		}

		fields := strings.SplitN(line, ",", len(vars))
		retry := false
		for i, name := range vars {
			if i >= len(fields) {
				fmt.Fprintln(e.out, "Not enough values input - redo from start")
				retry = !fileIO
				break
			}
			raw := fields[i]
			if IsStringName(name) {
				if err := e.symbols.Assign(name, NewStr(raw), e.line); err != nil {
					return err
				}
				continue
			}
			f, perr := parseFloat(strings.TrimSpace(raw))
			if perr != nil {
				fmt.Fprintln(e.out, "Non-numeric input provided to a numeric variable - redo from start")
				retry = !fileIO
				break
			}
			if err := e.symbols.Assign(name, NewNumber(f), e.line); err != nil {
				return err
			}
		}
		if !retry {
			return nil
		}
	}
}

// readInputLine reads one line from the interactive input stream.
func (e *Evaluator) readInputLine() (string, error) {
	line, err := e.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.IO("End of input", e.line)
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}
