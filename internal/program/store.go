// Package program holds the stored BASIC program and drives its execution.
//
// The Store maps line numbers to statement token lists and implements the
// editing operations of the environment: insert/replace, delete, LIST,
// RENUM, SAVE and LOAD. DATA lines are mirrored into the DATA pool with a
// one-token stub retained in the program. The Controller walks the stored
// lines in ascending order and interprets the control messages returned by
// the evaluator.
package program

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/internal/interp"
	"github.com/cwbudde/go-basic/internal/lexer"
	"github.com/cwbudde/go-basic/pkg/token"
)

// Store is the ordered mapping from line number to statement body. The
// leading line-number token is stripped before storage; iteration is always
// in ascending numeric order.
type Store struct {
	lines map[int][]token.Token
	data  *interp.DataPool
}

// NewStore creates an empty program store with its own DATA pool.
func NewStore() *Store {
	return &Store{
		lines: make(map[int][]token.Token),
		data:  interp.NewDataPool(),
	}
}

// Data returns the DATA pool mirroring the program's DATA lines.
func (s *Store) Data() *interp.DataPool { return s.data }

// Len returns the number of stored lines.
func (s *Store) Len() int { return len(s.lines) }

// Line returns the statement body stored under a line number.
func (s *Store) Line(n int) ([]token.Token, bool) {
	body, ok := s.lines[n]
	return body, ok
}

// LineNumbers returns all line numbers in ascending order.
func (s *Store) LineNumbers() []int {
	nums := make([]int, 0, len(s.lines))
	for n := range s.lines {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// AddLine stores a program line. The first token must be the line number; a
// line with the same number is replaced. DATA lines are registered in the
// DATA pool, with a one-token stub kept as the program line body.
func (s *Store) AddLine(tokens []token.Token) error {
	if len(tokens) < 2 {
		return errors.Syntax("Expecting a statement after the line number", 0)
	}
	if tokens[0].Type != token.UNSIGNEDINT {
		return errors.Syntax("Invalid line number", 0)
	}
	num, err := strconv.Atoi(tokens[0].Literal)
	if err != nil || num <= 0 {
		return errors.Syntax("Invalid line number", 0)
	}

	if tokens[1].Type == token.DATA {
		s.data.Add(num, tokens[1:])
		s.lines[num] = tokens[1:2]
	} else {
		s.data.Delete(num)
		s.lines[num] = tokens[1:]
	}
	return nil
}

// DeleteLine removes the given line from the program and the DATA pool.
func (s *Store) DeleteLine(n int) error {
	s.data.Delete(n)
	if _, ok := s.lines[n]; !ok {
		return errors.Runtime("Line number does not exist", 0)
	}
	delete(s.lines, n)
	return nil
}

// Clear removes the whole program and its DATA lines.
func (s *Store) Clear() {
	s.lines = make(map[int][]token.Token)
	s.data.Clear()
}

// List writes the lines numbered within [start, end] to w. Zero bounds
// default to the first and last line.
func (s *Store) List(w io.Writer, start, end int) error {
	nums := s.LineNumbers()
	if len(nums) == 0 {
		return nil
	}
	if start == 0 {
		start = nums[0]
	}
	if end == 0 {
		end = nums[len(nums)-1]
	}

	for _, n := range nums {
		if n < start || n > end {
			continue
		}
		if _, err := io.WriteString(w, s.formatLine(n)); err != nil {
			return errors.Newf(errors.IOError, 0, "could not write listing: %v", err)
		}
	}
	return nil
}

// formatLine re-serializes one stored line: the line number, then each
// token's value separated by spaces, strings requoted. DATA stubs are
// expanded from the pool.
func (s *Store) formatLine(n int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(n))
	sb.WriteString(" ")

	body := s.lines[n]
	if len(body) > 0 && body[0].Type == token.DATA {
		if full := s.data.Tokens(n); full != nil {
			body = full
		}
	}
	for _, t := range body {
		switch t.Type {
		case token.STRING:
			sb.WriteString("\"")
			sb.WriteString(t.Literal)
			sb.WriteString("\" ")
		case token.REM:
			// A reloaded remark would otherwise accumulate the separator
			// space, breaking the SAVE/LOAD listing identity.
			sb.WriteString(strings.TrimRight(t.Literal, " "))
			sb.WriteString(" ")
		default:
			sb.WriteString(t.Literal)
			sb.WriteString(" ")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// String returns the canonical listing of the whole program.
func (s *Store) String() string {
	var sb strings.Builder
	for _, n := range s.LineNumbers() {
		sb.WriteString(s.formatLine(n))
	}
	return sb.String()
}

// Renum renumbers the program from start in increments of step and rewrites
// every line-number-bearing token: the argument of GOTO, GOSUB and RESTORE,
// the ELSE target of OPEN, the targets of ON...GOTO/GOSUB, and the numeric
// targets after THEN, ELSE, GOTO and GOSUB inside IF statements. Targets
// that do not name an existing line are left untouched.
func (s *Store) Renum(start, step int) {
	if start == 0 {
		start = 10
	}
	if step == 0 {
		step = 10
	}

	nums := s.LineNumbers()
	match := make(map[int]int, len(nums))
	for i, old := range nums {
		match[old] = start + i*step
	}

	newLines := make(map[int][]token.Token, len(s.lines))
	for old, body := range s.lines {
		newLines[match[old]] = body
	}
	s.lines = newLines

	// The pool is rebuilt in place: evaluators created over Data() keep
	// reading from it.
	moved := make(map[int][]token.Token)
	for _, old := range nums {
		if toks := s.data.Tokens(old); toks != nil {
			moved[match[old]] = toks
		}
	}
	s.data.Clear()
	for n, toks := range moved {
		s.data.Add(n, toks)
	}

	for _, body := range s.lines {
		rewriteTargets(body, match)
	}
}

// rewriteTargets rewrites the jump targets embedded in one statement body.
func rewriteTargets(body []token.Token, match map[int]int) {
	if len(body) == 0 {
		return
	}

	switch body[0].Type {
	case token.GOTO, token.GOSUB, token.RESTORE:
		if len(body) > 1 {
			replaceLineNum(&body[1], match)
		}

	case token.OPEN:
		// The ELSE [GOTO] target sits at the end of the statement.
		for i := 1; i < len(body); i++ {
			if body[i].Type != token.ELSE {
				continue
			}
			j := i + 1
			if j < len(body) && body[j].Type == token.GOTO {
				j++
			}
			if j < len(body) {
				replaceLineNum(&body[j], match)
			}
			break
		}

	case token.ON:
		// Every numeric token after the GOTO/GOSUB is a target.
		for i := 1; i < len(body); i++ {
			if body[i].Type == token.GOTO || body[i].Type == token.GOSUB {
				for j := i + 1; j < len(body); j++ {
					if body[j].Type == token.UNSIGNEDINT {
						replaceLineNum(&body[j], match)
					}
				}
				break
			}
		}

	case token.IF:
		// A numeric token directly after THEN or ELSE is a branch target;
		// one directly after GOTO or GOSUB inside a branch is a jump target.
		for i := 1; i < len(body)-1; i++ {
			switch body[i].Type {
			case token.THEN, token.ELSE, token.GOTO, token.GOSUB:
				if body[i+1].Type == token.UNSIGNEDINT {
					replaceLineNum(&body[i+1], match)
				}
			}
		}
	}
}

// replaceLineNum rewrites a line-number token through the old-to-new map.
// Tokens that are not numbers, or that name an unknown line, stay as-is.
func replaceLineNum(t *token.Token, match map[int]int) {
	if t.Type != token.UNSIGNEDINT {
		return
	}
	old, err := strconv.Atoi(t.Literal)
	if err != nil {
		return
	}
	if repl, ok := match[old]; ok {
		t.Literal = strconv.Itoa(repl)
	}
}

// withBasExt appends the .bas extension when the path has none.
func withBasExt(path string) string {
	if !strings.HasSuffix(strings.ToLower(path), ".bas") {
		return path + ".bas"
	}
	return path
}

// Save writes the program listing to the given path, appending .bas when
// missing.
func (s *Store) Save(path string) error {
	f, err := os.Create(withBasExt(path))
	if err != nil {
		return errors.IO("Could not save to file", 0)
	}
	defer f.Close()

	if _, err := io.WriteString(f, s.String()); err != nil {
		return errors.IO("Could not save to file", 0)
	}
	return nil
}

// Load replaces the current program with the one stored at path, appending
// .bas when missing. Each text line is re-tokenized and added as a program
// line.
func (s *Store) Load(path string) error {
	f, err := os.Open(withBasExt(path))
	if err != nil {
		return errors.IO("Could not read file", 0)
	}
	defer f.Close()

	s.Clear()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.ReplaceAll(scanner.Text(), "\r", ""))
		if line == "" {
			continue
		}
		tokens, err := lexer.Tokenize(line)
		if err != nil {
			return err
		}
		if err := s.AddLine(tokens); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.IO("Could not read file", 0)
	}
	return nil
}
