package interp

import (
	"sort"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/pkg/token"
)

// DataPool holds the DATA statements of a program, keyed by line number,
// together with the read cursor consumed by READ and reset by RESTORE. The
// cursor names the DATA line currently being consumed; 0 means before the
// first DATA line.
type DataPool struct {
	stmts map[int][]token.Token
	next  int
}

// NewDataPool creates an empty pool.
func NewDataPool() *DataPool {
	return &DataPool{stmts: make(map[int][]token.Token)}
}

// Add registers the token list of a DATA line. An existing entry for the
// same line is replaced. The token list includes the leading DATA token.
func (d *DataPool) Add(line int, tokens []token.Token) {
	d.stmts[line] = tokens
}

// Delete removes the DATA line if present.
func (d *DataPool) Delete(line int) {
	delete(d.stmts, line)
}

// Clear removes all DATA lines and resets the cursor.
func (d *DataPool) Clear() {
	d.stmts = make(map[int][]token.Token)
	d.next = 0
}

// Tokens returns the token list of a DATA line, or nil.
func (d *DataPool) Tokens(line int) []token.Token {
	return d.stmts[line]
}

// lineNumbers returns the DATA line numbers in ascending order.
func (d *DataPool) lineNumbers() []int {
	nums := make([]int, 0, len(d.stmts))
	for n := range d.stmts {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Read advances the cursor to the next DATA line and decodes its literals
// into values, left to right. A unary minus latches a negative sign that is
// reset at each comma, so negative literals decode correctly. callerLine is
// the line number of the READ statement, used for error reporting.
func (d *DataPool) Read(callerLine int) ([]Value, error) {
	if len(d.stmts) == 0 {
		return nil, errors.Runtime("No DATA statements available to READ", callerLine)
	}

	nums := d.lineNumbers()
	if d.next == 0 {
		d.next = nums[0]
	} else {
		idx := sort.SearchInts(nums, d.next)
		if idx >= len(nums)-1 {
			return nil, errors.Runtime("No DATA statements available to READ", callerLine)
		}
		d.next = nums[idx+1]
	}

	var values []Value
	sign := int64(1)
	for _, tok := range d.stmts[d.next][1:] {
		switch tok.Type {
		case token.COMMA:
			sign = 1
		case token.MINUS:
			sign = -1
		case token.STRING:
			values = append(values, NewStr(tok.Literal))
		case token.UNSIGNEDINT:
			n, err := parseInt(tok.Literal)
			if err != nil {
				return nil, errors.Value("Invalid numeric literal in DATA", d.next)
			}
			values = append(values, NewInt(sign*n))
		case token.UNSIGNEDFLOAT:
			f, err := parseFloat(tok.Literal)
			if err != nil {
				return nil, errors.Value("Invalid numeric literal in DATA", d.next)
			}
			values = append(values, NewFloat(float64(sign)*f))
		}
	}
	return values, nil
}

// Restore resets the cursor so that the next Read consumes the DATA line
// numbered n. n = 0 rewinds before the first DATA line; any other n must be
// an existing DATA line.
func (d *DataPool) Restore(n int) error {
	if n == 0 {
		d.next = 0
		return nil
	}
	nums := d.lineNumbers()
	idx := sort.SearchInts(nums, n)
	if idx >= len(nums) || nums[idx] != n {
		return errors.Runtime("Attempt to RESTORE but no DATA statement at line given", 0)
	}
	if idx == 0 {
		d.next = 0
	} else {
		d.next = nums[idx-1]
	}
	return nil
}
