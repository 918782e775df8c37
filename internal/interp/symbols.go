package interp

import (
	"strings"

	"github.com/cwbudde/go-basic/internal/errors"
)

// arraySuffix is appended to an array's name in the symbol table so that a
// simple variable A and an array A(...) can coexist.
const arraySuffix = "_array"

// SymbolTable holds simple variables and arrays. Names are upper case; a
// trailing $ marks string type. Arrays are stored under name + "_array".
type SymbolTable struct {
	vars   map[string]Value
	arrays map[string]*Array
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:   make(map[string]Value),
		arrays: make(map[string]*Array),
	}
}

// IsStringName reports whether the variable name designates string type.
func IsStringName(name string) bool {
	return strings.HasSuffix(name, "$")
}

// Get returns the value of a simple variable.
func (st *SymbolTable) Get(name string) (Value, bool) {
	v, ok := st.vars[name]
	return v, ok
}

// Assign stores a value in a simple variable after checking the type-suffix
// discipline.
func (st *SymbolTable) Assign(name string, v Value, line int) error {
	if err := checkSuffix(name, v, line); err != nil {
		return err
	}
	st.vars[name] = v
	return nil
}

// SetNumeric stores a numeric value without a suffix check; used by FOR,
// whose loop variable is validated up front.
func (st *SymbolTable) SetNumeric(name string, v Value) {
	st.vars[name] = v
}

// Array returns the array registered under the given base name.
func (st *SymbolTable) Array(name string) (*Array, bool) {
	a, ok := st.arrays[name+arraySuffix]
	return a, ok
}

// HasArray reports whether an array with the given base name exists.
func (st *SymbolTable) HasArray(name string) bool {
	_, ok := st.arrays[name+arraySuffix]
	return ok
}

// Dim creates (or replaces) an array under the given base name.
func (st *SymbolTable) Dim(name string, sizes []Value, line int) error {
	a, err := NewArray(sizes, IsStringName(name), line)
	if err != nil {
		return err
	}
	st.arrays[name+arraySuffix] = a
	return nil
}

// Clear removes every variable and array.
func (st *SymbolTable) Clear() {
	st.vars = make(map[string]Value)
	st.arrays = make(map[string]*Array)
}

// checkSuffix enforces the type-suffix discipline: $ names hold strings,
// all other names hold numbers.
func checkSuffix(name string, v Value, line int) error {
	if IsStringName(name) {
		if !IsString(v) {
			return errors.Type("Attempt to assign non-string to string variable", line)
		}
		return nil
	}
	if IsString(v) {
		return errors.Type("Attempt to assign string to numeric variable", line)
	}
	return nil
}
