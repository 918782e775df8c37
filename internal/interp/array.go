package interp

import (
	"github.com/cwbudde/go-basic/internal/errors"
)

// Array is a fixed-shape BASIC array of one to three dimensions. Storage is
// a flat slice indexed with computed strides. Every dimension is
// over-allocated by one so that indices 0..size are all valid, matching
// dialects that use the element at index = size. Numeric arrays start out
// zeroed, string arrays as empty strings.
type Array struct {
	sizes    []int // declared DIM sizes, one per dimension
	isString bool
	data     []Value
}

// NewArray creates an array from the declared dimension sizes. Sizes must be
// non-negative integers; integral floats such as 1.0 are accepted, 1.1 is
// not. At most three dimensions are allowed.
func NewArray(sizes []Value, isString bool, line int) (*Array, error) {
	if len(sizes) == 0 {
		return nil, errors.Syntax("Zero dimensional array specified", line)
	}
	if len(sizes) > 3 {
		return nil, errors.Syntax("Maximum number of array dimensions is three", line)
	}

	dims := make([]int, len(sizes))
	total := 1
	for i, sv := range sizes {
		n, ok := AsInt(sv)
		if !ok {
			return nil, errors.Syntax("Fractional array size specified", line)
		}
		if n < 0 {
			return nil, errors.Syntax("Negative array size specified", line)
		}
		dims[i] = int(n)
		total *= int(n) + 1
	}

	a := &Array{sizes: dims, isString: isString, data: make([]Value, total)}
	var zero Value
	if isString {
		zero = NewStr("")
	} else {
		zero = NewInt(0)
	}
	for i := range a.data {
		a.data[i] = zero
	}
	return a, nil
}

// Dims returns the number of dimensions.
func (a *Array) Dims() int { return len(a.sizes) }

// IsString reports whether the array holds string elements.
func (a *Array) IsString() bool { return a.isString }

// offset converts an index list into a flat offset, validating arity and
// bounds. Indices are 0..size inclusive per dimension.
func (a *Array) offset(indices []int, line int) (int, error) {
	if len(indices) != len(a.sizes) {
		return 0, errors.Index("Incorrect number of indices applied to array", line)
	}
	off := 0
	for i := len(indices) - 1; i >= 0; i-- {
		idx := indices[i]
		if idx < 0 || idx > a.sizes[i] {
			return 0, errors.Index("Array index out of range", line)
		}
		off = off*(a.sizes[i]+1) + idx
	}
	return off, nil
}

// Get returns the element at the given indices.
func (a *Array) Get(indices []int, line int) (Value, error) {
	off, err := a.offset(indices, line)
	if err != nil {
		return nil, err
	}
	return a.data[off], nil
}

// Set stores a value at the given indices.
func (a *Array) Set(indices []int, v Value, line int) error {
	off, err := a.offset(indices, line)
	if err != nil {
		return err
	}
	a.data[off] = v
	return nil
}
