package interp

import (
	"testing"

	"github.com/cwbudde/go-basic/internal/errors"
)

func TestNewArraySizes(t *testing.T) {
	tests := []struct {
		name    string
		sizes   []Value
		wantErr bool
	}{
		{"one dimension", []Value{NewInt(5)}, false},
		{"three dimensions", []Value{NewInt(2), NewInt(3), NewInt(4)}, false},
		{"integral float size", []Value{NewFloat(1.0)}, false},
		{"zero size", []Value{NewInt(0)}, false},
		{"fractional size", []Value{NewFloat(1.1)}, true},
		{"negative size", []Value{NewInt(-1)}, true},
		{"no dimensions", nil, true},
		{"four dimensions", []Value{NewInt(1), NewInt(1), NewInt(1), NewInt(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArray(tt.sizes, false, 10)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewArray error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// Arrays are over-allocated by one: every index 0..size is addressable.
func TestArrayOverAllocation(t *testing.T) {
	a, err := NewArray([]Value{NewInt(3), NewInt(2)}, false, 0)
	if err != nil {
		t.Fatalf("NewArray error: %v", err)
	}

	for i := 0; i <= 3; i++ {
		for j := 0; j <= 2; j++ {
			if err := a.Set([]int{i, j}, NewInt(int64(i*10+j)), 0); err != nil {
				t.Fatalf("Set(%d,%d) error: %v", i, j, err)
			}
		}
	}
	for i := 0; i <= 3; i++ {
		for j := 0; j <= 2; j++ {
			v, err := a.Get([]int{i, j}, 0)
			if err != nil {
				t.Fatalf("Get(%d,%d) error: %v", i, j, err)
			}
			if n, _ := AsInt(v); n != int64(i*10+j) {
				t.Errorf("Get(%d,%d) = %v, want %d", i, j, v, i*10+j)
			}
		}
	}

	if _, err := a.Get([]int{4, 0}, 0); err == nil {
		t.Error("Get past the over-allocated bound succeeded")
	}
	if _, err := a.Get([]int{0, 3}, 0); err == nil {
		t.Error("Get past the second dimension bound succeeded")
	}
}

func TestArrayArityAndBounds(t *testing.T) {
	a, err := NewArray([]Value{NewInt(2)}, false, 0)
	if err != nil {
		t.Fatalf("NewArray error: %v", err)
	}

	if _, err := a.Get([]int{1, 1}, 5); err == nil {
		t.Error("wrong arity access succeeded")
	} else if kind, _ := errors.KindOf(err); kind != errors.IndexError {
		t.Errorf("arity error kind = %v, want IndexError", err)
	}

	if err := a.Set([]int{-1}, NewInt(1), 5); err == nil {
		t.Error("negative index succeeded")
	}
}

func TestArrayInitialValues(t *testing.T) {
	num, _ := NewArray([]Value{NewInt(1)}, false, 0)
	v, _ := num.Get([]int{1}, 0)
	if n, _ := AsInt(v); n != 0 {
		t.Errorf("numeric array initial value = %v, want 0", v)
	}

	str, _ := NewArray([]Value{NewInt(1)}, true, 0)
	v, _ = str.Get([]int{0}, 0)
	if v.String() != "" || !IsString(v) {
		t.Errorf("string array initial value = %v, want empty string", v)
	}
}
