package interp

import (
	"math"
	"strconv"

	"github.com/cwbudde/go-basic/internal/errors"
)

// Value is a BASIC runtime value: an integer, a float or a string.
// Arithmetic and comparison dispatch on the concrete pair; mixed
// integer/float arithmetic promotes to float.
type Value interface {
	// Type returns "INTEGER", "FLOAT" or "STRING".
	Type() string
	// String returns the plain textual form of the value, as used by STR$
	// and by serialization. PRINT formatting is layered on top.
	String() string
}

// IntegerValue represents an integer value.
type IntegerValue struct {
	Value int64
}

// Type returns "INTEGER".
func (v *IntegerValue) Type() string { return "INTEGER" }

// String returns the decimal representation.
func (v *IntegerValue) String() string { return strconv.FormatInt(v.Value, 10) }

// FloatValue represents a floating point value.
type FloatValue struct {
	Value float64
}

// Type returns "FLOAT".
func (v *FloatValue) Type() string { return "FLOAT" }

// String returns the shortest representation that round-trips.
func (v *FloatValue) String() string { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

// StringValue represents a string value.
type StringValue struct {
	Value string
}

// Type returns "STRING".
func (v *StringValue) Type() string { return "STRING" }

// String returns the string contents without quotes.
func (v *StringValue) String() string { return v.Value }

// NewInt wraps an int64.
func NewInt(i int64) Value { return &IntegerValue{Value: i} }

// NewFloat wraps a float64.
func NewFloat(f float64) Value { return &FloatValue{Value: f} }

// NewStr wraps a string.
func NewStr(s string) Value { return &StringValue{Value: s} }

// NewBool converts a condition to the BASIC convention of 1 and 0.
func NewBool(b bool) Value {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}

// NewNumber wraps a float64, demoting to IntegerValue when the value is
// integral. Used by READ, INPUT and VAL, which parse numeric text.
func NewNumber(f float64) Value {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return NewInt(int64(f))
	}
	return NewFloat(f)
}

// IsString reports whether v is a string value.
func IsString(v Value) bool {
	_, ok := v.(*StringValue)
	return ok
}

// IsNumeric reports whether v is an integer or float value.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case *IntegerValue, *FloatValue:
		return true
	}
	return false
}

// Truthy reports whether v counts as true in a condition: a non-zero number
// or a non-empty string.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case *IntegerValue:
		return v.Value != 0
	case *FloatValue:
		return v.Value != 0
	case *StringValue:
		return v.Value != ""
	}
	return false
}

// AsFloat returns the numeric value of v as a float64.
func AsFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case *IntegerValue:
		return float64(v.Value), true
	case *FloatValue:
		return v.Value, true
	}
	return 0, false
}

// AsInt returns the value of v as an int64. Floats qualify only when
// integral.
func AsInt(v Value) (int64, bool) {
	switch v := v.(type) {
	case *IntegerValue:
		return v.Value, true
	case *FloatValue:
		if v.Value == math.Trunc(v.Value) {
			return int64(v.Value), true
		}
	}
	return 0, false
}

// Negate returns the arithmetic negation of a numeric value.
func Negate(v Value) (Value, error) {
	switch v := v.(type) {
	case *IntegerValue:
		return NewInt(-v.Value), nil
	case *FloatValue:
		return NewFloat(-v.Value), nil
	}
	return nil, errors.Type("unary minus applied to a string", 0)
}

// bothInt extracts both operands as integers when both are IntegerValues.
func bothInt(left, right Value) (int64, int64, bool) {
	l, lok := left.(*IntegerValue)
	r, rok := right.(*IntegerValue)
	if lok && rok {
		return l.Value, r.Value, true
	}
	return 0, 0, false
}

// Add returns left + right: numeric addition with int/float promotion, or
// string concatenation when both operands are strings.
func Add(left, right Value) (Value, error) {
	if ls, ok := left.(*StringValue); ok {
		if rs, ok := right.(*StringValue); ok {
			return NewStr(ls.Value + rs.Value), nil
		}
	}
	if l, r, ok := bothInt(left, right); ok {
		return NewInt(l + r), nil
	}
	lf, lok := AsFloat(left)
	rf, rok := AsFloat(right)
	if !lok || !rok {
		return nil, typeMismatch(left, right, "+")
	}
	return NewFloat(lf + rf), nil
}

// Sub returns left - right.
func Sub(left, right Value) (Value, error) {
	if l, r, ok := bothInt(left, right); ok {
		return NewInt(l - r), nil
	}
	lf, lok := AsFloat(left)
	rf, rok := AsFloat(right)
	if !lok || !rok {
		return nil, typeMismatch(left, right, "-")
	}
	return NewFloat(lf - rf), nil
}

// Mul returns left * right.
func Mul(left, right Value) (Value, error) {
	if l, r, ok := bothInt(left, right); ok {
		return NewInt(l * r), nil
	}
	lf, lok := AsFloat(left)
	rf, rok := AsFloat(right)
	if !lok || !rok {
		return nil, typeMismatch(left, right, "*")
	}
	return NewFloat(lf * rf), nil
}

// Div returns left / right. Division is always floating point.
func Div(left, right Value) (Value, error) {
	lf, lok := AsFloat(left)
	rf, rok := AsFloat(right)
	if !lok || !rok {
		return nil, typeMismatch(left, right, "/")
	}
	if rf == 0 {
		return nil, errors.Value("Division by zero", 0)
	}
	return NewFloat(lf / rf), nil
}

// Mod returns left % right: integer remainder when both operands are
// integers, floating point modulo otherwise.
func Mod(left, right Value) (Value, error) {
	if l, r, ok := bothInt(left, right); ok {
		if r == 0 {
			return nil, errors.Value("Division by zero", 0)
		}
		return NewInt(l % r), nil
	}
	lf, lok := AsFloat(left)
	rf, rok := AsFloat(right)
	if !lok || !rok {
		return nil, typeMismatch(left, right, "%")
	}
	if rf == 0 {
		return nil, errors.Value("Division by zero", 0)
	}
	return NewFloat(math.Mod(lf, rf)), nil
}

// Compare returns -1, 0 or 1 for an ordered comparison of two values of the
// same family: both numeric or both strings.
func Compare(left, right Value) (int, error) {
	if ls, ok := left.(*StringValue); ok {
		rs, ok := right.(*StringValue)
		if !ok {
			return 0, typeMismatch(left, right, "comparison")
		}
		switch {
		case ls.Value < rs.Value:
			return -1, nil
		case ls.Value > rs.Value:
			return 1, nil
		}
		return 0, nil
	}
	lf, lok := AsFloat(left)
	rf, rok := AsFloat(right)
	if !lok || !rok {
		return 0, typeMismatch(left, right, "comparison")
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	}
	return 0, nil
}

// Equal reports whether two values are equal. Values of different families
// are never equal.
func Equal(left, right Value) bool {
	if IsString(left) != IsString(right) {
		return false
	}
	cmp, err := Compare(left, right)
	return err == nil && cmp == 0
}

// typeMismatch builds the TypeError for an operator applied to operands of
// incompatible types.
func typeMismatch(left, right Value, op string) error {
	return errors.Newf(errors.TypeError, 0, "invalid operand types %s and %s for %s",
		left.Type(), right.Type(), op)
}
