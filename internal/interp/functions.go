package interp

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/pkg/token"
)

// callFunction evaluates a builtin function call, the current token being
// the function name. Fixed-arity argument lists are consumed here; PI takes
// no parentheses at all.
func (e *Evaluator) callFunction(fn token.TokenType) (Value, error) {
	e.advance() // past the function name

	switch fn {
	case token.PI:
		return NewFloat(math.Pi), nil
	case token.RND:
		return e.fnRND()
	case token.RNDINT:
		return e.fnRNDINT()
	case token.MAX, token.MIN:
		return e.fnMaxMin(fn)
	case token.POW:
		return e.fnPOW()
	case token.TERNARY:
		return e.fnTernary()
	case token.LEFT:
		return e.fnLEFT()
	case token.RIGHT:
		return e.fnRIGHT()
	case token.MID:
		return e.fnMID()
	case token.INSTR:
		return e.fnINSTR()
	}

	// The remaining functions take a single parenthesized argument.
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	arg, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	return e.applyUnaryFunction(fn, arg)
}

// argFloat coerces a function argument to float64.
func (e *Evaluator) argFloat(v Value, fn string) (float64, error) {
	f, ok := AsFloat(v)
	if !ok {
		return 0, errors.Newf(errors.TypeError, e.line, "Invalid type supplied to %s", fn)
	}
	return f, nil
}

// argInt coerces a function argument to an integer.
func (e *Evaluator) argInt(v Value, fn string) (int64, error) {
	n, ok := AsInt(v)
	if !ok {
		return 0, errors.Newf(errors.TypeError, e.line, "Invalid type supplied to %s", fn)
	}
	return n, nil
}

// argString coerces a function argument to a string.
func (e *Evaluator) argString(v Value, fn string) (string, error) {
	s, ok := v.(*StringValue)
	if !ok {
		return "", errors.Newf(errors.TypeError, e.line, "Invalid type supplied to %s", fn)
	}
	return s.Value, nil
}

// parenArg consumes "( expr )".
func (e *Evaluator) parenArg() (Value, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	v, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	return v, nil
}

// fnRND implements RND(x): a negative argument reseeds the stream; the
// result is always a random float in [0, 1).
func (e *Evaluator) fnRND() (Value, error) {
	v, err := e.parenArg()
	if err != nil {
		return nil, err
	}
	f, err := e.argFloat(v, "RND")
	if err != nil {
		return nil, err
	}
	if f < 0 {
		e.rand.seed(int64(f))
	}
	return NewFloat(e.rand.float()), nil
}

// fnRNDINT implements RNDINT(lo, hi) with inclusive bounds.
func (e *Evaluator) fnRNDINT() (Value, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	loV, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return nil, err
	}
	hiV, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	lo, err := e.argInt(loV, "RNDINT")
	if err != nil {
		return nil, err
	}
	hi, err := e.argInt(hiV, "RNDINT")
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, errors.Value("Invalid value supplied to RNDINT", e.line)
	}
	return NewInt(e.rand.intRange(lo, hi)), nil
}

// fnMaxMin implements the variadic MAX and MIN.
func (e *Evaluator) fnMaxMin(fn token.TokenType) (Value, error) {
	name := "MAX"
	if fn == token.MIN {
		name = "MIN"
	}

	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	best, err := e.expr()
	if err != nil {
		return nil, err
	}
	for !e.atEnd() && e.tok().Type == token.COMMA {
		e.advance()
		v, err := e.expr()
		if err != nil {
			return nil, err
		}
		cmp, err := Compare(v, best)
		if err != nil {
			return nil, errors.Newf(errors.TypeError, e.line, "Invalid type supplied to %s", name)
		}
		if (fn == token.MAX && cmp > 0) || (fn == token.MIN && cmp < 0) {
			best = v
		}
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	return best, nil
}

// fnPOW implements POW(base, exponent). Two integer operands with a
// non-negative exponent yield an integer.
func (e *Evaluator) fnPOW() (Value, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	baseV, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return nil, err
	}
	expV, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	base, err := e.argFloat(baseV, "POW")
	if err != nil {
		return nil, err
	}
	exp, err := e.argFloat(expV, "POW")
	if err != nil {
		return nil, err
	}
	r := math.Pow(base, exp)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, errors.Value("Invalid value supplied to POW", e.line)
	}
	_, baseInt := baseV.(*IntegerValue)
	_, expInt := expV.(*IntegerValue)
	if baseInt && expInt && exp >= 0 {
		return NewInt(int64(r)), nil
	}
	return NewFloat(r), nil
}

// fnTernary implements IFF(cond, whenTrue, whenFalse). Both branches are
// evaluated; the condition selects the result.
func (e *Evaluator) fnTernary() (Value, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	cond, err := e.logexpr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return nil, err
	}
	whenTrue, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return nil, err
	}
	whenFalse, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	if Truthy(cond) {
		return whenTrue, nil
	}
	return whenFalse, nil
}

// stringAndCount consumes "( expr , expr )" for LEFT$ and RIGHT$.
func (e *Evaluator) stringAndCount(fn string) (string, int64, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return "", 0, err
	}
	sV, err := e.expr()
	if err != nil {
		return "", 0, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return "", 0, err
	}
	nV, err := e.expr()
	if err != nil {
		return "", 0, err
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return "", 0, err
	}

	s, err := e.argString(sV, fn)
	if err != nil {
		return "", 0, err
	}
	n, err := e.argInt(nV, fn)
	if err != nil {
		return "", 0, err
	}
	return s, n, nil
}

// fnLEFT implements LEFT$(s, chars).
func (e *Evaluator) fnLEFT() (Value, error) {
	s, n, err := e.stringAndCount("LEFT$")
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	switch {
	case n <= 0:
		return NewStr(""), nil
	case n >= int64(len(r)):
		return NewStr(s), nil
	}
	return NewStr(string(r[:n])), nil
}

// fnRIGHT implements RIGHT$(s, chars).
func (e *Evaluator) fnRIGHT() (Value, error) {
	s, n, err := e.stringAndCount("RIGHT$")
	if err != nil {
		return nil, err
	}
	r := []rune(s)
	switch {
	case n <= 0:
		return NewStr(""), nil
	case n >= int64(len(r)):
		return NewStr(s), nil
	}
	return NewStr(string(r[int64(len(r))-n:])), nil
}

// fnMID implements MID$(s, start[, chars]) with a one-based start. A chars
// argument of zero, like an absent one, takes the rest of the string.
func (e *Evaluator) fnMID() (Value, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	sV, err := e.expr()
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return nil, err
	}
	startV, err := e.expr()
	if err != nil {
		return nil, err
	}
	haveChars := false
	var charsV Value
	if !e.atEnd() && e.tok().Type == token.COMMA {
		e.advance()
		charsV, err = e.expr()
		if err != nil {
			return nil, err
		}
		haveChars = true
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	s, err := e.argString(sV, "MID$")
	if err != nil {
		return nil, err
	}
	start, err := e.argInt(startV, "MID$")
	if err != nil {
		return nil, err
	}

	r := []rune(s)
	from := start - 1
	if from < 0 {
		from = 0
	}
	if from >= int64(len(r)) {
		return NewStr(""), nil
	}

	if haveChars {
		chars, err := e.argInt(charsV, "MID$")
		if err != nil {
			return nil, err
		}
		if chars > 0 {
			to := from + chars
			if to > int64(len(r)) {
				to = int64(len(r))
			}
			return NewStr(string(r[from:to])), nil
		}
	}
	return NewStr(string(r[from:])), nil
}

// fnINSTR implements INSTR(hay, needle[, start[, end]]): a one-based index
// of needle in hay, 0 when not found. The optional bounds are one-based.
func (e *Evaluator) fnINSTR() (Value, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	hayV, err := e.expr()
	if err != nil {
		return nil, err
	}
	hay, err := e.argString(hayV, "INSTR")
	if err != nil {
		return nil, err
	}
	if err := e.consume(token.COMMA); err != nil {
		return nil, err
	}
	needleV, err := e.expr()
	if err != nil {
		return nil, err
	}
	needle, err := e.argString(needleV, "INSTR")
	if err != nil {
		return nil, err
	}

	lo := int64(0)
	hi := int64(len(hay))
	if !e.atEnd() && e.tok().Type == token.COMMA {
		e.advance()
		startV, err := e.expr()
		if err != nil {
			return nil, err
		}
		start, err := e.argInt(startV, "INSTR")
		if err != nil {
			return nil, err
		}
		lo = start - 1
		if !e.atEnd() && e.tok().Type == token.COMMA {
			e.advance()
			endV, err := e.expr()
			if err != nil {
				return nil, err
			}
			end, err := e.argInt(endV, "INSTR")
			if err != nil {
				return nil, err
			}
			hi = end - 1
		}
	}
	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	if lo < 0 {
		lo = 0
	}
	if hi > int64(len(hay)) {
		hi = int64(len(hay))
	}
	if lo > hi {
		return NewInt(0), nil
	}
	idx := strings.Index(hay[lo:hi], needle)
	if idx < 0 {
		return NewInt(0), nil
	}
	return NewInt(lo + int64(idx) + 1), nil
}

// applyUnaryFunction evaluates the single-argument builtins.
func (e *Evaluator) applyUnaryFunction(fn token.TokenType, arg Value) (Value, error) {
	switch fn {
	case token.SQR:
		f, err := e.argFloat(arg, "SQR")
		if err != nil {
			return nil, err
		}
		if f < 0 {
			return nil, errors.Value("Invalid value supplied to SQR", e.line)
		}
		return NewFloat(math.Sqrt(f)), nil

	case token.ABS:
		switch v := arg.(type) {
		case *IntegerValue:
			if v.Value < 0 {
				return NewInt(-v.Value), nil
			}
			return v, nil
		case *FloatValue:
			return NewFloat(math.Abs(v.Value)), nil
		}
		return nil, errors.Type("Invalid type supplied to ABS", e.line)

	case token.ATN:
		f, err := e.argFloat(arg, "ATN")
		if err != nil {
			return nil, err
		}
		return NewFloat(math.Atan(f)), nil

	case token.COS:
		f, err := e.argFloat(arg, "COS")
		if err != nil {
			return nil, err
		}
		return NewFloat(math.Cos(f)), nil

	case token.SIN:
		f, err := e.argFloat(arg, "SIN")
		if err != nil {
			return nil, err
		}
		return NewFloat(math.Sin(f)), nil

	case token.TAN:
		f, err := e.argFloat(arg, "TAN")
		if err != nil {
			return nil, err
		}
		return NewFloat(math.Tan(f)), nil

	case token.EXP:
		f, err := e.argFloat(arg, "EXP")
		if err != nil {
			return nil, err
		}
		return NewFloat(math.Exp(f)), nil

	case token.LOG:
		f, err := e.argFloat(arg, "LOG")
		if err != nil {
			return nil, err
		}
		if f <= 0 {
			return nil, errors.Value("Invalid value supplied to LOG", e.line)
		}
		return NewFloat(math.Log(f)), nil

	case token.INT:
		f, err := e.argFloat(arg, "INT")
		if err != nil {
			return nil, err
		}
		return NewInt(int64(math.Floor(f))), nil

	case token.ROUND:
		f, err := e.argFloat(arg, "ROUND")
		if err != nil {
			return nil, err
		}
		return NewInt(int64(math.RoundToEven(f))), nil

	case token.CHR:
		n, err := e.argInt(arg, "CHR$")
		if err != nil {
			return nil, err
		}
		if n < 0 || n > utf8.MaxRune {
			return nil, errors.Value("Invalid value supplied to CHR$", e.line)
		}
		return NewStr(string(rune(n))), nil

	case token.ASC:
		s, err := e.argString(arg, "ASC")
		if err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(s) != 1 {
			return nil, errors.Value("Invalid value supplied to ASC", e.line)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return NewInt(int64(r)), nil

	case token.STR:
		return NewStr(arg.String()), nil

	case token.VAL:
		if f, ok := AsFloat(arg); ok {
			return NewNumber(f), nil
		}
		s, err := e.argString(arg, "VAL")
		if err != nil {
			return nil, err
		}
		f, perr := parseFloat(strings.TrimSpace(s))
		if perr != nil {
			// BASIC returns zero for a non-numeric argument.
			return NewInt(0), nil
		}
		return NewNumber(f), nil

	case token.LEN:
		s, err := e.argString(arg, "LEN")
		if err != nil {
			return nil, err
		}
		return NewInt(int64(utf8.RuneCountInString(s))), nil

	case token.UPPER:
		s, err := e.argString(arg, "UPPER$")
		if err != nil {
			return nil, err
		}
		return NewStr(strings.ToUpper(s)), nil

	case token.LOWER:
		s, err := e.argString(arg, "LOWER$")
		if err != nil {
			return nil, err
		}
		return NewStr(strings.ToLower(s)), nil

	case token.TAB:
		n, err := e.argInt(arg, "TAB")
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		return NewStr(strings.Repeat(" ", int(n))), nil
	}

	return nil, errors.Syntax("Unrecognised function", e.line)
}
