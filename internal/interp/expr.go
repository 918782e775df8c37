package interp

import (
	"github.com/cwbudde/go-basic/internal/errors"
	"github.com/cwbudde/go-basic/pkg/token"
)

// Expression grammar, lowest precedence first:
//
//	logexpr: notexpr ((OR | AND) notexpr)*
//	notexpr: [NOT] relexpr
//	relexpr: expr [(= | <> | < | > | <= | >=) expr]
//	expr:    term ((+ | -) term)*
//	term:    factor ((* | / | %) factor)*
//	factor:  [+ | -]* (literal | (logexpr) | function | variable | array)
//
// Each function returns its value directly; every evaluation leaves exactly
// one result.

// logexpr parses OR/AND chains. Both operators are logical: operands are
// tested for truthiness and the result is 1 or 0.
func (e *Evaluator) logexpr() (Value, error) {
	left, err := e.notexpr()
	if err != nil {
		return nil, err
	}

	for !e.atEnd() && (e.tok().Type == token.OR || e.tok().Type == token.AND) {
		op := e.tok().Type
		e.advance()
		right, err := e.notexpr()
		if err != nil {
			return nil, err
		}
		if op == token.OR {
			left = NewBool(Truthy(left) || Truthy(right))
		} else {
			left = NewBool(Truthy(left) && Truthy(right))
		}
	}
	return left, nil
}

// notexpr parses an optional logical NOT.
func (e *Evaluator) notexpr() (Value, error) {
	if e.tok().Type == token.NOT && !e.atEnd() {
		e.advance()
		v, err := e.relexpr()
		if err != nil {
			return nil, err
		}
		return NewBool(!Truthy(v)), nil
	}
	return e.relexpr()
}

// relexpr parses an optional relational comparison. BASIC spells both
// assignment and equality "=", so an ASSIGNOP in relational position is
// treated as EQUAL.
func (e *Evaluator) relexpr() (Value, error) {
	left, err := e.expr()
	if err != nil {
		return nil, err
	}

	if e.atEnd() {
		return left, nil
	}

	op := e.tok().Type
	if op == token.ASSIGNOP {
		op = token.EQUAL
	}

	switch op {
	case token.EQUAL, token.NOTEQUAL, token.LESSER, token.GREATER,
		token.LESSEQUAL, token.GREATEQUAL:
	default:
		return left, nil
	}
	e.advance()

	right, err := e.expr()
	if err != nil {
		return nil, err
	}

	switch op {
	case token.EQUAL:
		return NewBool(Equal(left, right)), nil
	case token.NOTEQUAL:
		return NewBool(!Equal(left, right)), nil
	}

	cmp, err := Compare(left, right)
	if err != nil {
		return nil, errors.WithLine(err, e.line)
	}
	switch op {
	case token.LESSER:
		return NewBool(cmp < 0), nil
	case token.GREATER:
		return NewBool(cmp > 0), nil
	case token.LESSEQUAL:
		return NewBool(cmp <= 0), nil
	}
	return NewBool(cmp >= 0), nil
}

// expr parses addition and subtraction, left-associative.
func (e *Evaluator) expr() (Value, error) {
	left, err := e.term()
	if err != nil {
		return nil, err
	}

	for !e.atEnd() && (e.tok().Type == token.PLUS || e.tok().Type == token.MINUS) {
		op := e.tok().Type
		e.advance()
		right, err := e.term()
		if err != nil {
			return nil, err
		}
		if op == token.PLUS {
			left, err = Add(left, right)
		} else {
			left, err = Sub(left, right)
		}
		if err != nil {
			return nil, errors.WithLine(err, e.line)
		}
	}
	return left, nil
}

// term parses multiplication, division and modulo, left-associative.
func (e *Evaluator) term() (Value, error) {
	left, err := e.factor(1)
	if err != nil {
		return nil, err
	}

	for !e.atEnd() && (e.tok().Type == token.TIMES || e.tok().Type == token.DIVIDE ||
		e.tok().Type == token.MODULO) {
		op := e.tok().Type
		e.advance()
		right, err := e.factor(1)
		if err != nil {
			return nil, err
		}
		switch op {
		case token.TIMES:
			left, err = Mul(left, right)
		case token.DIVIDE:
			left, err = Div(left, right)
		default:
			left, err = Mod(left, right)
		}
		if err != nil {
			return nil, errors.WithLine(err, e.line)
		}
	}
	return left, nil
}

// factor parses a signed primary. The accumulated sign applies to literals,
// variables, array elements and parenthesized expressions; function results
// are never negated by a leading sign.
func (e *Evaluator) factor(sign int64) (Value, error) {
	if e.atEnd() {
		return nil, errors.Syntax("Expecting factor in numeric expression", e.line)
	}

	t := e.tok()
	switch {
	case t.Type == token.PLUS:
		e.advance()
		return e.factor(sign)

	case t.Type == token.MINUS:
		e.advance()
		return e.factor(-sign)

	case t.Type == token.UNSIGNEDINT:
		n, err := parseInt(t.Literal)
		if err != nil {
			return nil, errors.Value("Invalid integer literal", e.line)
		}
		e.advance()
		return NewInt(sign * n), nil

	case t.Type == token.UNSIGNEDFLOAT:
		f, err := parseFloat(t.Literal)
		if err != nil {
			return nil, errors.Value("Invalid float literal", e.line)
		}
		e.advance()
		return NewFloat(float64(sign) * f), nil

	case t.Type == token.STRING:
		e.advance()
		if sign < 0 {
			return nil, errors.Type("unary minus applied to a string", e.line)
		}
		return NewStr(t.Literal), nil

	case t.Type == token.NAME:
		return e.variableFactor(t.Literal, sign)

	case t.Type == token.LEFTPAREN:
		e.advance()
		v, err := e.logexpr()
		if err != nil {
			return nil, err
		}
		if err := e.consume(token.RIGHTPAREN); err != nil {
			return nil, err
		}
		if sign < 0 {
			v, err = Negate(v)
			if err != nil {
				return nil, errors.WithLine(err, e.line)
			}
		}
		return v, nil

	case t.Type.IsFunction():
		return e.callFunction(t.Type)
	}

	return nil, errors.Newf(errors.SyntaxError, e.line,
		"Expecting factor in numeric expression, got %s", t.Literal)
}

// variableFactor resolves a NAME as either an array element access or a
// simple variable lookup. The name is an array access when an array of that
// name exists and the next token is an opening parenthesis; BASIC lets a
// simple variable and an array share a name.
func (e *Evaluator) variableFactor(name string, sign int64) (Value, error) {
	if e.symbols.HasArray(name) && e.pos+1 < len(e.tokens) &&
		e.tokens[e.pos+1].Type == token.LEFTPAREN {
		e.advance() // past the array name
		indices, err := e.indexList()
		if err != nil {
			return nil, err
		}
		a, _ := e.symbols.Array(name)
		v, err := a.Get(indices, e.line)
		if err != nil {
			return nil, err
		}
		return e.applySign(v, sign)
	}

	v, ok := e.symbols.Get(name)
	if !ok {
		return nil, errors.Newf(errors.NameError, e.line, "Name %s is not defined", name)
	}
	e.advance()
	return e.applySign(v, sign)
}

// applySign negates numeric values when sign is negative; a negated string
// is a type error.
func (e *Evaluator) applySign(v Value, sign int64) (Value, error) {
	if sign >= 0 {
		return v, nil
	}
	nv, err := Negate(v)
	if err != nil {
		return nil, errors.WithLine(err, e.line)
	}
	return nv, nil
}

// indexList parses a parenthesized, comma-separated list of integer array
// indices.
func (e *Evaluator) indexList() ([]int, error) {
	if err := e.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}

	var indices []int
	for {
		v, err := e.expr()
		if err != nil {
			return nil, err
		}
		idx, err := e.toInt(v, "Array index")
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		if e.atEnd() || e.tok().Type != token.COMMA {
			break
		}
		e.advance()
	}

	if err := e.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	return indices, nil
}
