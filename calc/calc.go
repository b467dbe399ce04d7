package calc

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// ErrParse is the cause of every error returned by Evaluate.
var ErrParse = errors.New("calc: malformed expression")

// ParseError reports the expression that could not be evaluated and the
// offset where parsing gave up.
type ParseError struct {
	Expression string
	Offset     int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("calc: cannot parse %q at offset %d", e.Expression, e.Offset)
}

// Cause returns ErrParse so errors.Cause can be used on wrapped parse errors.
func (e *ParseError) Cause() error { return ErrParse }

func (e *ParseError) Unwrap() error { return ErrParse }

// Evaluate parses expression and returns its value.
// Either the whole expression is understood or a *ParseError is returned.
func Evaluate(expression string) (float64, error) {
	p := &parser{input: expression}

	p.skipSpace()
	result, ok := p.expr()
	if !ok {
		return 0, p.fail()
	}

	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, p.fail()
	}

	return result, nil
}

type operator byte

func (op operator) apply(lhs, rhs float64) float64 {
	switch op {
	case '+':
		return lhs + rhs
	case '-':
		return lhs - rhs
	case '*':
		return lhs * rhs
	default:
		return lhs / rhs
	}
}

type parser struct {
	input string
	pos   int

	// furthest offset reached, reported on failure
	reached int
}

func (p *parser) fail() error {
	offset := p.reached
	if p.pos > offset {
		offset = p.pos
	}
	return &ParseError{Expression: p.input, Offset: offset}
}

func (p *parser) seek(pos int) {
	p.pos = pos
	if pos > p.reached {
		p.reached = pos
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *parser) expr() (float64, bool) {
	return p.fold(p.term, '+', '-')
}

func (p *parser) term() (float64, bool) {
	return p.fold(p.value, '*', '/')
}

// fold parses operand (op operand)* and combines the operands from left to right.
func (p *parser) fold(operand func() (float64, bool), ops ...operator) (float64, bool) {
	result, ok := operand()
	if !ok {
		return 0, false
	}

	for {
		start := p.pos
		p.skipSpace()

		op, found := p.operator(ops)
		if !found {
			p.pos = start
			return result, true
		}
		p.seek(p.pos + 1)
		p.skipSpace()

		rhs, ok := operand()
		if !ok {
			return 0, false
		}
		result = op.apply(result, rhs)
	}
}

func (p *parser) operator(ops []operator) (operator, bool) {
	next := operator(p.peek())
	for _, op := range ops {
		if op == next {
			return op, true
		}
	}
	return 0, false
}

func (p *parser) value() (float64, bool) {
	if p.peek() != '(' {
		return p.number()
	}

	p.seek(p.pos + 1)
	p.skipSpace()
	result, ok := p.expr()
	if !ok {
		return 0, false
	}

	p.skipSpace()
	if p.peek() != ')' {
		return 0, false
	}
	p.seek(p.pos + 1)

	return result, true
}

// number reads the longest numeric literal at the current position.
func (p *parser) number() (float64, bool) {
	start := p.pos
	end := start

	if end < len(p.input) && p.input[end] == '-' {
		end++
	}
	digitsEnd := p.digits(end)
	if digitsEnd == end {
		return 0, false
	}
	end = digitsEnd

	if end < len(p.input) && p.input[end] == '.' {
		if fractionEnd := p.digits(end + 1); fractionEnd > end+1 {
			end = fractionEnd
		}
	}

	if end < len(p.input) && (p.input[end] == 'e' || p.input[end] == 'E') {
		exponent := end + 1
		if exponent < len(p.input) && (p.input[exponent] == '+' || p.input[exponent] == '-') {
			exponent++
		}
		if exponentEnd := p.digits(exponent); exponentEnd > exponent {
			end = exponentEnd
		}
	}

	value, err := strconv.ParseFloat(p.input[start:end], 64)
	if err != nil {
		// out of range literals still evaluate, to ±Inf or 0
		numErr, ok := err.(*strconv.NumError)
		if !ok || numErr.Err != strconv.ErrRange {
			return 0, false
		}
	}

	p.seek(end)
	return value, true
}

func (p *parser) digits(from int) int {
	for from < len(p.input) && p.input[from] >= '0' && p.input[from] <= '9' {
		from++
	}
	return from
}
