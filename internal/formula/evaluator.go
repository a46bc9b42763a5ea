// Package formula evaluates the small arithmetic expressions attached to
// modifiers. Only numeric literals, + - * /, unary signs, parentheses and one
// substituted variable are accepted; anything else is rejected.
package formula

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormula reports a malformed or disallowed expression.
	ErrInvalidFormula = errors.New("invalid formula")
	// ErrDivisionByZero reports a zero denominator.
	ErrDivisionByZero = errors.New("division by zero")
)

// Variables are the names substituted by the evaluation value.
var Variables = []string{"income", "minutes", "progress", "cash"}

func isVariable(name string) bool {
	for _, v := range Variables {
		if v == name {
			return true
		}
	}
	return false
}

// Evaluate computes expr with every variable replaced by value.
func Evaluate(expr string, value float64) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, fmt.Errorf("%w: empty expression", ErrInvalidFormula)
	}
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidFormula, expr, err)
	}
	result, err := eval(node, value)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", expr, err)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %q does not evaluate to a finite number", ErrInvalidFormula, expr)
	}
	return result, nil
}

func eval(node ast.Expr, value float64) (float64, error) {
	switch n := node.(type) {
	case *ast.ParenExpr:
		return eval(n.X, value)

	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return 0, fmt.Errorf("%w: unsupported literal %s", ErrInvalidFormula, n.Value)
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: bad number %s", ErrInvalidFormula, n.Value)
		}
		return f, nil

	case *ast.Ident:
		if !isVariable(n.Name) {
			return 0, fmt.Errorf("%w: unknown identifier %s", ErrInvalidFormula, n.Name)
		}
		return value, nil

	case *ast.UnaryExpr:
		operand, err := eval(n.X, value)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return operand, nil
		case token.SUB:
			return -operand, nil
		}
		return 0, fmt.Errorf("%w: unsupported unary operator %s", ErrInvalidFormula, n.Op)

	case *ast.BinaryExpr:
		switch n.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO:
		default:
			return 0, fmt.Errorf("%w: unsupported operator %s", ErrInvalidFormula, n.Op)
		}
		left, err := eval(n.X, value)
		if err != nil {
			return 0, err
		}
		right, err := eval(n.Y, value)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return left + right, nil
		case token.SUB:
			return left - right, nil
		case token.MUL:
			return left * right, nil
		default:
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			return left / right, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported syntax %T", ErrInvalidFormula, node)
}
