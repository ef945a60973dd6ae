// Package filter compiles and evaluates loan filter expressions using the
// expr language, e.g.:
//
//	Renewable && Library contains "Raczyńskich"
//	DueDate < "20240301" || Owner == "Alice"
package filter

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the variable environment a filter expression is evaluated against,
// one instance per loan.
type Env struct {
	Title     string
	Author    string
	Status    string
	Library   string
	Location  string
	Barcode   string
	Owner     string
	DueDate   string
	LoanDate  string
	Renewable bool
}

// Filter is a compiled loan filter
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile compiles a filter expression against the loan environment. The
// expression must evaluate to a boolean.
func Compile(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, &CompileError{Expression: expression, Err: err}
	}
	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the source expression this filter was compiled from
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against one loan's environment
func (f *Filter) Match(env Env) (bool, error) {
	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvalError{Expression: f.expression, Title: env.Title, Err: err}
	}

	matched, ok := output.(bool)
	if !ok {
		return false, &EvalError{Expression: f.expression, Title: env.Title, Err: nil}
	}
	return matched, nil
}
