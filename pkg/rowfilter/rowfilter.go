// Package rowfilter compiles and evaluates CEL predicates over cleaned
// stroke rows, so a run can keep a subset of the dataset without custom
// code.
//
// Expressions see one row at a time through flat variables:
//
//	sessionId    string
//	direction    string ("up" or "down")
//	splitGps     string (raw head-unit value)
//	distanceGps  double or null
//	strokeRate   double or null
//	extra        map(string, string) of passthrough columns
//
// plus the helper functions registered in funcs.go. Example:
//
//	direction == "up" && isNotNull(strokeRate) && strokeRate >= 20.0
package rowfilter

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/oarlog/oarlog/pkg/telemetry"
)

// CompileError reports a filter expression that did not compile or does
// not produce a bool.
type CompileError struct {
	// Source is the original expression text.
	Source string

	// Err is the underlying CEL error.
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile filter: %v (expr: %s)", e.Err, e.Source)
}

// Unwrap returns the underlying error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Env declares the filter environment: one variable per row field plus the
// row helper library.
func Env() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("sessionId", cel.StringType),
		cel.Variable("direction", cel.StringType),
		cel.Variable("splitGps", cel.StringType),
		cel.Variable("distanceGps", cel.DynType),
		cel.Variable("strokeRate", cel.DynType),
		cel.Variable("extra", cel.MapType(cel.StringType, cel.StringType)),
		Lib(),
	)
}

// Compiler turns filter expressions into runnable predicates.
type Compiler struct {
	env *cel.Env
}

// NewCompiler builds a compiler over the standard filter environment.
func NewCompiler() (*Compiler, error) {
	env, err := Env()
	if err != nil {
		return nil, fmt.Errorf("build filter env: %w", err)
	}
	return &Compiler{env: env}, nil
}

// Compile checks and compiles a predicate. The expression must produce a
// bool; anything else is a *CompileError.
func (c *Compiler) Compile(expr string) (*Filter, error) {
	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, &CompileError{Source: expr, Err: issues.Err()}
	}

	if ast.OutputType() != cel.BoolType {
		return nil, &CompileError{
			Source: expr,
			Err:    fmt.Errorf("filter must return bool, got %s", ast.OutputType()),
		}
	}

	prog, err := c.env.Program(ast, cel.EvalOptions(cel.OptOptimize))
	if err != nil {
		return nil, &CompileError{Source: expr, Err: err}
	}

	return &Filter{
		source:  expr,
		program: prog,
	}, nil
}

// Filter is a compiled predicate. Safe for concurrent use.
type Filter struct {
	source  string
	program cel.Program
}

// Source returns the original expression text.
func (f *Filter) Source() string { return f.source }

// Eval applies the predicate to one row. Missing numerics evaluate as CEL
// null; expressions comparing them unguarded return an error, which callers
// treat as a dropped row.
func (f *Filter) Eval(row telemetry.StrokeRow) (bool, error) {
	a := activationPool.Get().(*rowActivation)
	a.row = row
	defer func() {
		a.row = telemetry.StrokeRow{}
		activationPool.Put(a)
	}()

	out, _, err := f.program.Eval(a)
	if err != nil {
		return false, fmt.Errorf("eval filter: %w", err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter returned %T, expected bool", out.Value())
	}
	return b, nil
}
