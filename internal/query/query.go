// Package query evaluates read-only expressions against a handle's node.
//
// Expressions use the expr language (github.com/expr-lang/expr). The node is
// bound as `node`; when it is a mapping its keys are also bound at top level,
// so `len(tags) > 0 && name != ""` works on a user record. Names that are
// not bound evaluate to nil.
package query

import (
	"errors"
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/roach88/pathstore/internal/store"
	"github.com/roach88/pathstore/internal/value"
)

// ErrInvalidExpression is returned when an expression is empty, does not
// compile, or fails at run time.
var ErrInvalidExpression = errors.New("invalid expression")

// NodeVar is the name the handle's node is bound to.
const NodeVar = "node"

// Evaluator compiles expressions once and reuses the programs.
//
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	programs map[string]*exprvm.Program
}

// NewEvaluator creates an Evaluator with an empty program cache.
func NewEvaluator() *Evaluator {
	return &Evaluator{programs: make(map[string]*exprvm.Program)}
}

// Evaluate runs expression against the node at h with a fresh Evaluator.
func Evaluate(h store.Handle, expression string) (any, error) {
	return NewEvaluator().Evaluate(h, expression)
}

// EvaluateNode runs expression against a node value with a fresh Evaluator.
func EvaluateNode(node any, expression string) (any, error) {
	return NewEvaluator().EvaluateNode(node, expression)
}

// Evaluate runs expression against the node at h. The document is only read.
func (e *Evaluator) Evaluate(h store.Handle, expression string) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	node, err := h.Get()
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, node)
}

// EvaluateNode runs expression against node.
func (e *Evaluator) EvaluateNode(node any, expression string) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	return e.run(program, expression, node)
}

// EvaluateEach runs expression once per element of a sequence node, each
// element bound as the node. The expression is compiled once.
func (e *Evaluator) EvaluateEach(node any, expression string) ([]any, error) {
	elems, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: evaluating each element needs a sequence, found %s",
			store.ErrTypeMismatch, value.TypeName(node))
	}
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(elems))
	for i, elem := range elems {
		result, err := e.run(program, expression, elem)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, result)
	}
	return out, nil
}

func (e *Evaluator) run(program *exprvm.Program, expression string, node any) (any, error) {
	result, err := exprlang.Run(program, Environment(node))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, expression, err)
	}
	return result, nil
}

func (e *Evaluator) compile(expression string) (*exprvm.Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", ErrInvalidExpression)
	}
	if program, ok := e.programs[expression]; ok {
		return program, nil
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExpression, expression, err)
	}
	e.programs[expression] = program
	return program, nil
}

// Environment builds the variables an expression sees for node.
func Environment(node any) map[string]any {
	env := map[string]any{}
	if m, ok := node.(map[string]any); ok {
		for key, v := range m {
			env[key] = v
		}
	}
	env[NodeVar] = node
	return env
}
