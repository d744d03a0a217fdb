package rank

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine evaluates scoring formulas. Compiled programs are cached per
// formula since the same formula runs once per product.
type Engine struct {
	mu           sync.RWMutex
	programCache map[string]*vm.Program
}

func NewEngine() *Engine {
	return &Engine{programCache: make(map[string]*vm.Program)}
}

// Evaluate compiles (if needed) and runs formula against env, coercing the
// result to a float64 score.
func (e *Engine) Evaluate(formula string, env map[string]any) (float64, error) {
	program, err := e.getProgram(formula, env)
	if err != nil {
		return 0, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("failed to run formula: %w", err)
	}
	return toFloat(out)
}

// Validate checks that formula compiles against env without running it.
func (e *Engine) Validate(formula string, env map[string]any) error {
	_, err := e.getProgram(formula, env)
	return err
}

func (e *Engine) getProgram(formula string, env map[string]any) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[formula]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if prog, ok := e.programCache[formula]; ok {
		return prog, nil
	}
	program, err := expr.Compile(formula, expr.Env(env))
	if err != nil {
		return nil, fmt.Errorf("failed to compile formula '%v': %w", formula, err)
	}
	e.programCache[formula] = program
	return program, nil
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	}
	return 0, fmt.Errorf("formula must yield a number, got %T", v)
}
