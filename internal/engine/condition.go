package engine

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// EvaluateCondition compiles and runs a `when:` expression against the
// host facts, vars and env maps. The expression must produce a boolean.
func EvaluateCondition(cond string, env map[string]any) (bool, error) {
	program, err := expr.Compile(cond, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile '%s': %w", cond, err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate '%s': %w", cond, err)
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition '%s' did not produce a boolean", cond)
	}
	return b, nil
}
