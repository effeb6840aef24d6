package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Calculator evaluates an arithmetic expression. Evaluation goes through a
// compiled expression VM with an empty environment, so no identifiers,
// function calls into user code, or side effects can occur — arithmetic and
// the whitelisted math helpers only.
type Calculator struct{}

// NewCalculator constructs the calculator tool.
func NewCalculator() *Calculator { return &Calculator{} }

// Name implements Tool.
func (t *Calculator) Name() string { return "calculator" }

// Description implements Tool.
func (t *Calculator) Description() string {
	return "Perform mathematical calculations. Input should be a math expression such as '2+2' or '(17*3)/4'."
}

// mathEnv is the only environment expressions may reference.
var mathEnv = map[string]any{
	"abs": func(x float64) float64 {
		if x < 0 {
			return -x
		}
		return x
	},
	"min": func(a, b float64) float64 {
		if a < b {
			return a
		}
		return b
	},
	"max": func(a, b float64) float64 {
		if a > b {
			return a
		}
		return b
	},
}

// Invoke implements Tool. Malformed input is a permanent evaluation error.
func (t *Calculator) Invoke(_ context.Context, input string) (string, error) {
	source := normalizeExpression(input)
	if source == "" {
		return "", NewEvaluationError(t.Name(), "empty expression")
	}

	program, err := expr.Compile(source, expr.Env(mathEnv), expr.AllowUndefinedVariables())
	if err != nil {
		return "", NewEvaluationError(t.Name(), fmt.Sprintf("cannot parse %q: %v", source, err))
	}

	result, err := expr.Run(program, mathEnv)
	if err != nil {
		return "", NewEvaluationError(t.Name(), fmt.Sprintf("cannot evaluate %q: %v", source, err))
	}

	switch v := result.(type) {
	case int:
		return fmt.Sprintf("%d", v), nil
	case float64:
		// Trim trailing zeros so 4.0 renders as 4.
		s := fmt.Sprintf("%g", v)
		return s, nil
	case bool:
		return fmt.Sprintf("%t", v), nil
	default:
		return "", NewEvaluationError(t.Name(), fmt.Sprintf("expression %q is not arithmetic", source))
	}
}

// normalizeExpression strips common natural-language framing ("what is 2+2?")
// down to the symbolic expression.
func normalizeExpression(input string) string {
	s := strings.TrimSpace(input)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"what is", "what's", "calculate", "compute", "evaluate"} {
		if strings.HasPrefix(lower, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
			break
		}
	}
	s = strings.TrimSuffix(s, "?")
	s = strings.ReplaceAll(s, "^", "**")
	return strings.TrimSpace(s)
}
