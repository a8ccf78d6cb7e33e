package form

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Required rejects nil, empty strings and empty slices.
type Required struct {
	Message string
}

func (r Required) Validate(v any) error {
	empty := false
	switch val := v.(type) {
	case nil:
		empty = true
	case string:
		empty = val == ""
	case []string:
		empty = len(val) == 0
	}
	if !empty {
		return nil
	}
	if r.Message != "" {
		return errors.New(r.Message)
	}
	return errors.New("Value is required.")
}

// Length constrains string length. Zero bounds are not enforced.
type Length struct {
	Min int
	Max int
}

func (l Length) Validate(v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	n := len([]rune(s))
	if l.Min > 0 && n < l.Min {
		return fmt.Errorf("Value must be at least %d characters long.", l.Min)
	}
	if l.Max > 0 && n > l.Max {
		return fmt.Errorf("Value must be at most %d characters long.", l.Max)
	}
	return nil
}

// Pattern matches non-empty strings against a regular expression.
type Pattern struct {
	Regexp  *regexp.Regexp
	Message string
}

func (p Pattern) Validate(v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	if p.Regexp.MatchString(s) {
		return nil
	}
	if p.Message != "" {
		return errors.New(p.Message)
	}
	return fmt.Errorf("Value does not match the required format %s.", p.Regexp)
}

// ExpressionRule evaluates a compiled boolean expression against the
// submitted value, available as "value" in the environment.
type ExpressionRule struct {
	program *vm.Program
	message string
}

// NewExpressionRule compiles the rule source once at schema definition
// time. Compilation failures are configuration errors.
func NewExpressionRule(src, message string) (*ExpressionRule, error) {
	program, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", src, err)
	}
	if message == "" {
		message = "Value is not acceptable."
	}
	return &ExpressionRule{program: program, message: message}, nil
}

func (r *ExpressionRule) Validate(v any) error {
	out, err := vm.Run(r.program, map[string]any{"value": v})
	if err != nil {
		return fmt.Errorf("rule evaluation: %w", err)
	}
	if ok, _ := out.(bool); !ok {
		return errors.New(r.message)
	}
	return nil
}
