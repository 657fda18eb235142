// SPDX-License-Identifier: Apache-2.0

package policy

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/kusari-oss/readmegen/internal/core/options"
)

// Rule is an admission check written as a CEL expression over the request options.
// The expression must evaluate to true for the request to be accepted.
type Rule struct {
	Name       string `yaml:"name" json:"name" mapstructure:"name"`
	Expression string `yaml:"expression" json:"expression" mapstructure:"expression"`
	Message    string `yaml:"message,omitempty" json:"message,omitempty" mapstructure:"message"`
}

// Violation lists the rules a request failed
type Violation struct {
	Rules    []string
	Messages []string
}

func (v *Violation) Error() string {
	return "options rejected by policy: " + strings.Join(v.Messages, "; ")
}

type compiledRule struct {
	rule    Rule
	program cel.Program
}

// Evaluator holds a compiled rule set
type Evaluator struct {
	env   *cel.Env
	rules []compiledRule
}

// NewEvaluator compiles rules against an environment exposing the "options" map
func NewEvaluator(rules []Rule) (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("options", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	e := &Evaluator{env: env}
	for _, rule := range rules {
		program, err := e.compile(rule.Expression)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		e.rules = append(e.rules, compiledRule{rule: rule, program: program})
	}

	return e, nil
}

func (e *Evaluator) compile(expression string) (cel.Program, error) {
	ast, issues := e.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error parsing expression: %w", issues.Err())
	}

	checked, issues := e.env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error type-checking expression: %w", issues.Err())
	}

	out := checked.OutputType()
	if !out.IsExactType(types.BoolType) && !out.IsExactType(types.DynType) {
		return nil, fmt.Errorf("expression must evaluate to a boolean, got %s", out)
	}

	program, err := e.env.Program(checked)
	if err != nil {
		return nil, fmt.Errorf("error compiling expression: %w", err)
	}
	return program, nil
}

// Rules returns the rules the evaluator was built with
func (e *Evaluator) Rules() []Rule {
	rules := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		rules = append(rules, r.rule)
	}
	return rules
}

// Check evaluates every rule against opts and returns a *Violation when any fails
func (e *Evaluator) Check(opts options.GenerationOptions) error {
	vars := map[string]interface{}{
		"options": opts.ToMap(),
	}

	var violation *Violation
	for _, r := range e.rules {
		ok, err := evalBool(r.program, vars)
		if err != nil {
			return fmt.Errorf("error evaluating rule %q: %w", r.rule.Name, err)
		}
		if ok {
			continue
		}
		if violation == nil {
			violation = &Violation{}
		}
		msg := r.rule.Message
		if msg == "" {
			msg = fmt.Sprintf("rule %s failed", r.rule.Name)
		}
		violation.Rules = append(violation.Rules, r.rule.Name)
		violation.Messages = append(violation.Messages, msg)
	}

	if violation != nil {
		return violation
	}
	return nil
}

func evalBool(program cel.Program, vars map[string]interface{}) (bool, error) {
	result, _, err := program.Eval(vars)
	if err != nil {
		return false, err
	}
	if result.Type() != types.BoolType {
		return false, fmt.Errorf("expression did not evaluate to a boolean")
	}
	return result.Value().(bool), nil
}
