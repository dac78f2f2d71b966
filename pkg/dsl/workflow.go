// Package dsl implements a YAML workflow language for scripted SAP GUI
// automation. A workflow is a named sequence of steps, each step invoking
// one automation keyword with string arguments. Step outputs can be saved
// into variables and referenced by later steps with ${var}.
package dsl

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toni-ramchandani/sapient-mcp/pkg/sapgui"
)

// Workflow represents a YAML-defined workflow.
type Workflow struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	Steps       []Step            `yaml:"steps"`
}

// Step represents a single step in a workflow. Action is an automation
// keyword in either human ("Fill Text Field") or normalized
// (fill_text_field) form.
type Step struct {
	Name      string   `yaml:"name,omitempty"`
	Action    string   `yaml:"action"`
	Args      []string `yaml:"args,omitempty"`
	SaveAs    string   `yaml:"saveAs,omitempty"`
	Condition string   `yaml:"condition,omitempty"`
	OnFailure string   `yaml:"onFailure,omitempty"` // fail (default), continue, skip
}

// Result represents the outcome of a workflow execution.
type Result struct {
	Name        string            `json:"name"`
	Success     bool              `json:"success"`
	StepResults []StepResult      `json:"stepResults"`
	Variables   map[string]string `json:"variables"`
	Error       string            `json:"error,omitempty"`
}

// StepResult represents the outcome of a single step.
type StepResult struct {
	Name       string `json:"name"`
	Action     string `json:"action"`
	Success    bool   `json:"success"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skipReason,omitempty"`
}

// Runner executes workflows against a SAP GUI session.
type Runner struct {
	session *sapgui.Session
}

// NewRunner creates a workflow runner bound to a session.
func NewRunner(session *sapgui.Session) *Runner {
	return &Runner{session: session}
}

// LoadWorkflow loads a workflow from a YAML file.
func (r *Runner) LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}
	return r.ParseWorkflow(data)
}

// ParseWorkflow parses a workflow from YAML data.
func (r *Runner) ParseWorkflow(data []byte) (*Workflow, error) {
	var workflow Workflow
	if err := yaml.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("parsing workflow: %w", err)
	}
	if len(workflow.Steps) == 0 {
		return nil, fmt.Errorf("workflow %q has no steps", workflow.Name)
	}
	for i, step := range workflow.Steps {
		if strings.TrimSpace(step.Action) == "" {
			return nil, fmt.Errorf("workflow %q: step %d has no action", workflow.Name, i+1)
		}
	}
	return &workflow, nil
}

// ExecuteOption configures workflow execution.
type ExecuteOption func(*ExecutionContext)

// WithVariables sets additional variables, overriding workflow defaults.
func WithVariables(vars map[string]string) ExecuteOption {
	return func(ec *ExecutionContext) {
		for k, v := range vars {
			ec.SetVariable(k, v)
		}
	}
}

// WithDryRun enables dry-run mode: steps are expanded and reported but
// never sent to the automation engine.
func WithDryRun(dryRun bool) ExecuteOption {
	return func(ec *ExecutionContext) {
		ec.SetDryRun(dryRun)
	}
}

// Execute runs a workflow step by step. A step failure stops the run
// unless the step declares onFailure continue or skip. The returned error
// is reserved for infrastructure problems; step failures are reported in
// the Result.
func (r *Runner) Execute(ctx context.Context, workflow *Workflow, opts ...ExecuteOption) (*Result, error) {
	execCtx := NewExecutionContext(ctx, r.session)

	// Workflow variables first so options can override them.
	for k, v := range workflow.Variables {
		execCtx.SetVariable(k, v)
	}
	for _, opt := range opts {
		opt(execCtx)
	}

	result := &Result{
		Name:        workflow.Name,
		Success:     true,
		StepResults: make([]StepResult, 0, len(workflow.Steps)),
		Variables:   map[string]string{},
	}

	for i, step := range workflow.Steps {
		stepName := step.Name
		if stepName == "" {
			stepName = fmt.Sprintf("step_%d_%s", i+1, sapgui.NormalizeKeyword(step.Action))
		}

		stepResult := StepResult{
			Name:   stepName,
			Action: step.Action,
		}

		if step.Condition != "" && !evaluateCondition(execCtx, step.Condition) {
			stepResult.Skipped = true
			stepResult.SkipReason = "condition not met"
			stepResult.Success = true
			result.StepResults = append(result.StepResults, stepResult)
			continue
		}

		args := make([]string, len(step.Args))
		for j, arg := range step.Args {
			args[j] = expandValue(execCtx, arg)
		}

		var output string
		var err error
		if execCtx.IsDryRun() {
			output = fmt.Sprintf("[dry-run] %s %v", step.Action, args)
		} else {
			output, err = r.session.Execute(execCtx.Context(), step.Action, args...)
		}
		if err != nil {
			stepResult.Error = err.Error()

			switch step.OnFailure {
			case "continue":
				result.StepResults = append(result.StepResults, stepResult)
				continue
			case "skip":
				stepResult.Skipped = true
				stepResult.SkipReason = "skipped due to error"
				result.StepResults = append(result.StepResults, stepResult)
				continue
			default: // fail
				result.StepResults = append(result.StepResults, stepResult)
				result.Success = false
				result.Error = fmt.Sprintf("step '%s' failed: %s", stepName, err)
				return result, nil
			}
		}

		stepResult.Success = true
		stepResult.Output = output

		if step.SaveAs != "" {
			execCtx.SetVariable(step.SaveAs, output)
			result.Variables[step.SaveAs] = output
		}

		result.StepResults = append(result.StepResults, stepResult)
	}

	return result, nil
}

var varRef = regexp.MustCompile(`\$\{(\w+)\}`)

// expandValue replaces ${var} references with workflow variables, falling
// back to environment variables. Only ${VAR} syntax is supported; a bare
// $VAR would clash with SAP names like $TMP.
func expandValue(ec *ExecutionContext, s string) string {
	return varRef.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := ec.Variable(name); ok {
			return v
		}
		return os.Getenv(name)
	})
}

// evaluateCondition evaluates a step condition. Supported forms:
// "exists:var", "empty:var", "not_empty:var", "true", "false".
func evaluateCondition(ec *ExecutionContext, condition string) bool {
	condition = strings.TrimSpace(condition)

	if name, ok := strings.CutPrefix(condition, "exists:"); ok {
		_, exists := ec.Variable(name)
		return exists
	}
	if name, ok := strings.CutPrefix(condition, "empty:"); ok {
		v, exists := ec.Variable(name)
		return !exists || v == ""
	}
	if name, ok := strings.CutPrefix(condition, "not_empty:"); ok {
		v, exists := ec.Variable(name)
		return exists && v != ""
	}
	return condition == "true"
}
