// Package errs holds the tagged error taxonomy of spec.md §7
// (ConfigError, PlanError, ExecutionError; SynthesisError lives
// alongside its producer in internal/synth), following the teacher's
// internal/apply convention of a small Level/Kind enum paired with a
// struct carrying the offending detail.
package errs

import "fmt"

// ConfigError is fatal and pre-execution: malformed config, a missing
// required key, or an unreadable driver locator.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError naming the offending field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// PlanError is recoverable: a catalog query failed during schema
// expansion or size ordering. The planner logs it and proceeds with
// the explicit list in declaration order; it is never fatal.
type PlanError struct {
	Schema string
	Err    error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("plan error (schema %s): %v", e.Schema, e.Err)
}

func (e *PlanError) Unwrap() error { return e.Err }

// NewPlanError builds a PlanError naming the schema that failed to expand.
func NewPlanError(schema string, err error) *PlanError {
	return &PlanError{Schema: schema, Err: err}
}

// Side identifies which half of a CheckTask an ExecutionError belongs to.
type Side string

const (
	SideSRC Side = "src"
	SideTGT Side = "tgt"
)

// ExecutionError is per-task-per-side: connection failure, statement
// failure, or no-rows-returned. It is recorded against TaskKey+Side;
// the sibling side still runs and is reported independently.
type ExecutionError struct {
	Side Side
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error (%s): %v", e.Side, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// NewExecutionError builds an ExecutionError for the given side.
func NewExecutionError(side Side, err error) *ExecutionError {
	return &ExecutionError{Side: side, Err: err}
}
