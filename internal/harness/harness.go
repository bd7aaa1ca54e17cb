package harness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/petrolc/internal/decode"
	"github.com/roach88/petrolc/internal/ir"
	"github.com/roach88/petrolc/internal/store"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`

	// Dump renders the values and routines the scenario built.
	Dump string `json:"dump"`

	// Pool reports how much the scenario allocated.
	Pool ir.PoolStats `json:"pool"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Harness holds everything one scenario run builds.
type Harness struct {
	pool     *ir.Pool
	store    *store.Store
	values   *decode.Document
	routines map[string]ir.Routine
	order    []string
}

// Run executes a scenario and returns its result.
//
// Each scenario runs in a fresh pool and a fresh in-memory store.
// Returns an error if the scenario cannot be built (bad value document,
// unknown names in a routine); assertion failures are reported in the
// result instead.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for store access.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		pool:     ir.NewPool(),
		store:    st,
		routines: make(map[string]ir.Routine),
	}

	file := scenario.Path
	if file == "" {
		file = scenario.Name
	}
	h.values, err = decode.DecodeYAMLNode(h.pool, file, &scenario.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to decode values: %w", err)
	}

	for i, def := range scenario.Routines {
		if err := h.buildRoutine(def); err != nil {
			return nil, fmt.Errorf("routines[%d]: %w", i, err)
		}
	}

	result := NewResult()
	for i, a := range scenario.Assertions {
		if err := h.evaluate(ctx, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}

	result.Dump = h.dump(scenario)
	result.Pool = h.pool.Stats()

	slog.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"values", len(h.values.Values),
		"routines", len(h.order),
	)
	return result, nil
}

// buildRoutine runs a routine definition through a fresh builder. Names
// are resolved before they reach the builder, so a bad definition is an
// error rather than a builder panic.
func (h *Harness) buildRoutine(def RoutineDef) error {
	if _, dup := h.routines[def.Name]; dup {
		return fmt.Errorf("routine %s is defined twice", def.Name)
	}

	b := ir.NewBuilder()
	locals := make(map[string]ir.Local)

	params := make([]ir.Local, len(def.Params))
	for i, name := range def.Params {
		if _, dup := locals[name]; dup {
			return fmt.Errorf("routine %s: parameter %s declared twice", def.Name, name)
		}
		params[i] = b.Parameter()
		locals[name] = params[i]
	}

	for j, step := range def.Steps {
		args := make([]ir.Simple, len(step.Args))
		for k, arg := range step.Args {
			op, err := h.operand(b, locals, arg)
			if err != nil {
				return fmt.Errorf("routine %s: steps[%d]: %w", def.Name, j, err)
			}
			args[k] = op
		}
		if _, dup := locals[step.Let]; dup {
			return fmt.Errorf("routine %s: steps[%d]: %s is already bound", def.Name, j, step.Let)
		}
		locals[step.Let] = b.CallRoutine(ir.Global(step.Call), args).(ir.Local)
	}

	result, err := h.operand(b, locals, def.Result)
	if err != nil {
		return fmt.Errorf("routine %s: result: %w", def.Name, err)
	}

	r := b.Routine(h.pool, ir.Global(def.Name), params, result)
	if err := r.Validate(); err != nil {
		return err
	}
	h.routines[def.Name] = r
	h.order = append(h.order, def.Name)
	return nil
}

func (h *Harness) operand(b *ir.Builder, locals map[string]ir.Local, s string) (ir.Simple, error) {
	if name, ok := strings.CutPrefix(s, "'"); ok {
		v, err := h.value(name)
		if err != nil {
			return nil, err
		}
		return b.Quote(v), nil
	}
	l, ok := locals[s]
	if !ok {
		return nil, fmt.Errorf("unknown local %s", s)
	}
	return b.Local(l), nil
}

func (h *Harness) value(name string) (*ir.Value, error) {
	v, ok := h.values.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown value %s", name)
	}
	return v, nil
}

// dump renders the scenario's values and routines.
func (h *Harness) dump(scenario *Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenario.Name)

	b.WriteString("values:\n")
	for _, n := range h.values.Values {
		fmt.Fprintf(&b, "  %s = %s\n", n.Name, n.Value)
	}

	if len(h.order) > 0 {
		b.WriteString("routines:\n")
		for _, name := range h.order {
			b.WriteString(h.routines[name].String())
		}
	}
	return b.String()
}
