package yamltable

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aretw0/stateworks/pkg/dispatch"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/table"
)

// Machine is a compiled document, ready to hand to stateworks.New.
type Machine struct {
	Name     string
	Table    *table.Table
	Registry *dispatch.Registry
	MaxSteps int
}

// Definition translates the document into a raw table definition.
// Condition syntax errors of every state are reported together.
func (d *Document) Definition() (table.Definition, error) {
	def := table.Definition{
		Initial:  domain.StateID(d.Initial),
		Events:   toTags[domain.EventTag](d.Events),
		Statics:  toTags[domain.StaticTag](d.Statics),
		Declared: toTags[domain.StateID](d.Declare),
	}

	var errs []error
	for i, g := range d.Globals {
		in, err := g.compile()
		if err != nil {
			errs = append(errs, fmt.Errorf("globals[%d]: %w", i, err))
			continue
		}
		def.Globals = append(def.Globals, in)
	}

	for _, s := range d.States {
		spec := domain.StateSpec{
			ID:    domain.StateID(s.ID),
			Name:  s.Name,
			Entry: toTags[domain.Action](s.Entry),
			Exit:  toTags[domain.Action](s.Exit),
		}
		for i, in := range s.Inputs {
			ia, err := in.compile()
			if err != nil {
				errs = append(errs, fmt.Errorf("state %q: inputs[%d]: %w", s.ID, i, err))
				continue
			}
			spec.Inputs = append(spec.Inputs, ia)
		}
		for i, tr := range s.Transitions {
			cond, err := decodeCondition(tr.When)
			if err != nil {
				errs = append(errs, fmt.Errorf("state %q: transitions[%d]: %w", s.ID, i, err))
				continue
			}
			spec.Transitions = append(spec.Transitions, domain.Transition{
				Condition: cond,
				To:        domain.StateID(tr.To),
				Actions:   toTags[domain.Action](tr.Do),
			})
		}
		def.States = append(def.States, spec)
	}

	if len(errs) > 0 {
		return table.Definition{}, fmt.Errorf("%w: %w", ErrInvalidDocument, &domain.AggregateError{Errors: errs})
	}
	return def, nil
}

func (in InputDoc) compile() (domain.InputAction, error) {
	if in.Do == "" {
		return domain.InputAction{}, fmt.Errorf("input action without 'do'")
	}
	cond, err := decodeCondition(in.When)
	if err != nil {
		return domain.InputAction{}, err
	}
	return domain.InputAction{Condition: cond, Action: domain.Action(in.Do)}, nil
}

// Table builds and validates the table of the document.
func (d *Document) Table() (*table.Table, error) {
	def, err := d.Definition()
	if err != nil {
		return nil, err
	}
	return table.New(def)
}

// Registry builds the dispatch mapping declared under "bindings".
// Print bindings write to out.
func (d *Document) Registry(out io.Writer) (*dispatch.Registry, error) {
	if out == nil {
		out = io.Discard
	}
	reg := dispatch.NewRegistry()

	names := make([]string, 0, len(d.Bindings))
	for name := range d.Bindings {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		b := d.Bindings[name]
		h, err := b.handler(out)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", name, err))
			continue
		}
		policy, err := ParsePolicy(b.Policy)
		if err != nil {
			errs = append(errs, fmt.Errorf("binding %q: %w", name, err))
			continue
		}
		reg.Register(domain.Action(name), h, dispatch.WithPolicy(policy))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, &domain.AggregateError{Errors: errs})
	}
	return reg, nil
}

func (b Binding) handler(out io.Writer) (dispatch.Handler, error) {
	needKey := func() error {
		if b.Key == "" {
			return fmt.Errorf("op %q requires a key", b.Op)
		}
		return nil
	}
	needTag := func() error {
		if b.Tag == "" {
			return fmt.Errorf("op %q requires a tag", b.Op)
		}
		return nil
	}

	switch strings.ToLower(b.Op) {
	case "increment":
		return dispatch.Increment(b.Key), needKey()
	case "add":
		return dispatch.Add(b.Key, b.Delta), needKey()
	case "reset":
		return dispatch.Reset(b.Key), needKey()
	case "read":
		return dispatch.ReadCounter(b.Key), needKey()
	case "raise":
		return dispatch.Raise(domain.StaticTag(b.Tag)), needTag()
	case "lower":
		return dispatch.Lower(domain.StaticTag(b.Tag)), needTag()
	case "print":
		return dispatch.Print(out, b.Message), nil
	case "noop", "":
		return dispatch.Noop(), nil
	default:
		return nil, fmt.Errorf("unknown op %q", b.Op)
	}
}

// ParsePolicy maps a policy name to a domain.FailurePolicy. Empty means propagate.
func ParsePolicy(s string) (domain.FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "propagate":
		return domain.PolicyPropagate, nil
	case "continue":
		return domain.PolicyContinue, nil
	case "abort":
		return domain.PolicyAbort, nil
	default:
		return domain.PolicyPropagate, fmt.Errorf("unknown failure policy %q", s)
	}
}

// Compile turns a document into a validated Machine.
func Compile(d *Document, out io.Writer) (*Machine, error) {
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}
	reg, err := d.Registry(out)
	if err != nil {
		return nil, err
	}
	name := d.Name
	if name == "" {
		name = d.Initial
	}
	return &Machine{Name: name, Table: tbl, Registry: reg, MaxSteps: d.MaxSteps}, nil
}

// LoadMachine reads and compiles a table file.
func LoadMachine(path string, out io.Writer) (*Machine, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(doc, out)
}

func toTags[T ~string](in []string) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	for i, s := range in {
		out[i] = T(s)
	}
	return out
}
