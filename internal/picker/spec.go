package picker

import (
	"fmt"

	"github.com/dshills/quickpick/internal/config"
	"github.com/dshills/quickpick/internal/producer"
)

// Spec is an immutable picker descriptor: a unique name, the producer
// kind, default options, and a factory building a producer for a set
// of resolved options. Specs are registered once at startup and never
// mutated.
type Spec struct {
	// Name is the unique registry key.
	Name string

	// Kind describes how the producer generates items.
	Kind producer.Kind

	// Defaults are the spec-level default options, the lowest
	// precedence layer of the option merge.
	Defaults map[string]any

	// New builds a producer for one invocation with resolved options.
	New func(opts config.Options) (producer.Producer, error)
}

// validate checks a spec at registration time.
func (s *Spec) validate() error {
	if s == nil {
		return fmt.Errorf("nil spec")
	}
	if s.Name == "" {
		return fmt.Errorf("spec has empty name")
	}
	if s.New == nil {
		return fmt.Errorf("picker %q: spec has nil producer factory", s.Name)
	}
	return nil
}

// Actions is the selection primitive set a consumer exposes to
// attach-mappings hooks: confirm or cancel the picker, toggle the
// multi-selection state of the current row, and bind extra keys.
type Actions interface {
	Confirm()
	Cancel()
	ToggleSelect()
	Bind(key string, fn func())
}

// AttachFunc is a caller hook invoked by the consumer with the
// instance's action set before interaction starts. It may register
// additional key bindings or override default confirm/cancel behavior.
type AttachFunc func(Actions)
