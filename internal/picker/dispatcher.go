package picker

import (
	"context"
	"fmt"

	"github.com/dshills/quickpick/internal/config"
)

// Call carries the caller-supplied portion of a dispatch: raw option
// overrides and an optional attach hook run against the picker's
// action surface before any key handling.
type Call struct {
	Options map[string]any
	Attach  AttachFunc
}

// Dispatcher resolves layered options and launches pickers through a
// registry. Option precedence, lowest to highest: spec defaults, theme
// preset, user global config, caller overrides.
type Dispatcher struct {
	reg *Registry
	cfg *config.Context
}

// NewDispatcher creates a dispatcher over the given registry and
// configuration context. A nil cfg means no theme or global layers.
func NewDispatcher(reg *Registry, cfg *config.Context) *Dispatcher {
	if cfg == nil {
		cfg = config.NewContext()
	}
	return &Dispatcher{reg: reg, cfg: cfg}
}

// Dispatch resolves options for the named picker and starts it.
// Option decoding errors surface here, before any producer runs;
// a dispatch that returns an instance has already begun producing.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, call Call) (*Instance, error) {
	spec, ok := d.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("picker %q: %w", name, ErrUnknownPicker)
	}

	merged := d.cfg.Resolve(name, spec.Defaults, call.Options)
	opts, err := config.Decode(merged)
	if err != nil {
		return nil, fmt.Errorf("picker %q: %w", name, err)
	}

	return d.reg.Invoke(ctx, name, opts, call.Attach)
}

// Registry exposes the underlying registry for resume and listing.
func (d *Dispatcher) Registry() *Registry {
	return d.reg
}
