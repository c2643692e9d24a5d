package config

import (
	"fmt"

	"github.com/dshills/quickpick/internal/picker/match"
)

// Context holds the loaded configuration layers above spec defaults:
// theme presets and user global per-picker config. It is created at
// startup and passed explicitly to the dispatcher; there is no ambient
// global configuration.
type Context struct {
	theme  map[string]map[string]any
	global map[string]map[string]any
}

// NewContext creates an empty configuration context.
func NewContext() *Context {
	return &Context{
		theme:  make(map[string]map[string]any),
		global: make(map[string]map[string]any),
	}
}

// SetThemePresets installs per-picker theme preset tables.
func (c *Context) SetThemePresets(m map[string]map[string]any) {
	if m != nil {
		c.theme = m
	}
}

// SetGlobal installs per-picker user global config tables.
func (c *Context) SetGlobal(m map[string]map[string]any) {
	if m != nil {
		c.global = m
	}
}

// Resolve merges option layers for a picker in increasing precedence:
// spec defaults < theme preset < user global < call-site options.
// The result is a fresh map; no input layer is modified.
func (c *Context) Resolve(name string, defaults, caller map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, layer := range []map[string]any{defaults, c.theme[name], c.global[name], caller} {
		merged = DeepMerge(merged, layer)
	}
	return merged
}

// Options is the decoded, type-checked form of a merged option map.
type Options struct {
	// Cwd is the search root.
	Cwd string

	// DefaultText prefills the query at dispatch.
	DefaultText string

	// CachePicker retains the instance in the resume cache.
	CachePicker bool

	// MaxResults bounds the result stream; 0 means unbounded.
	MaxResults int

	// Mode is the initial matching mode.
	Mode match.Mode

	// IncludeHidden includes dot-files in file walks.
	IncludeHidden bool

	// Pattern is the producer-side search pattern for grep-style pickers.
	Pattern string

	// Mappings are key binding overrides, merged key-by-key.
	Mappings map[string]string

	// Extra holds unrecognized keys for picker-specific producers.
	Extra map[string]any
}

// Decode converts a merged option map into Options.
// Type mismatches fail here, before any task starts.
func Decode(m map[string]any) (Options, error) {
	opts := Options{
		CachePicker: true,
		Mappings:    make(map[string]string),
		Extra:       make(map[string]any),
	}

	for key, val := range m {
		var err error
		switch key {
		case "cwd":
			opts.Cwd, err = asString(key, val)
		case "default_text":
			opts.DefaultText, err = asString(key, val)
		case "cache_picker":
			opts.CachePicker, err = asBool(key, val)
		case "max_results":
			opts.MaxResults, err = asInt(key, val)
		case "mode":
			var s string
			if s, err = asString(key, val); err == nil {
				opts.Mode, err = match.ParseMode(s)
			}
		case "include_hidden":
			opts.IncludeHidden, err = asBool(key, val)
		case "pattern":
			opts.Pattern, err = asString(key, val)
		case "mappings":
			opts.Mappings, err = asStringMap(key, val)
		default:
			opts.Extra[key] = val
		}
		if err != nil {
			return Options{}, err
		}
	}

	if opts.MaxResults < 0 {
		return Options{}, fmt.Errorf("option max_results: must not be negative, got %d", opts.MaxResults)
	}

	return opts, nil
}

func asString(key string, val any) (string, error) {
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("option %s: expected string, got %T", key, val)
	}
	return s, nil
}

func asBool(key string, val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("option %s: expected bool, got %T", key, val)
	}
	return b, nil
}

// asInt accepts the integer representations produced by the TOML and
// Lua loaders as well as plain Go ints from call sites.
func asInt(key string, val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("option %s: expected integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("option %s: expected integer, got %T", key, val)
	}
}

func asStringMap(key string, val any) (map[string]string, error) {
	m, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("option %s: expected table, got %T", key, val)
	}

	out := make(map[string]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("option %s.%s: expected string, got %T", key, k, v)
		}
		out[k] = s
	}
	return out, nil
}
