// Package config resolves picker options from layered sources.
//
// Options are merged in increasing precedence: built-in spec defaults,
// theme preset, user global config, then call-site options. The merge
// is non-destructive and key-by-key for nested mapping values, so a
// caller overriding one keymap entry keeps the rest of the preset.
//
// User global config is a TOML file; theme presets are Lua chunks
// returning a table of per-picker option tables. Both load into plain
// nested maps and are type-checked once, when the merged result is
// decoded into Options at dispatch time.
package config
