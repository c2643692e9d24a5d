package config

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

// LoadLuaTheme evaluates a Lua theme preset file.
//
// The chunk must return a table mapping picker names to option tables:
//
//	return {
//	  find_files = { mode = "fuzzy", max_results = 200 },
//	  live_grep  = { mappings = { ["ctrl-q"] = "send-to-list" } },
//	}
//
// A missing file is not an error and yields nil.
func LoadLuaTheme(path string) (map[string]map[string]any, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	L := newThemeState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return themeFromState(L, path)
}

// ParseLuaTheme evaluates theme preset source directly. Used by tests
// and embedded presets.
func ParseLuaTheme(src string) (map[string]map[string]any, error) {
	L := newThemeState()
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	return themeFromState(L, "<string>")
}

// newThemeState creates a Lua state with only the base libraries a
// declarative preset needs. Themes have no business touching io or os.
func newThemeState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(open.fn))
		L.Push(lua.LString(open.name))
		L.Call(1, 0)
	}
	return L
}

// themeFromState converts the chunk's return value into preset tables.
func themeFromState(L *lua.LState, source string) (map[string]map[string]any, error) {
	ret := L.Get(-1)
	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("theme %s: chunk must return a table, got %s", source, ret.Type())
	}

	out := make(map[string]map[string]any)
	var convErr error
	table.ForEach(func(k, v lua.LValue) {
		if convErr != nil {
			return
		}
		name, ok := k.(lua.LString)
		if !ok {
			convErr = fmt.Errorf("theme %s: picker names must be strings, got %s", source, k.Type())
			return
		}
		opts, ok := v.(*lua.LTable)
		if !ok {
			convErr = fmt.Errorf("theme %s: preset for %q must be a table, got %s", source, string(name), v.Type())
			return
		}
		converted := luaToGo(opts)
		m, ok := converted.(map[string]any)
		if !ok {
			// Array-shaped tables make no sense as option sets.
			convErr = fmt.Errorf("theme %s: preset for %q must be a keyed table", source, string(name))
			return
		}
		out[string(name)] = m
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

// luaToGo converts a Lua value to its Go equivalent. Tables with
// contiguous integer keys starting at 1 become slices; other tables
// become string-keyed maps. Functions and userdata convert to nil.
func luaToGo(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable) any {
	maxN := 0
	isArray := true
	count := 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 {
			isArray = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})

	if isArray && maxN > 0 && count == maxN {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = luaToGo(t.RawGetInt(i))
		}
		return arr
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = luaToGo(v)
	})
	return m
}
