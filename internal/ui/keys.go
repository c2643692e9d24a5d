package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Action names bindable through the mappings option.
const (
	ActionConfirm      = "confirm"
	ActionCancel       = "cancel"
	ActionToggleSelect = "toggle_select"
	ActionMoveUp       = "move_up"
	ActionMoveDown     = "move_down"
	ActionClearQuery   = "clear_query"
	ActionCycleMode    = "cycle_mode"
)

// defaultMappings are the stock key bindings. User mappings are merged
// on top key by key.
func defaultMappings() map[string]string {
	return map[string]string{
		"<cr>":   ActionConfirm,
		"<esc>":  ActionCancel,
		"<c-c>":  ActionCancel,
		"<tab>":  ActionToggleSelect,
		"<c-p>":  ActionMoveUp,
		"<c-n>":  ActionMoveDown,
		"<up>":   ActionMoveUp,
		"<down>": ActionMoveDown,
		"<c-u>":  ActionClearQuery,
		"<c-r>":  ActionCycleMode,
	}
}

// keyName normalizes a key event to the mapping notation: printable
// runes as themselves, specials in angle brackets, control chords as
// <c-x>.
func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyEnter:
		return "<cr>"
	case tcell.KeyEscape:
		return "<esc>"
	case tcell.KeyTab:
		return "<tab>"
	case tcell.KeyBacktab:
		return "<s-tab>"
	case tcell.KeyUp:
		return "<up>"
	case tcell.KeyDown:
		return "<down>"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "<bs>"
	case tcell.KeyDelete:
		return "<del>"
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return fmt.Sprintf("<a-%c>", unicode.ToLower(r))
		}
		return string(r)
	}

	// Ctrl chords arrive as dedicated key codes.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return fmt.Sprintf("<c-%c>", 'a'+rune(k-tcell.KeyCtrlA))
	}
	return strings.ToLower(fmt.Sprintf("<%s>", tcell.KeyNames[ev.Key()]))
}
