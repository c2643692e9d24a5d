// Package ui renders a picker instance in the terminal: a prompt, a
// ranked result list with match highlighting, and key-driven
// selection. The view is the consumer side of an instance; it never
// blocks producers.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickpick/internal/picker"
	"github.com/dshills/quickpick/internal/picker/match"
	"github.com/dshills/quickpick/internal/picker/stream"
)

// refreshInterval paces redraws while the producer is still emitting.
const refreshInterval = 80 * time.Millisecond

// View drives one picker instance on a tcell screen.
type View struct {
	screen tcell.Screen
	in     *picker.Instance

	mu       sync.Mutex
	queryBuf []rune
	mode     match.Mode
	cursor   int
	offset   int
	ranked   []stream.Ranked
	mappings map[string]string
	bound    map[string]func()

	quit      bool
	confirmed []stream.Item
}

// NewView creates a view for the instance on the given screen. The
// screen must already be initialized; tests pass a simulation screen.
func NewView(screen tcell.Screen, in *picker.Instance) *View {
	q := in.Query()
	mappings := defaultMappings()
	for k, v := range in.Options().Mappings {
		mappings[k] = v
	}

	v := &View{
		screen:   screen,
		in:       in,
		queryBuf: []rune(q.Text),
		mode:     q.Mode,
		mappings: mappings,
		bound:    make(map[string]func()),
	}
	if attach := in.Attach(); attach != nil {
		attach(&actions{view: v})
	}
	return v
}

// Run processes events until confirm or cancel and returns the chosen
// items. Cancel returns a nil slice and no error; the instance keeps
// its collected results for resume.
func (v *View) Run() ([]stream.Item, error) {
	stopRefresh := v.refreshLoop()
	defer stopRefresh()

	v.rerank()
	v.draw()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil, fmt.Errorf("screen closed")
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			v.handleKey(ev)
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventInterrupt:
			v.rerank()
		}

		v.mu.Lock()
		quit := v.quit
		confirmed := v.confirmed
		v.mu.Unlock()
		if quit {
			return confirmed, nil
		}
		v.draw()
	}
}

// refreshLoop posts interrupt events while the producer runs so the
// list grows on screen without user input.
func (v *View) refreshLoop() (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-v.in.Done():
				_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
				return
			case <-ticker.C:
				_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()
	return func() { close(done) }
}

func (v *View) handleKey(ev *tcell.EventKey) {
	name := keyName(ev)

	v.mu.Lock()
	fn, isBound := v.bound[name]
	action, isMapped := v.mappings[name]
	v.mu.Unlock()

	if isBound {
		fn()
		return
	}
	if isMapped {
		v.runAction(action)
		return
	}

	switch name {
	case "<bs>":
		v.mu.Lock()
		if len(v.queryBuf) > 0 {
			v.queryBuf = v.queryBuf[:len(v.queryBuf)-1]
		}
		v.mu.Unlock()
		v.applyQuery()
	default:
		if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModAlt == 0 {
			v.mu.Lock()
			v.queryBuf = append(v.queryBuf, ev.Rune())
			v.mu.Unlock()
			v.applyQuery()
		}
	}
}

func (v *View) runAction(action string) {
	switch action {
	case ActionConfirm:
		v.Confirm()
	case ActionCancel:
		v.Cancel()
	case ActionToggleSelect:
		v.ToggleSelect()
	case ActionMoveUp:
		v.move(-1)
	case ActionMoveDown:
		v.move(1)
	case ActionClearQuery:
		v.mu.Lock()
		v.queryBuf = v.queryBuf[:0]
		v.mu.Unlock()
		v.applyQuery()
	case ActionCycleMode:
		v.cycleMode()
	}
}

// Confirm finishes the picker with the multi-selection, or the row
// under the cursor when nothing is selected.
func (v *View) Confirm() {
	st := v.in.Stream()

	v.mu.Lock()
	defer v.mu.Unlock()

	var items []stream.Item
	for _, idx := range st.SelectedIndices() {
		if it, ok := st.At(idx); ok {
			items = append(items, it)
		}
	}
	if len(items) == 0 && v.cursor < len(v.ranked) {
		if it, ok := st.At(v.ranked[v.cursor].Index); ok {
			items = append(items, it)
		}
	}

	v.confirmed = items
	v.quit = true
}

// Cancel stops the producer and closes the view without a choice.
func (v *View) Cancel() {
	v.in.Cancel()

	v.mu.Lock()
	v.quit = true
	v.confirmed = nil
	v.mu.Unlock()
}

// ToggleSelect flips the multi-selection state of the current row and
// advances the cursor.
func (v *View) ToggleSelect() {
	v.mu.Lock()
	if v.cursor < len(v.ranked) {
		v.in.Stream().ToggleSelect(v.ranked[v.cursor].Index)
	}
	v.mu.Unlock()
	v.move(1)
}

// Bind registers an extra key handler. Bound keys win over mapped
// actions and query editing.
func (v *View) Bind(key string, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bound[key] = fn
}

// actions adapts the view for attach hooks without exposing rendering.
type actions struct {
	view *View
}

func (a *actions) Confirm()                   { a.view.Confirm() }
func (a *actions) Cancel()                    { a.view.Cancel() }
func (a *actions) ToggleSelect()              { a.view.ToggleSelect() }
func (a *actions) Bind(key string, fn func()) { a.view.Bind(key, fn) }

func (v *View) move(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if n := len(v.ranked); v.cursor >= n && n > 0 {
		v.cursor = n - 1
	}
}

func (v *View) cycleMode() {
	v.mu.Lock()
	switch v.mode {
	case match.ModeFuzzy:
		v.mode = match.ModeRegex
	case match.ModeRegex:
		v.mode = match.ModeExact
	default:
		v.mode = match.ModeFuzzy
	}
	v.mu.Unlock()
	v.applyQuery()
}

// applyQuery pushes the edited query to the instance and reranks.
func (v *View) applyQuery() {
	v.mu.Lock()
	q := match.Query{Text: string(v.queryBuf), Mode: v.mode}
	v.mu.Unlock()

	v.in.SetQuery(q)
	v.rerank()
}

// rerank refreshes the ranked view. Regex queries rank lazily: an
// invalid in-progress pattern keeps the previous list.
func (v *View) rerank() {
	ranked, err := v.in.Rank()
	if err != nil {
		return
	}

	v.mu.Lock()
	v.ranked = ranked
	if v.cursor >= len(ranked) {
		v.cursor = 0
	}
	v.mu.Unlock()
}

// Ranked returns the rows currently shown, top first.
func (v *View) Ranked() []stream.Ranked {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]stream.Ranked, len(v.ranked))
	copy(out, v.ranked)
	return out
}

// QueryText returns the prompt contents.
func (v *View) QueryText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return string(v.queryBuf)
}
