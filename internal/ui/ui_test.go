package ui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickpick/internal/config"
	"github.com/dshills/quickpick/internal/picker"
	"github.com/dshills/quickpick/internal/producer"
	"github.com/dshills/quickpick/internal/picker/stream"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	screen.SetSize(60, 16)
	t.Cleanup(screen.Fini)
	return screen
}

// newTestInstance dispatches a static picker and waits for completion
// so tests see a stable list.
func newTestInstance(t *testing.T, call picker.Call, lines ...string) *picker.Instance {
	t.Helper()
	reg := picker.NewRegistry(0)
	err := reg.Register(&picker.Spec{
		Name: "static",
		Kind: producer.KindStatic,
		New: func(config.Options) (producer.Producer, error) {
			return producer.StaticLines(lines...), nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	in, err := picker.NewDispatcher(reg, nil).Dispatch(context.Background(), "static", call)
	if err != nil {
		t.Fatal(err)
	}
	if err := in.Wait(time.Second); err != nil {
		t.Fatal(err)
	}
	return in
}

func runView(t *testing.T, v *View) <-chan []stream.Item {
	t.Helper()
	out := make(chan []stream.Item, 1)
	go func() {
		items, err := v.Run()
		if err != nil {
			t.Errorf("run: %v", err)
		}
		out <- items
	}()
	return out
}

func TestTypeFilterConfirm(t *testing.T) {
	screen := newTestScreen(t)
	in := newTestInstance(t, picker.Call{}, "alpha", "beta", "gopher")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyRune, 'g', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'o', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	items := <-done
	if len(items) != 1 || items[0].Text != "gopher" {
		t.Fatalf("confirmed = %v, want gopher", items)
	}
	if in.Query().Text != "go" {
		t.Fatalf("query = %q", in.Query().Text)
	}
}

func TestEscapeCancels(t *testing.T) {
	screen := newTestScreen(t)
	in := newTestInstance(t, picker.Call{}, "a", "b")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	if items := <-done; items != nil {
		t.Fatalf("cancel returned items: %v", items)
	}
	// Results survive cancel for resume.
	if in.Stream().Len() != 2 {
		t.Fatalf("stream len = %d", in.Stream().Len())
	}
}

func TestToggleSelectConfirmsMulti(t *testing.T) {
	screen := newTestScreen(t)
	in := newTestInstance(t, picker.Call{}, "one", "two", "three")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyTab, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	items := <-done
	if len(items) != 2 {
		t.Fatalf("confirmed %d items, want 2", len(items))
	}
	if items[0].Text != "one" || items[1].Text != "two" {
		t.Fatalf("confirmed = %v", items)
	}
}

func TestCursorMovesBeforeConfirm(t *testing.T) {
	screen := newTestScreen(t)
	in := newTestInstance(t, picker.Call{}, "first", "second")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	items := <-done
	if len(items) != 1 || items[0].Text != "second" {
		t.Fatalf("confirmed = %v, want second", items)
	}
}

func TestMappingsOverrideDefaults(t *testing.T) {
	screen := newTestScreen(t)
	call := picker.Call{
		Options: map[string]any{
			"mappings": map[string]any{"<esc>": "confirm"},
		},
	}
	in := newTestInstance(t, call, "only")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	items := <-done
	if len(items) != 1 || items[0].Text != "only" {
		t.Fatalf("remapped escape did not confirm: %v", items)
	}
}

func TestAttachBindsExtraKey(t *testing.T) {
	screen := newTestScreen(t)
	fired := false
	call := picker.Call{
		Attach: func(a picker.Actions) {
			a.Bind("<c-x>", func() {
				fired = true
				a.Cancel()
			})
		},
	}
	in := newTestInstance(t, call, "a")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyCtrlX, 0, tcell.ModNone)

	<-done
	if !fired {
		t.Fatal("bound key handler did not run")
	}
}

func TestBackspaceEditsQuery(t *testing.T) {
	screen := newTestScreen(t)
	in := newTestInstance(t, picker.Call{}, "abc")
	v := NewView(screen, in)
	done := runView(t, v)

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'y', tcell.ModNone)
	screen.InjectKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	<-done
	if in.Query().Text != "x" {
		t.Fatalf("query = %q, want %q", in.Query().Text, "x")
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want string
	}{
		{tcell.KeyEnter, 0, tcell.ModNone, "<cr>"},
		{tcell.KeyEscape, 0, tcell.ModNone, "<esc>"},
		{tcell.KeyTab, 0, tcell.ModNone, "<tab>"},
		{tcell.KeyUp, 0, tcell.ModNone, "<up>"},
		{tcell.KeyBackspace2, 0, tcell.ModNone, "<bs>"},
		{tcell.KeyCtrlN, 0, tcell.ModNone, "<c-n>"},
		{tcell.KeyRune, 'q', tcell.ModNone, "q"},
		{tcell.KeyRune, 'Q', tcell.ModNone, "Q"},
		{tcell.KeyRune, 'x', tcell.ModAlt, "<a-x>"},
	}
	for _, tt := range tests {
		ev := tcell.NewEventKey(tt.key, tt.r, tt.mod)
		if got := keyName(ev); got != tt.want {
			t.Errorf("keyName(%v, %q) = %q, want %q", tt.key, tt.r, got, tt.want)
		}
	}
}
