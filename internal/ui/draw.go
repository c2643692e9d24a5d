package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/quickpick/internal/picker"
)

var (
	stylePrompt    = tcell.StyleDefault.Bold(true)
	styleRow       = tcell.StyleDefault
	styleCursorRow = tcell.StyleDefault.Reverse(true)
	styleMatch     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleStatus    = tcell.StyleDefault.Dim(true)
	styleSelected  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// draw renders prompt, status line, and the visible window of ranked
// rows. Layout: prompt on row 0, status on row 1, results below.
func (v *View) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()

	v.mu.Lock()
	query := string(v.queryBuf)
	mode := v.mode
	cursor := v.cursor
	ranked := v.ranked

	listTop := 2
	visible := height - listTop
	if visible < 0 {
		visible = 0
	}
	if cursor < v.offset {
		v.offset = cursor
	}
	if visible > 0 && cursor >= v.offset+visible {
		v.offset = cursor - visible + 1
	}
	offset := v.offset
	v.mu.Unlock()

	prompt := "> " + query
	drawText(v.screen, 0, 0, width, prompt, stylePrompt)
	v.screen.ShowCursor(len([]rune(prompt)), 0)

	st := v.in.Stream()
	status := fmt.Sprintf("  %d/%d  %s  %s", len(ranked), st.Len(), mode, v.in.Status())
	if st.Truncated() {
		status += "  [truncated]"
	}
	if v.in.Status() == picker.StatusFailed {
		status = "  error: " + v.in.Err().Error()
	}
	drawText(v.screen, 0, 1, width, status, styleStatus)

	for row := 0; row < visible && offset+row < len(ranked); row++ {
		r := ranked[offset+row]
		it, ok := st.At(r.Index)
		if !ok {
			continue
		}

		base := styleRow
		if offset+row == cursor {
			base = styleCursorRow
		}

		x := 0
		if st.IsSelected(r.Index) {
			v.screen.SetContent(x, listTop+row, '+', nil, styleSelected)
		}
		x = 2

		hl := make(map[int]bool, len(r.Positions))
		for _, p := range r.Positions {
			hl[p] = true
		}
		for i, ch := range []rune(it.Text) {
			if x >= width {
				break
			}
			style := base
			if hl[i] {
				style = styleMatch
				if offset+row == cursor {
					style = style.Reverse(true)
				}
			}
			v.screen.SetContent(x, listTop+row, ch, nil, style)
			x++
		}
	}

	v.screen.Show()
}

func drawText(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= maxWidth {
			return
		}
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
