package producer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/quickpick/internal/picker/stream"
)

// ParseRipgrepJSON parses one line of `rg --json` event output.
// Only "match" events produce items; begin/end/context/summary events
// and malformed lines are skipped.
func ParseRipgrepJSON(line string) (stream.Item, bool) {
	if !gjson.Valid(line) {
		return stream.Item{}, false
	}

	v := gjson.Parse(line)
	if v.Get("type").String() != "match" {
		return stream.Item{}, false
	}

	data := v.Get("data")
	path := data.Get("path.text").String()
	lineNum := int(data.Get("line_number").Int())
	text := strings.TrimRight(data.Get("lines.text").String(), "\r\n")

	col := 1
	if sub := data.Get("submatches.0.start"); sub.Exists() {
		col = int(sub.Int()) + 1
	}

	return stream.Item{
		Text: fmt.Sprintf("%s:%d:%s", path, lineNum, text),
		Path: path,
		Line: lineNum,
		Col:  col,
	}, true
}

// ParseGrepLine parses classic `grep -rn` output: path:line:text.
func ParseGrepLine(line string) (stream.Item, bool) {
	first := strings.Index(line, ":")
	if first <= 0 {
		return stream.Item{}, false
	}
	second := strings.Index(line[first+1:], ":")
	if second < 0 {
		return stream.Item{}, false
	}
	second += first + 1

	lineNum, err := strconv.Atoi(line[first+1 : second])
	if err != nil {
		return stream.Item{}, false
	}

	return stream.Item{
		Text: line,
		Path: line[:first],
		Line: lineNum,
		Col:  1,
	}, true
}
