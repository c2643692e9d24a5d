package producer

import "testing"

func TestParseRipgrepJSONMatch(t *testing.T) {
	line := `{"type":"match","data":{"path":{"text":"internal/app/app.go"},"lines":{"text":"func Run() error {\n"},"line_number":42,"absolute_offset":1024,"submatches":[{"match":{"text":"Run"},"start":5,"end":8}]}}`

	it, ok := ParseRipgrepJSON(line)
	if !ok {
		t.Fatal("expected match event to produce an item")
	}

	if it.Path != "internal/app/app.go" {
		t.Errorf("Path = %q", it.Path)
	}
	if it.Line != 42 {
		t.Errorf("Line = %d, want 42", it.Line)
	}
	if it.Col != 6 {
		t.Errorf("Col = %d, want 6", it.Col)
	}
	if want := "internal/app/app.go:42:func Run() error {"; it.Text != want {
		t.Errorf("Text = %q, want %q", it.Text, want)
	}
}

func TestParseRipgrepJSONSkipsNonMatch(t *testing.T) {
	lines := []string{
		`{"type":"begin","data":{"path":{"text":"a.go"}}}`,
		`{"type":"end","data":{"path":{"text":"a.go"}}}`,
		`{"type":"summary","data":{}}`,
		`not json at all`,
		``,
	}

	for _, line := range lines {
		if _, ok := ParseRipgrepJSON(line); ok {
			t.Errorf("line %q should not produce an item", line)
		}
	}
}

func TestParseGrepLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantPath string
		wantLine int
	}{
		{"valid", "cmd/main.go:17:func main() {", true, "cmd/main.go", 17},
		{"colon in text", "a.go:3:x := m[\"k:v\"]", true, "a.go", 3},
		{"no line number", "cmd/main.go:abc:text", false, "", 0},
		{"no colons", "plain text", false, "", 0},
		{"empty", "", false, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, ok := ParseGrepLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if it.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", it.Path, tt.wantPath)
			}
			if it.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", it.Line, tt.wantLine)
			}
			if it.Text != tt.line {
				t.Errorf("Text = %q, want full line", it.Text)
			}
		})
	}
}
