package match

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", ModeFuzzy, false},
		{"fuzzy", ModeFuzzy, false},
		{"regex", ModeRegex, false},
		{"exact", ModeExact, false},
		{"glob", ModeFuzzy, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFuzzyMatch(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name      string
		query     string
		text      string
		wantMatch bool
	}{
		{"exact text", "abc", "abc", true},
		{"out of order", "acb", "abc", false},
		{"subsequence", "ab", "a.txt/b", true},
		{"missing char", "abz", "abc", false},
		{"empty text", "a", "", false},
		{"case insensitive", "abc", "ABC", true},
		{"smart case mismatch", "Abc", "abc", false},
		{"smart case match", "Abc", "Abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := m.Compile(Query{Text: tt.query, Mode: ModeFuzzy})
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			_, ok := c.Match(tt.text)
			if ok != tt.wantMatch {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.query, tt.text, ok, tt.wantMatch)
			}
		})
	}
}

func TestFuzzyPositions(t *testing.T) {
	m := NewMatcher()
	c, err := m.Compile(Query{Text: "mtc", Mode: ModeFuzzy})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	r, ok := c.Match("matcher.go")
	if !ok {
		t.Fatal("expected match")
	}

	want := []int{0, 2, 3}
	if len(r.Positions) != len(want) {
		t.Fatalf("positions = %v, want %v", r.Positions, want)
	}
	for i, p := range want {
		if r.Positions[i] != p {
			t.Errorf("positions[%d] = %d, want %d", i, r.Positions[i], p)
		}
	}
}

func TestFuzzyScoreOrdering(t *testing.T) {
	m := NewMatcher()
	c, err := m.Compile(Query{Text: "ab", Mode: ModeFuzzy})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	contiguous, ok := c.Match("ab.txt")
	if !ok {
		t.Fatal("expected contiguous match")
	}
	spread, ok := c.Match("axxxb.txt")
	if !ok {
		t.Fatal("expected spread match")
	}

	if contiguous.Score <= spread.Score {
		t.Errorf("contiguous score %d should beat spread score %d", contiguous.Score, spread.Score)
	}
}

func TestRegexMatch(t *testing.T) {
	m := NewMatcher()

	c, err := m.Compile(Query{Text: `\.go$`, Mode: ModeRegex})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if _, ok := c.Match("main.go"); !ok {
		t.Error("expected main.go to match")
	}
	if _, ok := c.Match("main.rs"); ok {
		t.Error("expected main.rs not to match")
	}

	// Regex matches carry no score gradation.
	r, _ := c.Match("main.go")
	if r.Score != 0 {
		t.Errorf("regex score = %d, want 0", r.Score)
	}
}

func TestRegexInvalid(t *testing.T) {
	m := NewMatcher()
	if _, err := m.Compile(Query{Text: "[unclosed", Mode: ModeRegex}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestRegexSmartCase(t *testing.T) {
	m := NewMatcher()

	lower, err := m.Compile(Query{Text: "readme", Mode: ModeRegex})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := lower.Match("README.md"); !ok {
		t.Error("lowercase pattern should match uppercase text")
	}

	upper, err := m.Compile(Query{Text: "README", Mode: ModeRegex})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := upper.Match("readme.md"); ok {
		t.Error("uppercase pattern should not match lowercase text")
	}
}

func TestExactMatch(t *testing.T) {
	m := NewMatcher()
	c, err := m.Compile(Query{Text: "txt", Mode: ModeExact})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	early, ok := c.Match("txt-notes")
	if !ok {
		t.Fatal("expected early match")
	}
	late, ok := c.Match("archive.txt")
	if !ok {
		t.Fatal("expected late match")
	}

	if early.Score <= late.Score {
		t.Errorf("earlier position should score higher: %d vs %d", early.Score, late.Score)
	}

	if _, ok := c.Match("t-x-t"); ok {
		t.Error("non-contiguous text should not match in exact mode")
	}

	want := []int{0, 1, 2}
	for i, p := range want {
		if early.Positions[i] != p {
			t.Errorf("positions[%d] = %d, want %d", i, early.Positions[i], p)
		}
	}
}

func TestEmptyQueryMatchesAll(t *testing.T) {
	m := NewMatcher()
	for _, mode := range []Mode{ModeFuzzy, ModeRegex, ModeExact} {
		c, err := m.Compile(Query{Text: "", Mode: mode})
		if err != nil {
			t.Fatalf("Compile(%v): %v", mode, err)
		}
		r, ok := c.Match("anything")
		if !ok {
			t.Errorf("mode %v: empty query should match", mode)
		}
		if r.Score != 0 {
			t.Errorf("mode %v: empty query score = %d, want 0", mode, r.Score)
		}
	}
}
