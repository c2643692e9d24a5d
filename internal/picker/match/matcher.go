package match

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Mode specifies how a query is matched against item text.
type Mode int

const (
	// ModeFuzzy uses subsequence matching: all query characters must
	// appear in order within the item text, not necessarily adjacent.
	ModeFuzzy Mode = iota

	// ModeRegex interprets the query as a regular expression.
	// Matching items are included without score gradation.
	ModeRegex

	// ModeExact matches the query as a literal substring.
	// Earlier match positions score higher.
	ModeExact
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFuzzy:
		return "fuzzy"
	case ModeRegex:
		return "regex"
	case ModeExact:
		return "exact"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "fuzzy":
		return ModeFuzzy, nil
	case "regex":
		return ModeRegex, nil
	case "exact":
		return ModeExact, nil
	default:
		return ModeFuzzy, fmt.Errorf("unknown match mode: %q", s)
	}
}

// Query is the current filter string plus its matching mode.
type Query struct {
	Text string
	Mode Mode
}

// Empty reports whether the query has no filter text.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Text) == ""
}

// Result holds a single scored match.
type Result struct {
	// Score is the match quality (higher is better).
	// Regex matches carry a zero score.
	Score int

	// Positions are the rune indices of matched characters in the
	// item text, for highlighting. Nil for regex mode.
	Positions []int
}

// Matcher evaluates queries against item text.
// A Matcher is stateless apart from its scorer and safe for concurrent use.
type Matcher struct {
	scorer Scorer
}

// NewMatcher creates a matcher with the default weighted scorer.
func NewMatcher() *Matcher {
	return &Matcher{scorer: DefaultWeights()}
}

// NewMatcherWithScorer creates a matcher with a custom scoring algorithm.
func NewMatcherWithScorer(s Scorer) *Matcher {
	return &Matcher{scorer: s}
}

// Compiled is a query prepared for repeated evaluation.
// Compile once per query change, then call Match per item.
type Compiled struct {
	query         Query
	caseSensitive bool
	queryRunes    []rune
	re            *regexp.Regexp
	scorer        Scorer
}

// Compile prepares a query for matching.
// Returns an error for invalid regex patterns; all other modes cannot fail.
func (m *Matcher) Compile(q Query) (*Compiled, error) {
	c := &Compiled{
		query:         q,
		caseSensitive: smartCase(q.Text),
		scorer:        m.scorer,
	}

	text := strings.TrimSpace(q.Text)

	switch q.Mode {
	case ModeRegex:
		pattern := text
		if !c.caseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex query: %w", err)
		}
		c.re = re
	default:
		if !c.caseSensitive {
			text = strings.ToLower(text)
		}
		c.queryRunes = []rune(text)
	}

	return c, nil
}

// Match scores a single item text against the compiled query.
// Returns the result and true on a match, or false for no-match.
// An empty query matches everything with a zero score.
func (c *Compiled) Match(text string) (Result, bool) {
	if c.query.Empty() {
		return Result{}, true
	}

	switch c.query.Mode {
	case ModeRegex:
		if c.re.MatchString(text) {
			return Result{}, true
		}
		return Result{}, false
	case ModeExact:
		return c.matchExact(text)
	default:
		return c.matchFuzzy(text)
	}
}

// matchFuzzy finds query runes in order using a greedy left-to-right scan.
func (c *Compiled) matchFuzzy(text string) (Result, bool) {
	if text == "" {
		return Result{}, false
	}

	originalRunes := []rune(text)
	textRunes := originalRunes
	if !c.caseSensitive {
		textRunes = []rune(strings.ToLower(text))
	}

	positions := make([]int, 0, len(c.queryRunes))
	queryIdx := 0
	for i := 0; i < len(textRunes) && queryIdx < len(c.queryRunes); i++ {
		if textRunes[i] == c.queryRunes[queryIdx] {
			positions = append(positions, i)
			queryIdx++
		}
	}

	// All query characters must match.
	if queryIdx != len(c.queryRunes) {
		return Result{}, false
	}

	score := c.scorer.Score(c.queryRunes, originalRunes, textRunes, positions)
	return Result{Score: score, Positions: positions}, true
}

// matchExact looks for the query as a contiguous substring.
// Earlier occurrences score higher.
func (c *Compiled) matchExact(text string) (Result, bool) {
	haystack := text
	if !c.caseSensitive {
		haystack = strings.ToLower(text)
	}

	byteIdx := strings.Index(haystack, string(c.queryRunes))
	if byteIdx < 0 {
		return Result{}, false
	}

	// Convert byte offset to rune offset for highlight positions.
	runeIdx := len([]rune(haystack[:byteIdx]))
	positions := make([]int, len(c.queryRunes))
	for i := range positions {
		positions[i] = runeIdx + i
	}

	score := exactBaseScore - runeIdx
	if score < 1 {
		score = 1
	}
	return Result{Score: score, Positions: positions}, true
}

// exactBaseScore anchors substring scores so short leading offsets
// still produce positive values.
const exactBaseScore = 1000

// smartCase reports whether the query demands case-sensitive matching.
func smartCase(query string) bool {
	for _, r := range query {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
