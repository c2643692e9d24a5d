package match

import "unicode"

// Scorer rates one fuzzy match. Higher is better; zero means no match.
//
// queryRunes and textRunes are the case-folded forms the subsequence
// scan ran against, originalRunes keeps the text's case for boundary
// detection, and positions holds the matched rune indices.
type Scorer interface {
	Score(queryRunes, originalRunes, textRunes []rune, positions []int) int
}

// WeightedScorer rates matches with configurable weights.
// It rewards contiguous runs, word-boundary hits, and early matches,
// and penalizes gaps and leading offset.
type WeightedScorer struct {
	// BaseScore is the starting score for any match.
	BaseScore int

	// ConsecutiveBonus is added for each consecutive character match.
	ConsecutiveBonus int

	// WordBoundaryBonus is added for matches at word boundaries.
	WordBoundaryBonus int

	// PrefixBonus is added when the first match is at position 0.
	PrefixBonus int

	// ExactPrefixBonus is added when the query matches the start of text.
	ExactPrefixBonus int

	// GapPenalty is subtracted for each gap character between matches.
	GapPenalty int

	// LeadingPenalty is subtracted for each character before the first match.
	LeadingPenalty int

	// LengthBonusThreshold adds a bonus for texts shorter than this.
	LengthBonusThreshold int
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() WeightedScorer {
	return WeightedScorer{
		BaseScore:            100,
		ConsecutiveBonus:     20,
		WordBoundaryBonus:    15,
		PrefixBonus:          25,
		ExactPrefixBonus:     50,
		GapPenalty:           2,
		LeadingPenalty:       1,
		LengthBonusThreshold: 20,
	}
}

// PathWeights returns weights tuned for file path matching.
// Paths are longer and separator boundaries matter more.
func PathWeights() WeightedScorer {
	return WeightedScorer{
		BaseScore:            100,
		ConsecutiveBonus:     25,
		WordBoundaryBonus:    20,
		PrefixBonus:          15,
		ExactPrefixBonus:     30,
		GapPenalty:           3,
		LeadingPenalty:       1,
		LengthBonusThreshold: 30,
	}
}

// Score implements Scorer. A scored match never drops below 1, so any
// inclusion survives ranking even under heavy penalties.
func (s WeightedScorer) Score(queryRunes, originalRunes, textRunes []rune, positions []int) int {
	if len(positions) == 0 {
		return 0
	}

	score := s.BaseScore

	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			score += s.ConsecutiveBonus
		}
	}

	for _, idx := range positions {
		if isWordBoundary(originalRunes, idx) {
			score += s.WordBoundaryBonus
		}
	}

	if positions[0] == 0 {
		score += s.PrefixBonus
	}
	if hasPrefix(textRunes, queryRunes) {
		score += s.ExactPrefixBonus
	}

	// Spread-out matches lose the gap count; a late first match loses
	// its offset.
	if len(positions) > 1 {
		if gap := positions[len(positions)-1] - positions[0] - len(positions) + 1; gap > 0 {
			score -= gap * s.GapPenalty
		}
	}
	score -= positions[0] * s.LeadingPenalty

	// Shorter text is a more specific match.
	if n := len(textRunes); n < s.LengthBonusThreshold {
		score += s.LengthBonusThreshold - n
	}

	if score < 1 {
		score = 1
	}
	return score
}

func hasPrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}

// isWordBoundary reports whether idx starts a word: text start, after
// space or punctuation (covers path separators and snake/kebab case),
// or a lower-to-upper camelCase transition.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}

	prev, curr := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}
