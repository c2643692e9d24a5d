package stream

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/quickpick/internal/picker/match"
)

// Ranked is one entry of the derived ranked view: an insertion index
// into the stream plus its current score and highlight positions.
type Ranked struct {
	// Index is the insertion index of the item in the stream.
	Index int

	// Score is the item's score for the current query.
	Score int

	// Positions are matched rune indices in the item text.
	Positions []int
}

// Ranker computes the ranked view of a stream for a query.
//
// Ranking recomputes a full stable re-sort on each call; queries are
// short and datasets are editor-scale. Repeated queries over an
// unchanged stream are served from an LRU cache.
type Ranker struct {
	matcher *match.Matcher
	cache   *lru.Cache[string, []Ranked]
}

// rankCacheSize bounds cached ranked views per ranker.
const rankCacheSize = 128

// NewRanker creates a ranker around the given matcher.
func NewRanker(m *match.Matcher) *Ranker {
	// Error only occurs for non-positive sizes.
	cache, _ := lru.New[string, []Ranked](rankCacheSize)
	return &Ranker{matcher: m, cache: cache}
}

// Rank returns the ranked view of the stream for the query.
//
// Fuzzy and exact modes sort by score descending; regex mode includes
// matches in arrival order without score gradation. Equal scores
// preserve arrival order. An empty query yields the identity ranking.
// Every returned index is within the stream length observed at call time.
func (r *Ranker) Rank(s *Stream, q match.Query) ([]Ranked, error) {
	items := s.Snapshot()

	if q.Empty() {
		out := make([]Ranked, len(items))
		for i := range items {
			out[i] = Ranked{Index: i}
		}
		return out, nil
	}

	// The stream ID keeps entries from distinct streams apart; version
	// and length alone repeat across streams.
	key := fmt.Sprintf("%d:%d:%d:%s:%d", s.ID(), s.Version(), q.Mode, q.Text, len(items))
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}

	compiled, err := r.matcher.Compile(q)
	if err != nil {
		return nil, err
	}

	out := make([]Ranked, 0, len(items))
	for i := range items {
		res, ok := compiled.Match(items[i].Text)
		if !ok {
			continue
		}
		out = append(out, Ranked{Index: i, Score: res.Score, Positions: res.Positions})
	}

	// Stable sort keeps arrival order for equal scores, which also
	// leaves regex results (all zero score) in arrival order.
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})

	r.cache.Add(key, out)
	return out, nil
}
