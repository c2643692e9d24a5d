package stream

import "testing"

func TestAppendAssignsStableIndices(t *testing.T) {
	s := New(0)

	for _, text := range []string{"a", "b", "c"} {
		if !s.Append(Item{Text: text}) {
			t.Fatalf("append %q dropped", text)
		}
	}

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, it := range snap {
		if it.Index != i {
			t.Errorf("item %d has index %d", i, it.Index)
		}
	}
}

func TestTruncation(t *testing.T) {
	s := New(2)

	accepted := 0
	for i := 0; i < 5; i++ {
		if s.Append(Item{Text: "x"}) {
			accepted++
		}
	}

	if accepted != 2 {
		t.Errorf("accepted = %d, want 2", accepted)
	}
	if s.Len() != 2 {
		t.Errorf("len = %d, want 2", s.Len())
	}
	if !s.Truncated() {
		t.Error("stream should be marked truncated")
	}
}

func TestNoTruncationUnderBound(t *testing.T) {
	s := New(10)
	s.Append(Item{Text: "only"})

	if s.Truncated() {
		t.Error("stream should not be truncated")
	}
}

func TestSnapshotIndependentOfLaterAppends(t *testing.T) {
	s := New(0)
	s.Append(Item{Text: "first"})

	snap := s.Snapshot()
	s.Append(Item{Text: "second"})

	if len(snap) != 1 {
		t.Errorf("snapshot len = %d, want 1", len(snap))
	}
	if s.Len() != 2 {
		t.Errorf("stream len = %d, want 2", s.Len())
	}
}

func TestAt(t *testing.T) {
	s := New(0)
	s.Append(Item{Text: "a"})

	if it, ok := s.At(0); !ok || it.Text != "a" {
		t.Errorf("At(0) = %+v, %v", it, ok)
	}
	if _, ok := s.At(1); ok {
		t.Error("At(1) should be out of range")
	}
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
}

func TestSelection(t *testing.T) {
	s := New(0)
	s.Append(Item{Text: "a"})
	s.Append(Item{Text: "b"})
	s.Append(Item{Text: "c"})

	s.ToggleSelect(0)
	s.ToggleSelect(2)

	got := s.SelectedIndices()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("SelectedIndices = %v, want [0 2]", got)
	}
	if !s.IsSelected(0) || s.IsSelected(1) {
		t.Error("selection state wrong")
	}

	// Toggle back off.
	s.ToggleSelect(0)
	if s.IsSelected(0) {
		t.Error("index 0 should be deselected")
	}

	// Out-of-range toggles are ignored.
	s.ToggleSelect(99)
	if len(s.SelectedIndices()) != 1 {
		t.Error("out-of-range toggle should not change selection")
	}
}

func TestVersionAdvancesOnAppend(t *testing.T) {
	s := New(1)
	v0 := s.Version()

	s.Append(Item{Text: "a"})
	v1 := s.Version()
	if v1 == v0 {
		t.Error("version should advance on append")
	}

	// Dropped append does not advance the version.
	s.Append(Item{Text: "b"})
	if s.Version() != v1 {
		t.Error("dropped append should not advance version")
	}
}
