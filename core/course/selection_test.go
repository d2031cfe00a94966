package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Valid(t *testing.T) {
	sections := fixture().Sections

	tests := []struct {
		name string
		sel  *Selection
		want bool
	}{
		{name: "nil", sel: nil, want: false},
		{name: "chapter", sel: ChapterSelection("s1", "b"), want: true},
		{name: "chapter in wrong section", sel: ChapterSelection("s2", "b"), want: false},
		{name: "unknown section", sel: ChapterSelection("x", "a"), want: false},
		{name: "subchapter", sel: SubchapterSelection("s1", "a", "a2"), want: true},
		{name: "subchapter in wrong chapter", sel: SubchapterSelection("s1", "b", "a2"), want: false},
		{name: "unknown subchapter", sel: SubchapterSelection("s1", "a", "x"), want: false},
		{name: "unknown type", sel: &Selection{Type: "lesson", SectionID: "s1", ChapterID: "a"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Valid(sections); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindFirstSelectable(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		want     *Selection
	}{
		{name: "empty", snapshot: NewSnapshot(), want: nil},
		{name: "no chapters", snapshot: NewSnapshot().AddSection("s1").AddSection("s2"), want: nil},
		{
			name:     "skips empty sections",
			snapshot: NewSnapshot().AddSection("s1").AddSection("s2").AddChapter("s2", "c").AddChapter("s2", "d"),
			want:     ChapterSelection("s2", "c"),
		},
		{name: "first chapter", snapshot: fixture(), want: ChapterSelection("s1", "a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindFirstSelectable(tt.snapshot.Sections))
		})
	}
}

func TestEnsureSelection(t *testing.T) {
	s := fixture()

	valid := SubchapterSelection("s1", "a", "a1")
	assert.Same(t, valid, EnsureSelection(valid, s.Sections))

	assert.Equal(t, ChapterSelection("s1", "a"), EnsureSelection(nil, s.Sections))
	assert.Equal(t, ChapterSelection("s1", "a"), EnsureSelection(ChapterSelection("s2", "x"), s.Sections))

	// removing the selected chapter falls back to the first chapter of the first non-empty section
	sel := ChapterSelection("s1", "a")
	s = s.RemoveChapter("s1", "a")
	assert.Equal(t, ChapterSelection("s1", "b"), EnsureSelection(sel, s.Sections))

	s = s.RemoveChapter("s1", "b")
	assert.Equal(t, ChapterSelection("s2", "c"), EnsureSelection(sel, s.Sections))

	// nothing left to select
	s = s.RemoveChapter("s2", "c")
	assert.Nil(t, EnsureSelection(ChapterSelection("s2", "c"), s.Sections))
}

func TestEnsureSelection_afterEveryMutation(t *testing.T) {
	ops := []func(Snapshot) Snapshot{
		func(s Snapshot) Snapshot { return s.RemoveSubchapter("s1", "a", "a1") },
		func(s Snapshot) Snapshot { return s.MoveChapter("s1", "s3", "a", 0) },
		func(s Snapshot) Snapshot { return s.ReorderSections("s3", "s1") },
		func(s Snapshot) Snapshot { return s.AddChapter("s2", "d") },
		func(s Snapshot) Snapshot { return s.RemoveSection("s3") },
		func(s Snapshot) Snapshot { return s.MoveSubchapter("s1", "a", "s2", "c", "a2") },
		func(s Snapshot) Snapshot { return s.RemoveChapter("s1", "b") },
		func(s Snapshot) Snapshot { return s.RemoveSection("s2") },
		func(s Snapshot) Snapshot { return s.RemoveSection("s1") },
	}

	s := fixture()
	sel := SubchapterSelection("s1", "a", "a1")
	for i, op := range ops {
		s = op(s)
		sel = EnsureSelection(sel, s.Sections)
		if sel != nil && !sel.Valid(s.Sections) {
			t.Fatalf("op #%d: selection %+v does not point at an existing node", i, *sel)
		}
	}
	assert.Nil(t, sel)
}
