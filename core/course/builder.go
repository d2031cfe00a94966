package course

import "sync"

// State is what a Builder exposes to its subscribers.
// The Snapshot shares memory with the Builder: treat it as read-only, use Builder.Snapshot for an owned copy.
type State struct {
	Snapshot  Snapshot   `json:"snapshot"`
	Selection *Selection `json:"selection"`
}

// Listener is notified synchronously after each change, outside of the Builder's lock.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Builder is the course editor state container.
// It is the only writer of its working Snapshot; mutations referencing unknown ids are silent no-ops,
// so a call returning normally does not mean the targeted node existed.
type Builder struct {
	mu      sync.RWMutex
	ids     IDGenerator
	state   State
	subs    []subscription
	nextSub int
}

// NewBuilder returns a Builder editing an empty Snapshot.
// ids defaults to UUIDGenerator when nil.
func NewBuilder(ids IDGenerator) *Builder {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Builder{
		ids:   ids,
		state: State{Snapshot: NewSnapshot()},
	}
}

// Subscribe registers l and returns a func that unregisters it.
func (b *Builder) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSub++
	id := b.nextSub
	b.subs = append(b.subs, subscription{id: id, fn: l})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, sub := range b.subs {
				if sub.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// State returns the current state. See State for the ownership rules.
func (b *Builder) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return State{Snapshot: b.state.Snapshot, Selection: b.state.Selection.copy()}
}

// Snapshot exports a deep copy of the working Snapshot.
func (b *Builder) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Clone(b.state.Snapshot)
}

func (b *Builder) Selection() *Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.Selection.copy()
}

// Load replaces the working Snapshot with a deep copy of s and selects its first chapter.
func (b *Builder) Load(s Snapshot) {
	c := Clone(s)
	b.set(func(st *State) {
		st.Snapshot = c
		st.Selection = FindFirstSelectable(c.Sections)
	})
}

// Reset starts over from an empty Snapshot.
func (b *Builder) Reset() {
	b.set(func(st *State) {
		st.Snapshot = NewSnapshot()
		st.Selection = nil
	})
}

// Selection

// SelectChapter is not validated; see EnsureSelection.
func (b *Builder) SelectChapter(sectionID, chapterID string) {
	b.set(func(st *State) { st.Selection = ChapterSelection(sectionID, chapterID) })
}

func (b *Builder) SelectSubchapter(sectionID, chapterID, subchapterID string) {
	b.set(func(st *State) { st.Selection = SubchapterSelection(sectionID, chapterID, subchapterID) })
}

func (b *Builder) ClearSelection() {
	b.set(func(st *State) { st.Selection = nil })
}

// EnsureSelection repairs the selection against the current tree and returns it.
func (b *Builder) EnsureSelection() *Selection {
	var sel *Selection
	b.set(func(st *State) {
		st.Selection = EnsureSelection(st.Selection, st.Snapshot.Sections)
		sel = st.Selection.copy()
	})
	return sel
}

// Sections

func (b *Builder) AddSection() string {
	var id string
	b.mutate(func(s Snapshot) Snapshot {
		id = b.ids.Next()
		return s.AddSection(id)
	})
	return id
}

func (b *Builder) UpdateSection(id string, patch SectionPatch) {
	b.mutate(func(s Snapshot) Snapshot { return s.UpdateSection(id, patch) })
}

func (b *Builder) RemoveSection(id string) {
	b.mutate(func(s Snapshot) Snapshot { return s.RemoveSection(id) })
}

func (b *Builder) ReorderSections(activeID, overID string) {
	b.mutate(func(s Snapshot) Snapshot { return s.ReorderSections(activeID, overID) })
}

// Chapters

// AddChapter returns the new chapter id, or "" if the section does not exist.
func (b *Builder) AddChapter(sectionID string) string {
	var id string
	b.mutate(func(s Snapshot) Snapshot {
		if sectionIndex(s.Sections, sectionID) < 0 {
			return s
		}
		id = b.ids.Next()
		return s.AddChapter(sectionID, id)
	})
	return id
}

func (b *Builder) UpdateChapter(sectionID, chapterID string, patch ChapterPatch) {
	b.mutate(func(s Snapshot) Snapshot { return s.UpdateChapter(sectionID, chapterID, patch) })
}

func (b *Builder) RemoveChapter(sectionID, chapterID string) {
	b.mutate(func(s Snapshot) Snapshot { return s.RemoveChapter(sectionID, chapterID) })
}

func (b *Builder) ReorderChapters(sectionID, activeID, overID string) {
	b.mutate(func(s Snapshot) Snapshot { return s.ReorderChapters(sectionID, activeID, overID) })
}

func (b *Builder) MoveChapter(fromSectionID, toSectionID, chapterID string, targetIndex ...int) {
	b.mutate(func(s Snapshot) Snapshot {
		return s.MoveChapter(fromSectionID, toSectionID, chapterID, targetIndex...)
	})
}

// Subchapters

// AddSubchapter returns the new subchapter id, or "" if the chapter does not exist.
func (b *Builder) AddSubchapter(sectionID, chapterID string) string {
	var id string
	b.mutate(func(s Snapshot) Snapshot {
		if _, ci := s.chapterPath(sectionID, chapterID); ci < 0 {
			return s
		}
		id = b.ids.Next()
		return s.AddSubchapter(sectionID, chapterID, id)
	})
	return id
}

func (b *Builder) UpdateSubchapter(sectionID, chapterID, subchapterID string, patch SubchapterPatch) {
	b.mutate(func(s Snapshot) Snapshot {
		return s.UpdateSubchapter(sectionID, chapterID, subchapterID, patch)
	})
}

func (b *Builder) RemoveSubchapter(sectionID, chapterID, subchapterID string) {
	b.mutate(func(s Snapshot) Snapshot { return s.RemoveSubchapter(sectionID, chapterID, subchapterID) })
}

func (b *Builder) ReorderSubchapters(sectionID, chapterID, activeID, overID string) {
	b.mutate(func(s Snapshot) Snapshot {
		return s.ReorderSubchapters(sectionID, chapterID, activeID, overID)
	})
}

func (b *Builder) MoveSubchapter(
	fromSectionID, fromChapterID, toSectionID, toChapterID, subchapterID string,
	targetIndex ...int,
) {
	b.mutate(func(s Snapshot) Snapshot {
		return s.MoveSubchapter(fromSectionID, fromChapterID, toSectionID, toChapterID, subchapterID, targetIndex...)
	})
}

// General & lists

func (b *Builder) UpdateGeneral(patch GeneralPatch) {
	b.edit(func(s Snapshot) Snapshot { return s.UpdateGeneral(patch) })
}

func (b *Builder) AddObjective(text string) {
	b.edit(func(s Snapshot) Snapshot { return s.AddObjective(text) })
}

func (b *Builder) RemoveObjective(text string) {
	b.edit(func(s Snapshot) Snapshot { return s.RemoveObjective(text) })
}

func (b *Builder) AddSkill(text string) {
	b.edit(func(s Snapshot) Snapshot { return s.AddSkill(text) })
}

func (b *Builder) RemoveSkill(text string) {
	b.edit(func(s Snapshot) Snapshot { return s.RemoveSkill(text) })
}

func (b *Builder) AddResource(title, typ, url string) string {
	var id string
	b.edit(func(s Snapshot) Snapshot {
		id = b.ids.Next()
		return s.AddResource(id, title, typ, url)
	})
	return id
}

func (b *Builder) UpdateResource(id string, patch ResourcePatch) {
	b.edit(func(s Snapshot) Snapshot { return s.UpdateResource(id, patch) })
}

func (b *Builder) RemoveResource(id string) {
	b.edit(func(s Snapshot) Snapshot { return s.RemoveResource(id) })
}

func (b *Builder) AddTest(title, typ, url string) string {
	var id string
	b.edit(func(s Snapshot) Snapshot {
		id = b.ids.Next()
		return s.AddTest(id, title, typ, url)
	})
	return id
}

func (b *Builder) UpdateTest(id string, patch TestPatch) {
	b.edit(func(s Snapshot) Snapshot { return s.UpdateTest(id, patch) })
}

func (b *Builder) RemoveTest(id string) {
	b.edit(func(s Snapshot) Snapshot { return s.RemoveTest(id) })
}

// mutate applies a structural change then revalidates the selection.
// Revalidation runs after every structural change, whether or not it touched the selected node.
func (b *Builder) mutate(fn func(Snapshot) Snapshot) {
	b.set(func(st *State) {
		st.Snapshot = fn(st.Snapshot)
		st.Selection = EnsureSelection(st.Selection, st.Snapshot.Sections)
	})
}

// edit applies a change that leaves the section tree alone.
func (b *Builder) edit(fn func(Snapshot) Snapshot) {
	b.set(func(st *State) { st.Snapshot = fn(st.Snapshot) })
}

func (b *Builder) set(fn func(*State)) {
	b.mu.Lock()
	fn(&b.state)
	st := State{Snapshot: b.state.Snapshot, Selection: b.state.Selection.copy()}
	subs := append([]subscription(nil), b.subs...)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.fn(st)
	}
}
