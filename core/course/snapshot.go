package course

// NewSnapshot returns an empty, well-formed Snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{
		Objectives: []string{},
		Skills:     []string{},
		Sections:   []*Section{},
		Resources:  []Resource{},
		Tests:      []Test{},
	}
}

// Clone deep-copies s so that the result shares no mutable memory with it.
// nil sequences come back empty.
func Clone(s Snapshot) Snapshot {
	c := Snapshot{
		General:    s.General,
		Objectives: append(make([]string, 0, len(s.Objectives)), s.Objectives...),
		Skills:     append(make([]string, 0, len(s.Skills)), s.Skills...),
		Sections:   make([]*Section, 0, len(s.Sections)),
		Resources:  append(make([]Resource, 0, len(s.Resources)), s.Resources...),
		Tests:      append(make([]Test, 0, len(s.Tests)), s.Tests...),
	}
	for _, sec := range s.Sections {
		if sec != nil {
			c.Sections = append(c.Sections, cloneSection(sec))
		}
	}
	return c
}

func cloneSection(sec *Section) *Section {
	c := *sec
	c.Chapters = make([]*Chapter, 0, len(sec.Chapters))
	for _, ch := range sec.Chapters {
		if ch != nil {
			c.Chapters = append(c.Chapters, cloneChapter(ch))
		}
	}
	return &c
}

func cloneChapter(ch *Chapter) *Chapter {
	c := *ch
	c.Subchapters = make([]*Subchapter, 0, len(ch.Subchapters))
	for _, sub := range ch.Subchapters {
		if sub != nil {
			s := *sub
			c.Subchapters = append(c.Subchapters, &s)
		}
	}
	return &c
}

// ChapterCount returns the number of chapters across all sections.
func (s Snapshot) ChapterCount() int {
	var n int
	for _, sec := range s.Sections {
		n += len(sec.Chapters)
	}
	return n
}
