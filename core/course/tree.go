package course

// Tree mutations.
//
// Every method works on a copy of the receiver and returns the new Snapshot.
// A reference to an unknown id is a no-op: the receiver is returned as is.
// Out of range indices are clamped into range.

// Sections

func (s Snapshot) AddSection(id string) Snapshot {
	s.Sections = insertSection(s.Sections, len(s.Sections), &Section{
		ID:          id,
		Title:       newSectionTitle,
		Description: newSectionDescription,
		Chapters:    []*Chapter{},
	})
	return s
}

func (s Snapshot) UpdateSection(id string, patch SectionPatch) Snapshot {
	i := sectionIndex(s.Sections, id)
	if i < 0 {
		return s
	}
	return s.withSection(i, patch.apply(*s.Sections[i]))
}

func (s Snapshot) RemoveSection(id string) Snapshot {
	i := sectionIndex(s.Sections, id)
	if i < 0 {
		return s
	}
	s.Sections = removeSectionAt(s.Sections, i)
	return s
}

// ReorderSections moves the section activeID to the position currently held by overID.
func (s Snapshot) ReorderSections(activeID, overID string) Snapshot {
	if activeID == overID {
		return s
	}
	from, to := sectionIndex(s.Sections, activeID), sectionIndex(s.Sections, overID)
	if from < 0 || to < 0 {
		return s
	}
	sec := s.Sections[from]
	s.Sections = insertSection(removeSectionAt(s.Sections, from), to, sec)
	return s
}

// Chapters

func (s Snapshot) AddChapter(sectionID, id string) Snapshot {
	i := sectionIndex(s.Sections, sectionID)
	if i < 0 {
		return s
	}
	sec := *s.Sections[i]
	sec.Chapters = insertChapter(sec.Chapters, len(sec.Chapters), &Chapter{
		ID:          id,
		Title:       newChapterTitle,
		Type:        DefaultChapterType,
		Subchapters: []*Subchapter{},
	})
	return s.withSection(i, &sec)
}

func (s Snapshot) UpdateChapter(sectionID, chapterID string, patch ChapterPatch) Snapshot {
	si, ci := s.chapterPath(sectionID, chapterID)
	if ci < 0 {
		return s
	}
	return s.withChapter(si, ci, patch.apply(*s.Sections[si].Chapters[ci]))
}

func (s Snapshot) RemoveChapter(sectionID, chapterID string) Snapshot {
	si, ci := s.chapterPath(sectionID, chapterID)
	if ci < 0 {
		return s
	}
	sec := *s.Sections[si]
	sec.Chapters = removeChapterAt(sec.Chapters, ci)
	return s.withSection(si, &sec)
}

// ReorderChapters moves chapter activeID to the position currently held by overID within one section.
func (s Snapshot) ReorderChapters(sectionID, activeID, overID string) Snapshot {
	if activeID == overID {
		return s
	}
	si := sectionIndex(s.Sections, sectionID)
	if si < 0 {
		return s
	}
	sec := *s.Sections[si]
	from, to := chapterIndex(sec.Chapters, activeID), chapterIndex(sec.Chapters, overID)
	if from < 0 || to < 0 {
		return s
	}
	ch := sec.Chapters[from]
	sec.Chapters = insertChapter(removeChapterAt(sec.Chapters, from), to, ch)
	return s.withSection(si, &sec)
}

// MoveChapter takes a chapter out of fromSectionID and inserts it in toSectionID at targetIndex
// (end of list when omitted). Within the same section, a target after the chapter's
// current position is shifted down by one to account for its removal.
func (s Snapshot) MoveChapter(fromSectionID, toSectionID, chapterID string, targetIndex ...int) Snapshot {
	fi, ci := s.chapterPath(fromSectionID, chapterID)
	ti := sectionIndex(s.Sections, toSectionID)
	if ci < 0 || ti < 0 {
		return s
	}
	same := fi == ti

	src := *s.Sections[fi]
	ch := src.Chapters[ci]
	src.Chapters = removeChapterAt(src.Chapters, ci)

	var dst Section
	if same {
		dst = src
	} else {
		dst = *s.Sections[ti]
	}
	idx := targetPosition(len(dst.Chapters), ci, same, targetIndex)
	dst.Chapters = insertChapter(dst.Chapters, idx, ch)

	if same {
		return s.withSection(ti, &dst)
	}
	return s.withSection(fi, &src).withSection(ti, &dst)
}

// Subchapters

func (s Snapshot) AddSubchapter(sectionID, chapterID, id string) Snapshot {
	si, ci := s.chapterPath(sectionID, chapterID)
	if ci < 0 {
		return s
	}
	ch := *s.Sections[si].Chapters[ci]
	ch.Subchapters = insertSubchapter(ch.Subchapters, len(ch.Subchapters), &Subchapter{
		ID:    id,
		Title: newSubchapterTitle,
		Type:  DefaultChapterType,
	})
	return s.withChapter(si, ci, &ch)
}

func (s Snapshot) UpdateSubchapter(sectionID, chapterID, subchapterID string, patch SubchapterPatch) Snapshot {
	si, ci, sbi := s.subchapterPath(sectionID, chapterID, subchapterID)
	if sbi < 0 {
		return s
	}
	ch := *s.Sections[si].Chapters[ci]
	ch.Subchapters = replaceSubchapter(ch.Subchapters, sbi, patch.apply(*ch.Subchapters[sbi]))
	return s.withChapter(si, ci, &ch)
}

func (s Snapshot) RemoveSubchapter(sectionID, chapterID, subchapterID string) Snapshot {
	si, ci, sbi := s.subchapterPath(sectionID, chapterID, subchapterID)
	if sbi < 0 {
		return s
	}
	ch := *s.Sections[si].Chapters[ci]
	ch.Subchapters = removeSubchapterAt(ch.Subchapters, sbi)
	return s.withChapter(si, ci, &ch)
}

func (s Snapshot) ReorderSubchapters(sectionID, chapterID, activeID, overID string) Snapshot {
	if activeID == overID {
		return s
	}
	si, ci := s.chapterPath(sectionID, chapterID)
	if ci < 0 {
		return s
	}
	ch := *s.Sections[si].Chapters[ci]
	from, to := subchapterIndex(ch.Subchapters, activeID), subchapterIndex(ch.Subchapters, overID)
	if from < 0 || to < 0 {
		return s
	}
	sub := ch.Subchapters[from]
	ch.Subchapters = insertSubchapter(removeSubchapterAt(ch.Subchapters, from), to, sub)
	return s.withChapter(si, ci, &ch)
}

// MoveSubchapter is MoveChapter one level deeper: parents are (section, chapter) pairs.
func (s Snapshot) MoveSubchapter(
	fromSectionID, fromChapterID, toSectionID, toChapterID, subchapterID string,
	targetIndex ...int,
) Snapshot {
	fsi, fci, sbi := s.subchapterPath(fromSectionID, fromChapterID, subchapterID)
	tsi, tci := s.chapterPath(toSectionID, toChapterID)
	if sbi < 0 || tci < 0 {
		return s
	}
	same := fsi == tsi && fci == tci

	src := *s.Sections[fsi].Chapters[fci]
	sub := src.Subchapters[sbi]
	src.Subchapters = removeSubchapterAt(src.Subchapters, sbi)

	var dst Chapter
	if same {
		dst = src
	} else {
		dst = *s.Sections[tsi].Chapters[tci]
	}
	idx := targetPosition(len(dst.Subchapters), sbi, same, targetIndex)
	dst.Subchapters = insertSubchapter(dst.Subchapters, idx, sub)

	if same {
		return s.withChapter(tsi, tci, &dst)
	}
	return s.withChapter(fsi, fci, &src).withChapter(tsi, tci, &dst)
}

// path helpers

func (s Snapshot) withSection(i int, sec *Section) Snapshot {
	s.Sections = replaceSection(s.Sections, i, sec)
	return s
}

func (s Snapshot) withChapter(si, ci int, ch *Chapter) Snapshot {
	sec := *s.Sections[si]
	sec.Chapters = replaceChapter(sec.Chapters, ci, ch)
	return s.withSection(si, &sec)
}

// chapterPath returns the indices of the section & chapter; ci is -1 if either is missing.
func (s Snapshot) chapterPath(sectionID, chapterID string) (si, ci int) {
	si = sectionIndex(s.Sections, sectionID)
	if si < 0 {
		return -1, -1
	}
	return si, chapterIndex(s.Sections[si].Chapters, chapterID)
}

func (s Snapshot) subchapterPath(sectionID, chapterID, subchapterID string) (si, ci, sbi int) {
	si, ci = s.chapterPath(sectionID, chapterID)
	if ci < 0 {
		return -1, -1, -1
	}
	return si, ci, subchapterIndex(s.Sections[si].Chapters[ci].Subchapters, subchapterID)
}

// targetPosition resolves the insert position of a moved item in a list of n items
// (already without the moved one).
func targetPosition(n, origIdx int, sameParent bool, target []int) int {
	if len(target) == 0 {
		return n
	}
	idx := target[0]
	if sameParent && idx > origIdx {
		idx--
	}
	return clamp(idx, 0, n)
}

func clamp(i, min, max int) int {
	if i < min {
		return min
	}
	if i > max {
		return max
	}
	return i
}

// copy-on-write slice helpers: they always return a fresh backing array.

func sectionIndex(list []*Section, id string) int {
	for i, sec := range list {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

func insertSection(list []*Section, i int, sec *Section) []*Section {
	out := make([]*Section, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, sec)
	return append(out, list[i:]...)
}

func removeSectionAt(list []*Section, i int) []*Section {
	out := make([]*Section, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func replaceSection(list []*Section, i int, sec *Section) []*Section {
	out := append(make([]*Section, 0, len(list)), list...)
	out[i] = sec
	return out
}

func chapterIndex(list []*Chapter, id string) int {
	for i, ch := range list {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

func insertChapter(list []*Chapter, i int, ch *Chapter) []*Chapter {
	out := make([]*Chapter, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, ch)
	return append(out, list[i:]...)
}

func removeChapterAt(list []*Chapter, i int) []*Chapter {
	out := make([]*Chapter, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func replaceChapter(list []*Chapter, i int, ch *Chapter) []*Chapter {
	out := append(make([]*Chapter, 0, len(list)), list...)
	out[i] = ch
	return out
}

func subchapterIndex(list []*Subchapter, id string) int {
	for i, sub := range list {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func insertSubchapter(list []*Subchapter, i int, sub *Subchapter) []*Subchapter {
	out := make([]*Subchapter, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, sub)
	return append(out, list[i:]...)
}

func removeSubchapterAt(list []*Subchapter, i int) []*Subchapter {
	out := make([]*Subchapter, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func replaceSubchapter(list []*Subchapter, i int, sub *Subchapter) []*Subchapter {
	out := append(make([]*Subchapter, 0, len(list)), list...)
	out[i] = sub
	return out
}
