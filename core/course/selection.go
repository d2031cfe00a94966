package course

type SelectionType string

const (
	SelectChapter    SelectionType = "chapter"
	SelectSubchapter SelectionType = "subchapter"
)

// Selection points at the chapter or subchapter focused in the editor.
// A nil *Selection means nothing is selected.
type Selection struct {
	Type         SelectionType `json:"type" validate:"required,oneof=chapter subchapter"`
	SectionID    string        `json:"section_id" validate:"required"`
	ChapterID    string        `json:"chapter_id" validate:"required"`
	SubchapterID string        `json:"subchapter_id,omitempty"`
}

func ChapterSelection(sectionID, chapterID string) *Selection {
	return &Selection{Type: SelectChapter, SectionID: sectionID, ChapterID: chapterID}
}

func SubchapterSelection(sectionID, chapterID, subchapterID string) *Selection {
	return &Selection{Type: SelectSubchapter, SectionID: sectionID, ChapterID: chapterID, SubchapterID: subchapterID}
}

// Valid reports whether sel denotes an existing chapter or subchapter of sections.
// A nil selection is never "valid": there is nothing to point at.
func (sel *Selection) Valid(sections []*Section) bool {
	if sel == nil {
		return false
	}
	si := sectionIndex(sections, sel.SectionID)
	if si < 0 {
		return false
	}
	ci := chapterIndex(sections[si].Chapters, sel.ChapterID)
	if ci < 0 {
		return false
	}
	switch sel.Type {
	case SelectChapter:
		return true
	case SelectSubchapter:
		return subchapterIndex(sections[si].Chapters[ci].Subchapters, sel.SubchapterID) >= 0
	default:
		return false
	}
}

// FindFirstSelectable returns the first chapter of the first section that has one, or nil.
func FindFirstSelectable(sections []*Section) *Selection {
	for _, sec := range sections {
		if len(sec.Chapters) > 0 {
			return ChapterSelection(sec.ID, sec.Chapters[0].ID)
		}
	}
	return nil
}

// EnsureSelection keeps sel if it still points at an existing node,
// else it falls back to FindFirstSelectable.
func EnsureSelection(sel *Selection, sections []*Section) *Selection {
	if sel.Valid(sections) {
		return sel
	}
	return FindFirstSelectable(sections)
}

func (sel *Selection) copy() *Selection {
	if sel == nil {
		return nil
	}
	c := *sel
	return &c
}
