package course

// ChapterType is the kind of content a chapter or subchapter holds.
type ChapterType string

const (
	ChapterVideo ChapterType = "video"
	ChapterText  ChapterType = "text"
	ChapterQuiz  ChapterType = "quiz"

	DefaultChapterType = ChapterVideo
)

var ChapterTypes = []ChapterType{ChapterVideo, ChapterText, ChapterQuiz}

// placeholders for freshly added nodes
const (
	newSectionTitle       = "New Section"
	newSectionDescription = "Describe what this section covers"
	newChapterTitle       = "New Chapter"
	newSubchapterTitle    = "New Subchapter"
)

// Snapshot is the complete authoring state of one course.
//
// Nodes are held by pointer and are never modified once they are part of a Snapshot:
// every mutation rebuilds the nodes along the mutated path and reuses the others,
// so an untouched Section (or Chapter) keeps the same address across snapshots.
type Snapshot struct {
	General    General    `json:"general"`
	Objectives []string   `json:"objectives"`
	Skills     []string   `json:"skills"`
	Sections   []*Section `json:"sections" validate:"uniqueids,dive"`
	Resources  []Resource `json:"resources" validate:"uniqueids,dive"`
	Tests      []Test     `json:"tests" validate:"uniqueids,dive"`
}

type General struct {
	Title            string `json:"title"`
	Subtitle         string `json:"subtitle"`
	Category         string `json:"category"`
	Level            string `json:"level"`
	Duration         string `json:"duration"`
	HeroImage        string `json:"hero_image"`
	TrailerURL       string `json:"trailer_url"`
	BadgeLabel       string `json:"badge_label"`
	BadgeDescription string `json:"badge_description"`
}

type Section struct {
	ID          string     `json:"id" validate:"notblank"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Chapters    []*Chapter `json:"chapters" validate:"uniqueids,dive"`
}

type Chapter struct {
	ID          string        `json:"id" validate:"notblank"`
	Title       string        `json:"title"`
	Duration    string        `json:"duration"`
	Type        ChapterType   `json:"type" validate:"chaptertype"`
	Summary     string        `json:"summary"`
	Content     string        `json:"content"`
	Subchapters []*Subchapter `json:"subchapters" validate:"uniqueids,dive"`
}

type Subchapter struct {
	ID       string      `json:"id" validate:"notblank"`
	Title    string      `json:"title"`
	Duration string      `json:"duration"`
	Type     ChapterType `json:"type" validate:"chaptertype"`
	Summary  string      `json:"summary"`
	Content  string      `json:"content"`
}

type Resource struct {
	ID    string `json:"id" validate:"notblank"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type Test struct {
	ID    string `json:"id" validate:"notblank"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// Patches only change the non-nil fields.
type (
	GeneralPatch struct {
		Title            *string `json:"title"`
		Subtitle         *string `json:"subtitle"`
		Category         *string `json:"category"`
		Level            *string `json:"level"`
		Duration         *string `json:"duration"`
		HeroImage        *string `json:"hero_image" validate:"omitempty,url"`
		TrailerURL       *string `json:"trailer_url" validate:"omitempty,url"`
		BadgeLabel       *string `json:"badge_label"`
		BadgeDescription *string `json:"badge_description"`
	}

	SectionPatch struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}

	ChapterPatch struct {
		Title    *string      `json:"title"`
		Duration *string      `json:"duration"`
		Type     *ChapterType `json:"type" validate:"omitempty,chaptertype"`
		Summary  *string      `json:"summary"`
		Content  *string      `json:"content"`
	}

	SubchapterPatch ChapterPatch

	ResourcePatch struct {
		Title *string `json:"title"`
		Type  *string `json:"type"`
		URL   *string `json:"url" validate:"omitempty,url"`
	}

	TestPatch ResourcePatch
)

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (p GeneralPatch) apply(g General) General {
	setString(&g.Title, p.Title)
	setString(&g.Subtitle, p.Subtitle)
	setString(&g.Category, p.Category)
	setString(&g.Level, p.Level)
	setString(&g.Duration, p.Duration)
	setString(&g.HeroImage, p.HeroImage)
	setString(&g.TrailerURL, p.TrailerURL)
	setString(&g.BadgeLabel, p.BadgeLabel)
	setString(&g.BadgeDescription, p.BadgeDescription)
	return g
}

func (p SectionPatch) apply(sec Section) *Section {
	setString(&sec.Title, p.Title)
	setString(&sec.Description, p.Description)
	return &sec
}

func (p ChapterPatch) apply(ch Chapter) *Chapter {
	setString(&ch.Title, p.Title)
	setString(&ch.Duration, p.Duration)
	setString(&ch.Summary, p.Summary)
	setString(&ch.Content, p.Content)
	if p.Type != nil {
		ch.Type = *p.Type
	}
	return &ch
}

func (p SubchapterPatch) apply(sub Subchapter) *Subchapter {
	setString(&sub.Title, p.Title)
	setString(&sub.Duration, p.Duration)
	setString(&sub.Summary, p.Summary)
	setString(&sub.Content, p.Content)
	if p.Type != nil {
		sub.Type = *p.Type
	}
	return &sub
}

func (p ResourcePatch) apply(r Resource) Resource {
	setString(&r.Title, p.Title)
	setString(&r.Type, p.Type)
	setString(&r.URL, p.URL)
	return r
}

func (p TestPatch) apply(t Test) Test {
	setString(&t.Title, p.Title)
	setString(&t.Type, p.Type)
	setString(&t.URL, p.URL)
	return t
}

// IsValid reports whether t is one of the known ChapterTypes.
func (t ChapterType) IsValid() bool {
	for _, ct := range ChapterTypes {
		if t == ct {
			return true
		}
	}
	return false
}
