package course

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var (
	chapterTypeTag  = "chaptertype"
	chapterTypeText = "must be one of: " + joinChapterTypes()

	uniqueIDsTag  = "uniqueids"
	uniqueIDsText = "ids must be unique within the list"

	subchapterIDTag  = "subchapter_id"
	subchapterIDText = "subchapter_id is required to select a subchapter"
)

// InitValidators registers the course validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(chapterTypeTag, chapterTypeValidation)
	core.RegisterCustomTranslation(validate, translator, chapterTypeTag, chapterTypeText)

	_ = validate.RegisterValidation(uniqueIDsTag, uniqueIDsValidation)
	core.RegisterCustomTranslation(validate, translator, uniqueIDsTag, uniqueIDsText)

	validate.RegisterStructValidation(selectionStructValidation, Selection{})
	core.RegisterCustomTranslation(validate, translator, subchapterIDTag, subchapterIDText)
}

func joinChapterTypes() string {
	types := make([]string, 0, len(ChapterTypes))
	for _, ct := range ChapterTypes {
		types = append(types, string(ct))
	}
	return strings.Join(types, ", ")
}

// Custom Validators

// chapterTypeValidation checks that the field holds one of ChapterTypes
func chapterTypeValidation(fl validator.FieldLevel) bool {
	return ChapterType(fl.Field().String()).IsValid()
}

// uniqueIDsValidation rejects sibling lists holding the same id twice.
func uniqueIDsValidation(fl validator.FieldLevel) bool {
	var ids []string
	switch list := fl.Field().Interface().(type) {
	case []*Section:
		for _, sec := range list {
			if sec != nil {
				ids = append(ids, sec.ID)
			}
		}
	case []*Chapter:
		for _, ch := range list {
			if ch != nil {
				ids = append(ids, ch.ID)
			}
		}
	case []*Subchapter:
		for _, sub := range list {
			if sub != nil {
				ids = append(ids, sub.ID)
			}
		}
	case []Resource:
		for _, r := range list {
			ids = append(ids, r.ID)
		}
	case []Test:
		for _, t := range list {
			ids = append(ids, t.ID)
		}
	default:
		return false
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// selectionStructValidation requires a SubchapterID on subchapter selections.
func selectionStructValidation(sl validator.StructLevel) {
	if sel, ok := sl.Current().Interface().(Selection); ok {
		if sel.Type == SelectSubchapter && core.CleanString(sel.SubchapterID) == "" {
			sl.ReportError(sel.SubchapterID, "subchapter_id", "SubchapterID", subchapterIDTag, "")
		}
	}
}
