package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/course"
)

var (
	builderKey = "builder"

	errBuilderNotFoundInCtx = errors.New("builder not found in echo.Context")
)

// editorApi exposes the Builder operations of an editing session.
// Every handler responds with the resulting StateResponse; unknown ids are no-ops, as in course.Builder.
type editorApi struct {
	validate *validator.Validate
}

func getContextBuilder(ctx echo.Context) (*course.Builder, error) {
	b, ok := ctx.Get(builderKey).(*course.Builder)
	if !ok {
		return nil, errBuilderNotFoundInCtx
	}
	return b, nil
}

// edit runs fn against the session Builder then responds with its state.
func (api *editorApi) edit(ctx echo.Context, fn func(b *course.Builder)) error {
	b, err := getContextBuilder(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving builder from context")
	}
	fn(b)
	return ctx.JSON(http.StatusOK, StateResponse{State: b.State()})
}

// add runs an adder against the session Builder; an empty id means the parent was not found.
func (api *editorApi) add(ctx echo.Context, fn func(b *course.Builder) string) error {
	b, err := getContextBuilder(ctx)
	if err != nil {
		return errors.Wrap(err, "retrieving builder from context")
	}
	id := fn(b)
	if id == "" {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusCreated, StateResponse{ID: id, State: b.State()})
}

// bind binds & validates the request payload.
func (api *editorApi) bind(ctx echo.Context, data interface{}, name string) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding to "+name)
	}
	return api.validate.Struct(data)
}

func (api *editorApi) state(ctx echo.Context) error {
	return api.edit(ctx, func(*course.Builder) {})
}

// General & lists

func (api *editorApi) updateGeneral(ctx echo.Context) error {
	var data course.GeneralPatch
	if err := api.bind(ctx, &data, "GeneralPatch"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.UpdateGeneral(data) })
}

func (api *editorApi) addObjective(ctx echo.Context) error {
	var data TextRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TextRequest")
	}
	return api.edit(ctx, func(b *course.Builder) { b.AddObjective(data.Text) })
}

func (api *editorApi) removeObjective(ctx echo.Context) error {
	text := ctx.QueryParam("text")
	return api.edit(ctx, func(b *course.Builder) { b.RemoveObjective(text) })
}

func (api *editorApi) addSkill(ctx echo.Context) error {
	var data TextRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TextRequest")
	}
	return api.edit(ctx, func(b *course.Builder) { b.AddSkill(data.Text) })
}

func (api *editorApi) removeSkill(ctx echo.Context) error {
	text := ctx.QueryParam("text")
	return api.edit(ctx, func(b *course.Builder) { b.RemoveSkill(text) })
}

func (api *editorApi) addResource(ctx echo.Context) error {
	var data ResourceRequest
	if err := api.bind(ctx, &data, "ResourceRequest"); err != nil {
		return err
	}
	return api.add(ctx, func(b *course.Builder) string { return b.AddResource(data.Title, data.Type, data.URL) })
}

func (api *editorApi) updateResource(ctx echo.Context) error {
	var data course.ResourcePatch
	if err := api.bind(ctx, &data, "ResourcePatch"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.UpdateResource(ctx.Param("rid"), data) })
}

func (api *editorApi) removeResource(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) { b.RemoveResource(ctx.Param("rid")) })
}

func (api *editorApi) addTest(ctx echo.Context) error {
	var data ResourceRequest
	if err := api.bind(ctx, &data, "ResourceRequest"); err != nil {
		return err
	}
	return api.add(ctx, func(b *course.Builder) string { return b.AddTest(data.Title, data.Type, data.URL) })
}

func (api *editorApi) updateTest(ctx echo.Context) error {
	var data course.TestPatch
	if err := api.bind(ctx, &data, "TestPatch"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.UpdateTest(ctx.Param("tid"), data) })
}

func (api *editorApi) removeTest(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) { b.RemoveTest(ctx.Param("tid")) })
}

// Sections

func (api *editorApi) addSection(ctx echo.Context) error {
	return api.add(ctx, func(b *course.Builder) string { return b.AddSection() })
}

func (api *editorApi) updateSection(ctx echo.Context) error {
	var data course.SectionPatch
	if err := api.bind(ctx, &data, "SectionPatch"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.UpdateSection(ctx.Param("sid"), data) })
}

func (api *editorApi) removeSection(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) { b.RemoveSection(ctx.Param("sid")) })
}

func (api *editorApi) reorderSections(ctx echo.Context) error {
	var data ReorderRequest
	if err := api.bind(ctx, &data, "ReorderRequest"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.ReorderSections(data.ActiveID, data.OverID) })
}

// Chapters

func (api *editorApi) addChapter(ctx echo.Context) error {
	return api.add(ctx, func(b *course.Builder) string { return b.AddChapter(ctx.Param("sid")) })
}

func (api *editorApi) updateChapter(ctx echo.Context) error {
	var data course.ChapterPatch
	if err := api.bind(ctx, &data, "ChapterPatch"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.UpdateChapter(ctx.Param("sid"), ctx.Param("cid"), data) })
}

func (api *editorApi) removeChapter(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) { b.RemoveChapter(ctx.Param("sid"), ctx.Param("cid")) })
}

func (api *editorApi) reorderChapters(ctx echo.Context) error {
	var data ReorderRequest
	if err := api.bind(ctx, &data, "ReorderRequest"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) { b.ReorderChapters(ctx.Param("sid"), data.ActiveID, data.OverID) })
}

func (api *editorApi) moveChapter(ctx echo.Context) error {
	var data MoveChapterRequest
	if err := api.bind(ctx, &data, "MoveChapterRequest"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) {
		b.MoveChapter(ctx.Param("sid"), data.ToSectionID, ctx.Param("cid"), targetIndex(data.TargetIndex)...)
	})
}

// Subchapters

func (api *editorApi) addSubchapter(ctx echo.Context) error {
	return api.add(ctx, func(b *course.Builder) string {
		return b.AddSubchapter(ctx.Param("sid"), ctx.Param("cid"))
	})
}

func (api *editorApi) updateSubchapter(ctx echo.Context) error {
	var data course.SubchapterPatch
	if err := api.bind(ctx, &data, "SubchapterPatch"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) {
		b.UpdateSubchapter(ctx.Param("sid"), ctx.Param("cid"), ctx.Param("scid"), data)
	})
}

func (api *editorApi) removeSubchapter(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) {
		b.RemoveSubchapter(ctx.Param("sid"), ctx.Param("cid"), ctx.Param("scid"))
	})
}

func (api *editorApi) reorderSubchapters(ctx echo.Context) error {
	var data ReorderRequest
	if err := api.bind(ctx, &data, "ReorderRequest"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) {
		b.ReorderSubchapters(ctx.Param("sid"), ctx.Param("cid"), data.ActiveID, data.OverID)
	})
}

func (api *editorApi) moveSubchapter(ctx echo.Context) error {
	var data MoveSubchapterRequest
	if err := api.bind(ctx, &data, "MoveSubchapterRequest"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) {
		b.MoveSubchapter(
			ctx.Param("sid"), ctx.Param("cid"),
			data.ToSectionID, data.ToChapterID,
			ctx.Param("scid"), targetIndex(data.TargetIndex)...,
		)
	})
}

// Selection

func (api *editorApi) setSelection(ctx echo.Context) error {
	var data course.Selection
	if err := api.bind(ctx, &data, "Selection"); err != nil {
		return err
	}
	return api.edit(ctx, func(b *course.Builder) {
		if data.Type == course.SelectSubchapter {
			b.SelectSubchapter(data.SectionID, data.ChapterID, data.SubchapterID)
		} else {
			b.SelectChapter(data.SectionID, data.ChapterID)
		}
	})
}

func (api *editorApi) clearSelection(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) { b.ClearSelection() })
}

func (api *editorApi) ensureSelection(ctx echo.Context) error {
	return api.edit(ctx, func(b *course.Builder) { b.EnsureSelection() })
}

type (
	StateResponse struct {
		ID string `json:"id,omitempty"`
		course.State
	}

	TextRequest struct {
		Text string `json:"text"`
	}

	ResourceRequest struct {
		Title string `json:"title"`
		Type  string `json:"type"`
		URL   string `json:"url" validate:"omitempty,url"`
	}

	ReorderRequest struct {
		ActiveID string `json:"active_id" validate:"required"`
		OverID   string `json:"over_id" validate:"required"`
	}

	// TargetIndex defaults to the end of the destination list.
	MoveChapterRequest struct {
		ToSectionID string `json:"to_section_id" validate:"required"`
		TargetIndex *int   `json:"target_index"`
	}

	MoveSubchapterRequest struct {
		ToSectionID string `json:"to_section_id" validate:"required"`
		ToChapterID string `json:"to_chapter_id" validate:"required"`
		TargetIndex *int   `json:"target_index"`
	}
)
