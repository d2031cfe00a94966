package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/course"
)

type draftApi struct {
	svc      *course.Service
	validate *validator.Validate
}

func registerDraftAPI(g *echo.Group, svc *course.Service, validate *validator.Validate) {
	api := draftApi{svc: svc, validate: validate}
	ed := editorApi{validate: validate}
	session := sessionMiddleware(svc)

	dg := g.Group("/drafts")
	dg.POST("", api.create)
	dg.GET("", api.query)
	dg.DELETE("", api.destroyMultiple)

	// detail endpoints
	dg.GET("/:id", api.retrieve)
	dg.DELETE("/:id", api.destroy)
	dg.POST("/:id/save", api.save)
	dg.GET("/:id/diff", api.diff)
	dg.DELETE("/:id/session", api.discard)

	// editing session endpoints
	dg.GET("/:id/state", ed.state, session)
	dg.PATCH("/:id/general", ed.updateGeneral, session)

	dg.POST("/:id/objectives", ed.addObjective, session)
	dg.DELETE("/:id/objectives", ed.removeObjective, session)
	dg.POST("/:id/skills", ed.addSkill, session)
	dg.DELETE("/:id/skills", ed.removeSkill, session)

	dg.POST("/:id/resources", ed.addResource, session)
	dg.PATCH("/:id/resources/:rid", ed.updateResource, session)
	dg.DELETE("/:id/resources/:rid", ed.removeResource, session)
	dg.POST("/:id/tests", ed.addTest, session)
	dg.PATCH("/:id/tests/:tid", ed.updateTest, session)
	dg.DELETE("/:id/tests/:tid", ed.removeTest, session)

	sg := "/:id/sections"
	dg.POST(sg, ed.addSection, session)
	dg.POST(sg+"/reorder", ed.reorderSections, session)
	dg.PATCH(sg+"/:sid", ed.updateSection, session)
	dg.DELETE(sg+"/:sid", ed.removeSection, session)

	cg := sg + "/:sid/chapters"
	dg.POST(cg, ed.addChapter, session)
	dg.POST(cg+"/reorder", ed.reorderChapters, session)
	dg.PATCH(cg+"/:cid", ed.updateChapter, session)
	dg.DELETE(cg+"/:cid", ed.removeChapter, session)
	dg.POST(cg+"/:cid/move", ed.moveChapter, session)

	scg := cg + "/:cid/subchapters"
	dg.POST(scg, ed.addSubchapter, session)
	dg.POST(scg+"/reorder", ed.reorderSubchapters, session)
	dg.PATCH(scg+"/:scid", ed.updateSubchapter, session)
	dg.DELETE(scg+"/:scid", ed.removeSubchapter, session)
	dg.POST(scg+"/:scid/move", ed.moveSubchapter, session)

	dg.PUT("/:id/selection", ed.setSelection, session)
	dg.DELETE("/:id/selection", ed.clearSelection, session)
	dg.POST("/:id/selection/ensure", ed.ensureSelection, session)
}

// Handlers

func (api *draftApi) create(ctx echo.Context) error {
	var data course.NewDraft
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDraft")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	draft, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating draft")
	}
	return ctx.JSON(http.StatusCreated, draft)
}

func (api *draftApi) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Draft{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	drafts, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying drafts")
	}
	if drafts == nil {
		drafts = []course.Draft{}
	}
	return ctx.JSON(http.StatusOK, drafts)
}

func (api *draftApi) retrieve(ctx echo.Context) error {
	draft, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting draft")
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *draftApi) save(ctx echo.Context) error {
	draft, err := api.svc.Save(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "saving draft")
	}
	return ctx.JSON(http.StatusOK, draft)
}

func (api *draftApi) diff(ctx echo.Context) error {
	diff, err := api.svc.Diff(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "diffing draft")
	}
	return ctx.String(http.StatusOK, diff)
}

func (api *draftApi) discard(ctx echo.Context) error {
	api.svc.Discard(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *draftApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting draft")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *draftApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting drafts")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// sessionMiddleware opens the editing session of the `:id` draft and stores its Builder in the context.
func sessionMiddleware(svc *course.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			b, err := svc.Open(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				return errors.Wrap(err, "opening draft session")
			}
			ctx.Set(builderKey, b)
			return next(ctx)
		}
	}
}

type DestroyMultipleRequest struct {
	IDs []string `query:"id"`
}
