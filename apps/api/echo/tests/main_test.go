package tests

import (
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database/dummy"
	"github.com/trezcool/academia/tests"
)

// setup returns a fresh app backed by an empty in-memory database.
// Builder ids are deterministic: "id-1", "id-2", ...
func setup(t *testing.T) (Server, course.Repository) {
	db := testutil.PrepareDB(t)
	repo := dummydb.NewDraftRepository(db)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)

	logger := logsvc.NewLoggerMock()
	app := NewServer(ServerDeps{
		Conf:           &core.Config{TestMode: true},
		Logger:         logger,
		DraftSvc:       course.NewService(repo, course.NewStubIDGenerator(), logger),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return app, repo
}
