package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database/dummy"
	"github.com/trezcool/academia/tests"
)

var draftRepo course.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	draftRepo = dummydb.NewDraftRepository(testutil.PrepareDB(t))

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	course.InitValidators(validate, translator)

	// start CLI
	var out bytes.Buffer
	return &commandLine{
		db:       new(sql.DB),
		svc:      course.NewService(draftRepo, course.NewStubIDGenerator(), logsvc.NewLoggerMock()),
		validate: validate,
		out:      &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func checkErr(t *testing.T, tt cliTest, err error) {
	if err == nil {
		if tt.wantErr != nil || tt.wantErrStr != "" {
			t.Errorf("cli.run() error = nil, wantErr %v %s", tt.wantErr, tt.wantErrStr)
		}
		return
	}
	if tt.wantErr != nil {
		if err != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	} else if tt.wantErrStr != "" {
		if err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	} else {
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, out := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"export", "-lol"}, wantErr: errHelp},
		{name: "export: no args", args: []string{"export"}, wantErr: errHelp},
		{name: "import: no args", args: []string{"import", "-title", "Go"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			checkErr(t, tt, cli.run(args))
			assert.NotEmpty(t, out.String(), "usage is printed")
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, fsys fs.FS, dir string, args ...string) error {
		if dir != "migrations" {
			return fmt.Errorf("unexpected migrations dir %q", dir)
		}
		if _, err := fs.Stat(fsys, "migrations/00001_create_course_draft.sql"); err != nil {
			return err
		}
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	t.Run("no database", func(t *testing.T) {
		noDB := *cli
		noDB.db = nil
		checkErr(t, cliTest{wantErr: errNoDatabase}, noDB.run([]string{"admin", "migrate", "up"}))
	})
}

func Test_commandLine_export(t *testing.T) {
	cli, out := setup(t)

	snap := course.NewSnapshot().AddSection("s1").AddChapter("s1", "a")
	draft := testutil.CreateDraft(t, draftRepo, "Go 101", snap)

	compact, err := json.Marshal(draft.Snapshot)
	require.NoError(t, err)
	indented, err := json.MarshalIndent(draft.Snapshot, "", "  ")
	require.NoError(t, err)

	tests := []struct {
		cliTest
		terminal bool
	}{
		{cliTest: cliTest{name: "unknown draft", args: []string{"export", "-id", "lol"}, wantErrStr: "getting draft: draft not found"}},
		{cliTest: cliTest{name: "piped", args: []string{"export", "-id", draft.ID}, wantOut: string(compact) + "\n"}},
		{cliTest: cliTest{name: "terminal", args: []string{"export", "-id", draft.ID}, wantOut: string(indented) + "\n"}, terminal: true},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			isTerminalFunc = func(fd int) bool { return tt.terminal }
			out.Reset()

			checkErr(t, tt.cliTest, cli.run(args))
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, out.String())
			}
		})
	}
}

func Test_commandLine_import(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	snap := course.NewSnapshot().AddSection("s1").AddChapter("s1", "a")
	snap.General.Title = "Imported"
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	valid := writeFile("valid.json", string(data))
	untitled := writeFile("untitled.json", `{"sections": []}`)
	invalid := writeFile("invalid.json", `lol`)
	duplicates := writeFile("duplicates.json", `{"general": {"title": "Go"}, "sections": [{"id": "s1"}, {"id": "s1"}]}`)
	badType := writeFile("bad_type.json", `{"general": {"title": "Go"}, "sections": [{"id": "s1", "chapters": [{"id": "a", "type": "lol"}]}]}`)

	tests := []struct {
		cliTest
		wantTitle string
	}{
		{cliTest: cliTest{name: "missing file", args: []string{"import", "-file", filepath.Join(dir, "lol.json")}}},
		{cliTest: cliTest{name: "invalid json", args: []string{"import", "-file", invalid}}},
		{cliTest: cliTest{name: "no title", args: []string{"import", "-file", untitled}}},
		{cliTest: cliTest{name: "duplicate section ids", args: []string{"import", "-file", duplicates}}},
		{cliTest: cliTest{name: "unknown chapter type", args: []string{"import", "-file", badType}}},
		{cliTest: cliTest{name: "snapshot title", args: []string{"import", "-file", valid}}, wantTitle: "Imported"},
		{cliTest: cliTest{name: "explicit title", args: []string{"import", "-file", valid, "-title", " Go 101 "}}, wantTitle: "Go 101"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			if tt.wantTitle == "" {
				assert.Error(t, err)
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)

			draft, err := draftRepo.GetDraft(ctx, strings.TrimSpace(out.String()))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, draft.Title)
			assert.Equal(t, "Imported", draft.Snapshot.General.Title)
			assert.Equal(t, snap.Sections, draft.Snapshot.Sections)
		})
	}
}

func Test_commandLine_list(t *testing.T) {
	cli, out := setup(t)

	testutil.CreateDraft(t, draftRepo, "Intro to Go", course.NewSnapshot().AddSection("s1").AddChapter("s1", "a"))
	testutil.CreateDraft(t, draftRepo, "Advanced SQL", course.NewSnapshot())

	require.NoError(t, cli.run([]string{"admin", "list", "-search", "go"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Intro to Go")
	assert.Regexp(t, `Intro to Go\s+1\s+`, lines[1])
}
