package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/tests"
)

var errDraftNotFound = httpErr{Error: "draft not found"}

func Test_home(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Academia API!", rec.Body.String())
}

func Test_draftApi_create(t *testing.T) {
	app, repo := setup(t)

	tests := []httpTest{
		{name: "required fields", wantCode: http.StatusBadRequest, wantData: []byte(`{"title": "this field cannot be blank"}`)},
		{
			name: "blank title", body: []byte(`{"title": "   "}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"title": "this field cannot be blank"}`),
		},
		{
			name: "invalid snapshot", body: []byte(`{"title": "Go 101", "snapshot": "lol"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "duplicate section ids",
			body:     []byte(`{"title": "Go 101", "snapshot": {"sections": [{"id": "s1"}, {"id": "s1"}]}}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"sections": "ids must be unique within the list"}`),
		},
		{
			name:     "unknown chapter type",
			body:     []byte(`{"title": "Go 101", "snapshot": {"sections": [{"id": "s1", "chapters": [{"id": "a", "type": "lol"}]}]}}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"type": "must be one of: video, text, quiz"}`),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/drafts"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				assert.Equal(t, tt.wantCode, rec.Code)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("created", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/drafts", []byte(`{"title": "  Go 101 "}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got course.Draft
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Go 101", got.Title)
		assert.Equal(t, "Go 101", got.Snapshot.General.Title)
		assert.Empty(t, got.Snapshot.Sections)

		stored, err := repo.GetDraft(context.Background(), got.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Title, stored.Title)
	})

	t.Run("imported snapshot", func(t *testing.T) {
		snap := course.NewSnapshot().AddSection("s1").AddChapter("s1", "a")
		snap.General.Title = "Imported"
		req, rec := newRequest(http.MethodPost, "/v1/drafts", marchallObj(t, course.NewDraft{Title: "Import", Snapshot: &snap}))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var got course.Draft
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Import", got.Title)
		assert.Equal(t, snap, got.Snapshot)
	})
}

func Test_draftApi_query(t *testing.T) {
	app, repo := setup(t)

	path := func(search, ordering string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		return "/v1/drafts?" + v.Encode()
	}

	now := time.Now()
	intro := testutil.CreateDraft(t, repo, "Intro to Go", course.NewSnapshot(), now.Add(1*time.Hour))
	sql := testutil.CreateDraft(t, repo, "Advanced SQL", course.NewSnapshot(), now.Add(2*time.Hour))
	conc := testutil.CreateDraft(t, repo, "go concurrency", course.NewSnapshot(), now.Add(3*time.Hour))

	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Get all", path: "/v1/drafts", wantData: marchallList(t, conc, sql, intro)},
		{name: "search (unknown)", path: path("rust", ""), wantData: empty},
		{name: "search=GO", path: path("GO", ""), wantData: marchallList(t, conc, intro)},
		{name: "order by title", path: path("", "title"), wantData: marchallList(t, sql, conc, intro)},
		{name: "order by -created_at", path: path("", "-created_at"), wantData: marchallList(t, conc, sql, intro)},
		{name: "order by created_at", path: path("", "created_at"), wantData: marchallList(t, intro, sql, conc)},
		{name: "filtering & ordering", path: path("go", "-title"), wantData: marchallList(t, intro, conc)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_draftApi_retrieve(t *testing.T) {
	app, repo := setup(t)
	draft := testutil.CreateDraft(t, repo, "Go 101", course.NewSnapshot())

	tests := []httpTest{
		{name: "unknown", path: "/v1/drafts/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, errDraftNotFound)},
		{name: "found", path: "/v1/drafts/" + draft.ID, wantCode: http.StatusOK, wantData: marchallObj(t, draft)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_draftApi_destroy(t *testing.T) {
	app, repo := setup(t)
	ctx := context.Background()

	d1 := testutil.CreateDraft(t, repo, "One", course.NewSnapshot())
	d2 := testutil.CreateDraft(t, repo, "Two", course.NewSnapshot())
	d3 := testutil.CreateDraft(t, repo, "Three", course.NewSnapshot())

	req, rec := newRequest(http.MethodDelete, "/v1/drafts/"+d1.ID)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, err := repo.GetDraft(ctx, d1.ID)
	assert.Equal(t, course.ErrNotFound, err)

	// unknown ids are ignored
	v := url.Values{"id": []string{d2.ID, d3.ID, "lol"}}
	req, rec = newRequest(http.MethodDelete, "/v1/drafts?"+v.Encode())
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	drafts, err := repo.QueryDrafts(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func Test_draftApi_session(t *testing.T) {
	app, repo := setup(t)
	draft := testutil.CreateDraft(t, repo, "Go 101", course.NewSnapshot())
	base := "/v1/drafts/" + draft.ID

	serve := func(method, path string, body ...[]byte) int {
		req, rec := newRequest(method, path, body...)
		app.ServeHTTP(rec, req)
		return rec.Code
	}

	// unknown drafts have no session
	req, rec := newRequest(http.MethodGet, "/v1/drafts/lol/state")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errDraftNotFound)}, rec)

	require.Equal(t, http.StatusCreated, serve(http.MethodPost, base+"/sections"))
	require.Equal(t, http.StatusOK, serve(http.MethodPatch, base+"/general", []byte(`{"title": "Go 102"}`)))

	// nothing stored until saved
	stored, err := repo.GetDraft(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Snapshot.Sections)

	req, rec = newRequest(http.MethodGet, base+"/diff")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "--- saved\n+++ working\n"), rec.Body.String())
	assert.Contains(t, rec.Body.String(), `+  "sections": [`)

	req, rec = newRequest(http.MethodPost, base+"/save")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved course.Draft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "Go 102", saved.Title)
	assert.Len(t, saved.Snapshot.Sections, 1)

	req, rec = newRequest(http.MethodGet, base+"/diff")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", rec.Body.String())

	// discarding drops unsaved changes
	require.Equal(t, http.StatusCreated, serve(http.MethodPost, base+"/sections"))
	require.Equal(t, http.StatusNoContent, serve(http.MethodDelete, base+"/session"))

	req, rec = newRequest(http.MethodGet, base+"/state")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var st course.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Len(t, st.Snapshot.Sections, 1)
}
