package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/course"
)

func TestDraftRepository(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewDraftRepository(db)
	ctx := context.Background()

	created := time.Date(2021, 1, 10, 9, 26, 36, 0, time.UTC)
	snap := course.NewSnapshot().AddSection("s1")
	draft, err := repo.CreateDraft(ctx, course.Draft{Title: "Go 101", Snapshot: snap, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)

	// stored snapshots are isolated from callers
	snap.Sections[0].Title = "changed"
	draft.Snapshot.Sections[0].Title = "changed"
	got, err := repo.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Section", got.Snapshot.Sections[0].Title)

	got.Title = "Go 102"
	got.CreatedAt = time.Now()
	got.UpdatedAt = created.Add(time.Hour)
	updated, err := repo.UpdateDraft(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Go 102", updated.Title)
	assert.Equal(t, created, updated.CreatedAt, "created_at is immutable")
	assert.Equal(t, created.Add(time.Hour), updated.UpdatedAt)

	_, err = repo.UpdateDraft(ctx, course.Draft{ID: "lol"})
	assert.Equal(t, course.ErrNotFound, err)

	require.NoError(t, repo.DeleteDraftsByID(ctx, draft.ID, "lol"))
	_, err = repo.GetDraft(ctx, draft.ID)
	assert.Equal(t, course.ErrNotFound, err)

	_, err = repo.CreateDraft(ctx, course.Draft{Title: "Other"})
	require.NoError(t, err)
	db.Reset()
	drafts, err := repo.QueryDrafts(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}
