package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/storage/database/dummy"
)

// PrepareDB returns a fresh in-memory database.
func PrepareDB(t *testing.T) *dummydb.DB {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateDraft(
	t *testing.T,
	repo course.Repository,
	title string,
	snapshot course.Snapshot,
	createdAt ...time.Time,
) course.Draft {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if snapshot.General.Title == "" {
		snapshot.General.Title = title
	}
	draft, err := repo.CreateDraft(context.Background(), course.Draft{
		Title:     title,
		Snapshot:  snapshot,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateDraft() failed: %v", err)
	}
	return draft
}
