package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

type draftRepository struct {
	db *draftTable
}

var _ course.Repository = (*draftRepository)(nil) // interface compliance check

func NewDraftRepository(db *DB) course.Repository {
	return &draftRepository{db: db.draft}
}

// stored drafts never share snapshot memory with callers
func copyDraft(d course.Draft) course.Draft {
	d.Snapshot = course.Clone(d.Snapshot)
	return d
}

func (repo *draftRepository) query() []course.Draft {
	drafts := make([]course.Draft, 0, len(repo.db.table))
	for _, d := range repo.db.table {
		drafts = append(drafts, copyDraft(*d))
	}
	return drafts
}

func (repo *draftRepository) CreateDraft(_ context.Context, draft course.Draft) (course.Draft, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	draft.ID = uuid.New().String()
	draft = copyDraft(draft)
	repo.db.table[draft.ID] = &draft
	return copyDraft(draft), nil
}

func (repo *draftRepository) GetDraft(_ context.Context, id string) (course.Draft, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if d, ok := repo.db.table[id]; ok {
		return copyDraft(*d), nil
	}
	return course.Draft{}, course.ErrNotFound
}

func (repo *draftRepository) QueryDrafts(
	_ context.Context,
	filter *course.QueryFilter,
	ordering []core.DBOrdering,
) ([]course.Draft, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	drafts := repo.query()

	// drafts with a title matching the search keyword
	if !filter.IsEmpty() {
		search := strings.ToLower(filter.Search)
		filtered := make([]course.Draft, 0, len(drafts))
		for _, d := range drafts {
			if strings.Contains(strings.ToLower(d.Title), search) {
				filtered = append(filtered, d)
			}
		}
		drafts = filtered
	}

	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at"}}
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareDrafts(drafts[i], drafts[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return drafts[i].ID < drafts[j].ID
	})
	return drafts, nil
}

// compareDrafts returns -1, 0 or 1; unknown fields compare equal.
func compareDrafts(a, b course.Draft, field string) int {
	switch field {
	case "title":
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case "created_at":
		return compareTime(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "updated_at":
		return compareTime(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	}
	return 0
}

func compareTime(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (repo *draftRepository) UpdateDraft(_ context.Context, draft course.Draft) (course.Draft, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[draft.ID]
	if !ok {
		return course.Draft{}, course.ErrNotFound
	}
	draft.CreatedAt = orig.CreatedAt
	draft = copyDraft(draft)
	repo.db.table[draft.ID] = &draft
	return copyDraft(draft), nil
}

func (repo *draftRepository) DeleteDraftsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
