package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

const draftSelect = "SELECT id, title, snapshot, created_at, updated_at FROM course_draft"

// orderable columns, by ordering field name
var draftColumns = map[string]string{
	"title":      "lower(title)",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// likeEscaper makes LIKE wildcards in a search keyword match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type draftRow struct {
	ID        string         `db:"id"`
	Title     null.String    `db:"title"`
	Snapshot  types.JSONText `db:"snapshot"`
	CreatedAt null.Time      `db:"created_at"`
	UpdatedAt null.Time      `db:"updated_at"`
}

type draftRepository struct {
	db sqlx.ExtContext
}

var _ course.Repository = (*draftRepository)(nil) // interface compliance check

// NewDraftRepository accepts a *sqlx.DB or a *sqlx.Tx.
func NewDraftRepository(db sqlx.ExtContext) *draftRepository {
	return &draftRepository{db: db}
}

func (repo draftRepository) toRow(d course.Draft) (draftRow, error) {
	data, err := json.Marshal(d.Snapshot)
	if err != nil {
		return draftRow{}, errors.Wrap(err, "encoding snapshot")
	}
	return draftRow{
		ID:        d.ID,
		Title:     null.StringFrom(d.Title),
		Snapshot:  types.JSONText(data),
		CreatedAt: null.NewTime(d.CreatedAt.UTC(), !d.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(d.UpdatedAt.UTC(), !d.UpdatedAt.IsZero()),
	}, nil
}

func (repo draftRepository) fromRow(row draftRow) (course.Draft, error) {
	snap := course.NewSnapshot()
	if err := row.Snapshot.Unmarshal(&snap); err != nil {
		return course.Draft{}, errors.Wrap(err, "decoding snapshot")
	}
	return course.Draft{
		ID:        row.ID,
		Title:     row.Title.String,
		Snapshot:  course.Clone(snap),
		CreatedAt: row.CreatedAt.Time.UTC(),
		UpdatedAt: row.UpdatedAt.Time.UTC(),
	}, nil
}

// trapNoRowsErr maps psql "no rows" err to course.ErrNotFound
func (repo draftRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo draftRepository) CreateDraft(ctx context.Context, draft course.Draft) (course.Draft, error) {
	draft.ID = uuid.New().String()
	row, err := repo.toRow(draft)
	if err != nil {
		return course.Draft{}, err
	}

	q := `INSERT INTO course_draft (id, title, snapshot, created_at, updated_at)
		VALUES (:id, :title, :snapshot, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return course.Draft{}, errors.Wrap(err, "inserting draft")
	}
	return repo.fromRow(row)
}

func (repo draftRepository) GetDraft(ctx context.Context, id string) (course.Draft, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Draft{}, course.ErrNotFound
	}

	var row draftRow
	if err := sqlx.GetContext(ctx, repo.db, &row, draftSelect+" WHERE id = $1", id); err != nil {
		return course.Draft{}, repo.trapNoRowsErr(err, "getting draft")
	}
	return repo.fromRow(row)
}

func (repo draftRepository) QueryDrafts(
	ctx context.Context,
	filter *course.QueryFilter,
	ordering []core.DBOrdering,
) ([]course.Draft, error) {
	q := draftSelect
	var args []interface{}

	// drafts with a title matching the search keyword
	if !filter.IsEmpty() {
		q += ` WHERE title ILIKE $1 ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(filter.Search)+"%")
	}
	q += " ORDER BY " + orderBy(ordering)

	var rows []draftRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying drafts")
	}

	drafts := make([]course.Draft, 0, len(rows))
	for _, row := range rows {
		d, err := repo.fromRow(row)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func orderBy(ordering []core.DBOrdering) string {
	clauses := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		if col, ok := draftColumns[ord.Field]; ok {
			ord.Field = col
			clauses = append(clauses, ord.String())
		}
	}
	if len(clauses) == 0 {
		clauses = append(clauses, core.DBOrdering{Field: "created_at"}.String())
	}
	return strings.Join(append(clauses, "id ASC"), ", ")
}

func (repo draftRepository) UpdateDraft(ctx context.Context, draft course.Draft) (course.Draft, error) {
	if _, err := uuid.Parse(draft.ID); err != nil {
		return course.Draft{}, course.ErrNotFound
	}
	row, err := repo.toRow(draft)
	if err != nil {
		return course.Draft{}, err
	}

	q := `UPDATE course_draft SET title = :title, snapshot = :snapshot, updated_at = :updated_at WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, repo.db, q, row)
	if err != nil {
		return course.Draft{}, errors.Wrap(err, "updating draft")
	}
	if n, err := res.RowsAffected(); err != nil {
		return course.Draft{}, errors.Wrap(err, "updating draft")
	} else if n == 0 {
		return course.Draft{}, course.ErrNotFound
	}
	return repo.GetDraft(ctx, draft.ID)
}

func (repo draftRepository) DeleteDraftsByID(ctx context.Context, ids ...string) error {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	q, args, err := sqlx.In("DELETE FROM course_draft WHERE id IN (?)", valid)
	if err != nil {
		return errors.Wrap(err, "deleting drafts")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting drafts")
	}
	return nil
}
