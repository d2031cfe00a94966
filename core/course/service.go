package course

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/academia/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("draft not found")
)

type (
	Repository interface {
		CreateDraft(ctx context.Context, draft Draft) (Draft, error)
		GetDraft(ctx context.Context, id string) (Draft, error)
		// QueryDrafts applies the QueryFilter then the ordering; nil filter means everything.
		// QueryFilter.Search does a case-insensitive match on Draft.Title.
		QueryDrafts(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Draft, error)
		UpdateDraft(ctx context.Context, draft Draft) (Draft, error)
		DeleteDraftsByID(ctx context.Context, ids ...string) error
	}

	// Service persists drafts and keeps one editing session (a Builder) per opened draft.
	Service struct {
		repo   Repository
		ids    IDGenerator
		logger core.Logger

		mu       sync.Mutex
		sessions map[string]*session
	}

	// session is the editing state of one opened draft.
	// version counts Builder notifications; the session has unsaved changes while it differs from saved.
	session struct {
		b           *Builder
		unsubscribe func()
		lastUsed    time.Time
		version     int
		saved       int
	}
)

// NewService returns a Service. ids defaults to UUIDGenerator when nil.
func NewService(repo Repository, ids IDGenerator, logger core.Logger) *Service {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Service{
		repo:     repo,
		ids:      ids,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Create stores a new draft; nd is expected to have passed NewDraft.Validate.
// When nd.Snapshot is set it is hydrated through a Builder first.
func (svc *Service) Create(ctx context.Context, nd NewDraft) (Draft, error) {
	snap := NewSnapshot()
	if nd.Snapshot != nil {
		b := NewBuilder(svc.ids)
		b.Load(*nd.Snapshot)
		snap = b.Snapshot()
	}
	if snap.General.Title == "" {
		snap.General.Title = nd.Title
	}

	now := NowFunc().UTC()
	return svc.repo.CreateDraft(ctx, Draft{
		Title:     nd.Title,
		Snapshot:  snap,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Draft, error) {
	return svc.repo.QueryDrafts(ctx, filter, ordering)
}

func (svc *Service) Get(ctx context.Context, id string) (Draft, error) {
	return svc.repo.GetDraft(ctx, id)
}

// Open returns the editing session of a draft, starting it from the stored snapshot if needed.
func (svc *Service) Open(ctx context.Context, id string) (*Builder, error) {
	if b, ok := svc.lookup(id); ok {
		return b, nil
	}

	draft, err := svc.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(svc.ids)
	b.Load(draft.Snapshot)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if s, ok := svc.sessions[id]; ok { // opened concurrently
		s.lastUsed = NowFunc()
		return s.b, nil
	}
	s := &session{b: b, lastUsed: NowFunc()}
	s.unsubscribe = b.Subscribe(func(State) {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		s.version++
		s.lastUsed = NowFunc()
	})
	svc.sessions[id] = s
	svc.logger.Info("session opened", draft)
	return b, nil
}

func (svc *Service) lookup(id string) (*Builder, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	s, ok := svc.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastUsed = NowFunc()
	return s.b, true
}

// Save persists the working snapshot of a draft. The draft title follows general.title when it is set.
func (svc *Service) Save(ctx context.Context, id string) (Draft, error) {
	b, err := svc.Open(ctx, id)
	if err != nil {
		return Draft{}, err
	}
	draft, err := svc.repo.GetDraft(ctx, id)
	if err != nil {
		return Draft{}, err
	}

	svc.mu.Lock()
	var version int
	if s, ok := svc.sessions[id]; ok {
		version = s.version
	}
	svc.mu.Unlock()

	draft.Snapshot = b.Snapshot()
	if title := core.CleanString(draft.Snapshot.General.Title); title != "" {
		draft.Title = title
	}
	draft.UpdatedAt = NowFunc().UTC()
	if draft, err = svc.repo.UpdateDraft(ctx, draft); err != nil {
		return Draft{}, errors.Wrap(err, "updating draft")
	}

	svc.mu.Lock()
	if s, ok := svc.sessions[id]; ok && s.b == b {
		s.saved = version
	}
	svc.mu.Unlock()

	svc.logger.Info("session saved", draft)
	return draft, nil
}

// Discard drops the editing session of a draft, losing unsaved changes.
func (svc *Service) Discard(id string) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.drop(id) {
		svc.logger.Info("session discarded", map[string]interface{}{"draft": id})
	}
}

// EvictIdle drops the sessions without unsaved changes that were not used for longer than maxIdle.
// It returns the number of evicted sessions.
func (svc *Service) EvictIdle(maxIdle time.Duration) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := NowFunc()
	var n int
	for id, s := range svc.sessions {
		if s.version == s.saved && now.Sub(s.lastUsed) > maxIdle {
			svc.drop(id)
			n++
		}
	}
	if n > 0 {
		svc.logger.Info("idle sessions evicted", map[string]interface{}{"count": n})
	}
	return n
}

// drop removes a session; svc.mu must be held.
func (svc *Service) drop(id string) bool {
	s, ok := svc.sessions[id]
	if !ok {
		return false
	}
	// listeners never hold the Builder lock while waiting on svc.mu
	s.unsubscribe()
	delete(svc.sessions, id)
	return true
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	if err := svc.repo.DeleteDraftsByID(ctx, ids...); err != nil {
		return err
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, id := range ids {
		svc.drop(id)
	}
	return nil
}

// Diff returns a unified diff of the stored snapshot against the working one; "" when they match.
func (svc *Service) Diff(ctx context.Context, id string) (string, error) {
	b, err := svc.Open(ctx, id)
	if err != nil {
		return "", err
	}
	draft, err := svc.repo.GetDraft(ctx, id)
	if err != nil {
		return "", err
	}

	saved, err := json.MarshalIndent(draft.Snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	working, err := json.MarshalIndent(b.Snapshot(), "", "  ")
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(saved)),
		B:        difflib.SplitLines(string(working)),
		FromFile: "saved",
		ToFile:   "working",
		Context:  3,
	})
}

// Draft is a course being authored, as persisted.
type Draft struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Snapshot  Snapshot  `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewDraft contains information needed to create a new Draft.
type NewDraft struct {
	Title    string    `json:"title" validate:"notblank"`
	Snapshot *Snapshot `json:"snapshot"`
}

func (nd *NewDraft) Validate(validate *validator.Validate) error {
	nd.Title = core.CleanString(nd.Title)
	return validate.Struct(nd)
}

type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf == nil || qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
