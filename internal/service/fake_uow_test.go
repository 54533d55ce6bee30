package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/repository/contract"
	"legal-insight-be/internal/repository/specification"
	"legal-insight-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory corpus. Writes made through a unit of work only land on Commit.
type fakeStore struct {
	mu         sync.Mutex
	clauses    []*entity.Clause
	agreements []*entity.Agreement
	results    []*entity.AnalysisResult
	clock      time.Time

	failOn  string // "clauses", "agreements", "results", "prune", "commit"
	begins  int
	commits int
}

func newFakeStore() *fakeStore {
	return &fakeStore{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{store: s}
}

func (s *fakeStore) clause(id uuid.UUID) *entity.Clause {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clauses {
		if c.Id == id {
			return c
		}
	}
	return nil
}

type fakeUoW struct {
	store  *fakeStore
	inTx   bool
	staged []func()
}

func (u *fakeUoW) Begin(ctx context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.inTx = true
	u.store.begins++
	return nil
}

func (u *fakeUoW) Commit() error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.inTx = false
	if u.store.failOn == "commit" {
		u.staged = nil
		return errInjected
	}
	for _, apply := range u.staged {
		apply()
	}
	u.staged = nil
	u.store.commits++
	return nil
}

func (u *fakeUoW) Rollback() error {
	u.inTx = false
	u.staged = nil
	return nil
}

// write stages fn inside a transaction and applies it directly outside one.
func (u *fakeUoW) write(step string, fn func()) error {
	if u.store.failOn == step {
		return errInjected
	}
	if u.inTx {
		u.staged = append(u.staged, fn)
		return nil
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	fn()
	return nil
}

func (u *fakeUoW) ClauseRepository() contract.ClauseRepository {
	return &fakeClauseRepo{uow: u}
}

func (u *fakeUoW) AgreementRepository() contract.AgreementRepository {
	return &fakeAgreementRepo{uow: u}
}

func (u *fakeUoW) AnalysisResultRepository() contract.AnalysisResultRepository {
	return &fakeResultRepo{uow: u}
}

type fakeClauseRepo struct{ uow *fakeUoW }

func (r *fakeClauseRepo) Create(ctx context.Context, clause *entity.Clause) error {
	return r.uow.write("create", func() {
		r.uow.store.clauses = append(r.uow.store.clauses, clause)
	})
}

func (r *fakeClauseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Clause, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	out := make([]*entity.Clause, len(r.uow.store.clauses))
	for i, c := range r.uow.store.clauses {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeClauseRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return int64(len(r.uow.store.clauses)), nil
}

func (r *fakeClauseRepo) ApplyAnalysis(ctx context.Context, patches []entity.ClausePatch) error {
	return r.uow.write("clauses", func() {
		byId := make(map[uuid.UUID]*entity.Clause, len(r.uow.store.clauses))
		for _, c := range r.uow.store.clauses {
			byId[c.Id] = c
		}
		for _, p := range patches {
			c := byId[p.Id]
			x, y, cluster, score := p.X, p.Y, p.ClusterId, p.OutlierScore
			c.X, c.Y, c.ClusterId, c.OutlierScore = &x, &y, &cluster, &score
			c.IsOutlier = p.IsOutlier
		}
	})
}

type fakeAgreementRepo struct{ uow *fakeUoW }

func (r *fakeAgreementRepo) Create(ctx context.Context, agreement *entity.Agreement) error {
	return r.uow.write("create", func() {
		r.uow.store.agreements = append(r.uow.store.agreements, agreement)
	})
}

func (r *fakeAgreementRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Agreement, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	out := make([]*entity.Agreement, len(r.uow.store.agreements))
	for i, a := range r.uow.store.agreements {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeAgreementRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return int64(len(r.uow.store.agreements)), nil
}

func (r *fakeAgreementRepo) ApplyProjection(ctx context.Context, patches []entity.AgreementPatch) error {
	return r.uow.write("agreements", func() {
		for _, p := range patches {
			for _, a := range r.uow.store.agreements {
				if a.Id == p.Id {
					x, y := p.X, p.Y
					a.X, a.Y = &x, &y
				}
			}
		}
	})
}

type fakeResultRepo struct{ uow *fakeUoW }

func (r *fakeResultRepo) CreateBulk(ctx context.Context, results []*entity.AnalysisResult) error {
	return r.uow.write("results", func() {
		s := r.uow.store
		for _, res := range results {
			s.clock = s.clock.Add(time.Second)
			res.CreatedAt = s.clock
			cp := *res
			s.results = append(s.results, &cp)
		}
	})
}

func (r *fakeResultRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AnalysisResult, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	out := make([]*entity.AnalysisResult, 0)
	for _, res := range r.uow.store.results {
		if matchesResult(res, specs) {
			out = append(out, res)
		}
	}
	return out, nil
}

func matchesResult(res *entity.AnalysisResult, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByRunID:
			if res.RunId != s.RunID {
				return false
			}
		case specification.ByAnalysisType:
			if res.AnalysisType != s.Type {
				return false
			}
		}
	}
	return true
}

func (r *fakeResultRepo) LatestByType(ctx context.Context, analysisType string) (*entity.AnalysisResult, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()

	var latest *entity.AnalysisResult
	for _, res := range r.uow.store.results {
		if res.AnalysisType == analysisType && (latest == nil || res.CreatedAt.After(latest.CreatedAt)) {
			latest = res
		}
	}
	return latest, nil
}

func (r *fakeResultRepo) LatestPerType(ctx context.Context) ([]*entity.AnalysisResult, error) {
	out := make([]*entity.AnalysisResult, 0, len(entity.AnalysisTypes))
	for _, t := range entity.AnalysisTypes {
		res, _ := r.LatestByType(ctx, t)
		if res != nil {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeResultRepo) PruneRuns(ctx context.Context, keep int) (int64, error) {
	var pruned int64
	err := r.uow.write("prune", func() {
		s := r.uow.store
		newest := make(map[uuid.UUID]time.Time)
		for _, res := range s.results {
			if res.CreatedAt.After(newest[res.RunId]) {
				newest[res.RunId] = res.CreatedAt
			}
		}
		runs := make([]uuid.UUID, 0, len(newest))
		for id := range newest {
			runs = append(runs, id)
		}
		sort.Slice(runs, func(i, j int) bool { return newest[runs[i]].After(newest[runs[j]]) })

		kept := make(map[uuid.UUID]bool)
		for i := 0; i < keep && i < len(runs); i++ {
			kept[runs[i]] = true
		}
		remaining := s.results[:0]
		for _, res := range s.results {
			if kept[res.RunId] {
				remaining = append(remaining, res)
			} else {
				pruned++
			}
		}
		s.results = remaining
	})
	return pruned, err
}
