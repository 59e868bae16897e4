package services

import (
	"context"
	"sync"
	"time"

	"github.com/epeers/secmaster/internal/models"
	"github.com/epeers/secmaster/internal/repository"
)

type fakePriceStore struct {
	mu      sync.Mutex
	rows    map[barKey]models.SecurityPrice
	known   map[string]bool
	batches int
}

func newFakePriceStore(known ...string) *fakePriceStore {
	f := &fakePriceStore{rows: make(map[barKey]models.SecurityPrice), known: make(map[string]bool)}
	for _, k := range known {
		f.known[k] = true
	}
	return f
}

func (f *fakePriceStore) Upsert(ctx context.Context, prices []models.SecurityPrice) (repository.UpsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++

	for _, p := range prices {
		if !f.known[p.SecID] {
			return repository.UpsertResult{}, repository.ErrUnknownSecurity
		}
	}
	var res repository.UpsertResult
	for _, p := range prices {
		k := barKey{p.SecID, p.Date, p.Frequency, p.Intraperiod}
		if _, exists := f.rows[k]; exists {
			res.Updated++
		} else {
			res.Inserted++
		}
		f.rows[k] = p
	}
	return res, nil
}

type fakeRunRecorder struct {
	mu   sync.Mutex
	runs []*models.UpdateRun
}

func (f *fakeRunRecorder) Record(ctx context.Context, run *models.UpdateRun) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	run.ID = int64(len(f.runs))
	return run.ID, nil
}

type fakeSecurityStore struct {
	secs map[string]*models.Security
}

func (f *fakeSecurityStore) BulkUpsert(ctx context.Context, securities []*models.Security) (int, int, []error) {
	var inserted, updated int
	for _, s := range securities {
		if _, ok := f.secs[s.SecID]; ok {
			updated++
		} else {
			inserted++
		}
		f.secs[s.SecID] = s
	}
	return inserted, updated, nil
}

func (f *fakeSecurityStore) Delete(ctx context.Context, secid string) error {
	if _, ok := f.secs[secid]; !ok {
		return repository.ErrSecurityNotFound
	}
	delete(f.secs, secid)
	return nil
}

func (f *fakeSecurityStore) GetBySecID(ctx context.Context, secid string) (*models.Security, error) {
	s, ok := f.secs[secid]
	if !ok {
		return nil, repository.ErrSecurityNotFound
	}
	return s, nil
}

type fakeExchangeStore struct{}

func (fakeExchangeStore) BulkUpsert(ctx context.Context, exchanges []*models.Exchange) (int, int, []error) {
	return len(exchanges), 0, nil
}

type fakeCoverageStore struct {
	rows     map[string]*models.PricesLog
	rebuilt  int64
	checked  map[string]time.Time
	getCalls int
}

func (f *fakeCoverageStore) Rebuild(ctx context.Context) (int64, error) {
	return f.rebuilt, nil
}

func (f *fakeCoverageStore) Get(ctx context.Context, secid string) (*models.PricesLog, error) {
	f.getCalls++
	return f.rows[secid], nil
}

func (f *fakeCoverageStore) MarkChecked(ctx context.Context, secid string, at time.Time) error {
	if f.checked == nil {
		f.checked = make(map[string]time.Time)
	}
	f.checked[secid] = at
	return nil
}

func date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}
