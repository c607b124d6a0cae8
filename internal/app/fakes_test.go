package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/ports"
)

// memStorage is an in-memory ports.Storage that counts open sessions and
// can be told to fail writes.
type memStorage struct {
	mu       sync.Mutex
	rows     map[int64]domain.Fish
	nextID   int64
	open     int
	acquired int
	failWith error
	failOpen error
}

func newMemStorage() *memStorage {
	return &memStorage{rows: map[int64]domain.Fish{}}
}

func (m *memStorage) Session(context.Context) (ports.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOpen != nil {
		return nil, m.failOpen
	}
	m.open++
	m.acquired++
	return &memSession{store: m}, nil
}

func (m *memStorage) Ping(context.Context) error { return nil }
func (m *memStorage) Close() error               { return nil }

func (m *memStorage) openSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

type memSession struct {
	store  *memStorage
	closed bool
}

func (s *memSession) ListFish(context.Context) ([]domain.Fish, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]domain.Fish, 0, len(s.store.rows))
	for _, f := range s.store.rows {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memSession) FindFish(_ context.Context, id int64) (domain.Fish, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	f, ok := s.store.rows[id]
	if !ok {
		return domain.Fish{}, domain.ErrNotFound
	}
	return f, nil
}

// Write stages changes on a copy and only swaps it in on success.
func (s *memSession) Write(ctx context.Context, fn func(tx ports.FishTx) error) error {
	s.store.mu.Lock()
	staged := make(map[int64]domain.Fish, len(s.store.rows))
	for k, v := range s.store.rows {
		staged[k] = v
	}
	tx := &memTx{rows: staged, nextID: s.store.nextID, failWith: s.store.failWith}
	s.store.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}
	if tx.failWith != nil {
		return domain.Persistence("commit", tx.failWith)
	}

	s.store.mu.Lock()
	s.store.rows = tx.rows
	s.store.nextID = tx.nextID
	s.store.mu.Unlock()
	return nil
}

func (s *memSession) Close() error {
	if s.closed {
		return errors.New("session closed twice")
	}
	s.closed = true
	s.store.mu.Lock()
	s.store.open--
	s.store.mu.Unlock()
	return nil
}

type memTx struct {
	rows     map[int64]domain.Fish
	nextID   int64
	failWith error
}

func (t *memTx) ListFish(context.Context) ([]domain.Fish, error) {
	out := make([]domain.Fish, 0, len(t.rows))
	for _, f := range t.rows {
		out = append(out, f)
	}
	return out, nil
}

func (t *memTx) FindFish(_ context.Context, id int64) (domain.Fish, error) {
	f, ok := t.rows[id]
	if !ok {
		return domain.Fish{}, domain.ErrNotFound
	}
	return f, nil
}

func (t *memTx) InsertFish(_ context.Context, f *domain.Fish) error {
	t.nextID++
	f.ID = t.nextID
	t.rows[f.ID] = *f
	return nil
}

func (t *memTx) UpdateFish(_ context.Context, f domain.Fish) error {
	if _, ok := t.rows[f.ID]; !ok {
		return domain.ErrNotFound
	}
	t.rows[f.ID] = f
	return nil
}

func (t *memTx) DeleteFish(_ context.Context, id int64) error {
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

// observation is one call to recordingRecorder.Observe.
type observation struct {
	op      string
	outcome string
}

type recordingRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (r *recordingRecorder) Observe(_ context.Context, op, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, observation{op, outcome})
}

func (r *recordingRecorder) last() observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.obs) == 0 {
		return observation{}
	}
	return r.obs[len(r.obs)-1]
}
