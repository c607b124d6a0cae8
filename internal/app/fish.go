// Package app holds the fishery use cases: the five fish operations and the
// server lifecycle. It depends only on internal/ports and internal/domain.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/ports"
	"github.com/bft-labs/fishery/pkg/log"
)

// Operation names reported to the Recorder.
const (
	OpList   = "list"
	OpCreate = "create"
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)

// FishService implements the fish operations. Each call acquires exactly one
// session and releases it before returning.
type FishService struct {
	storage  ports.Storage
	logger   ports.Logger
	recorder ports.Recorder
	now      func() time.Time
}

// NewFishService wires a service to its storage. Logger and recorder may be nil.
func NewFishService(storage ports.Storage, logger ports.Logger, recorder ports.Recorder) *FishService {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &FishService{
		storage:  storage,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// List returns every fish ordered by id.
func (s *FishService) List(ctx context.Context) ([]domain.Fish, error) {
	var out []domain.Fish
	err := s.withSession(ctx, OpList, func(sess ports.Session) error {
		var err error
		out, err = sess.ListFish(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create persists a new fish and returns it with its assigned id.
func (s *FishService) Create(ctx context.Context, in domain.FishCreate) (domain.Fish, error) {
	f := in.NewFish()
	err := s.withSession(ctx, OpCreate, func(sess ports.Session) error {
		return sess.Write(ctx, func(tx ports.FishTx) error {
			return tx.InsertFish(ctx, &f)
		})
	})
	if err != nil {
		return domain.Fish{}, err
	}
	s.logger.Debug("fish created", log.Int64("id", f.ID), log.String("specie", f.Specie))
	return f, nil
}

// Get returns the fish with the given id or domain.ErrNotFound.
func (s *FishService) Get(ctx context.Context, id int64) (domain.Fish, error) {
	var f domain.Fish
	err := s.withSession(ctx, OpGet, func(sess ports.Session) error {
		var err error
		f, err = sess.FindFish(ctx, id)
		return err
	})
	return f, err
}

// Update applies the fields present in in to the fish with the given id.
func (s *FishService) Update(ctx context.Context, id int64, in domain.FishUpdate) (domain.Fish, error) {
	if err := in.Validate(); err != nil {
		return domain.Fish{}, err
	}

	var updated domain.Fish
	err := s.withSession(ctx, OpUpdate, func(sess ports.Session) error {
		return sess.Write(ctx, func(tx ports.FishTx) error {
			current, err := tx.FindFish(ctx, id)
			if err != nil {
				return err
			}
			updated = in.Apply(current)
			if in.Empty() {
				return nil
			}
			return tx.UpdateFish(ctx, updated)
		})
	})
	if err != nil {
		return domain.Fish{}, err
	}
	s.logger.Debug("fish updated", log.Int64("id", id))
	return updated, nil
}

// Delete removes the fish with the given id.
func (s *FishService) Delete(ctx context.Context, id int64) error {
	err := s.withSession(ctx, OpDelete, func(sess ports.Session) error {
		return sess.Write(ctx, func(tx ports.FishTx) error {
			if _, err := tx.FindFish(ctx, id); err != nil {
				return err
			}
			return tx.DeleteFish(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	s.logger.Debug("fish deleted", log.Int64("id", id))
	return nil
}

// Ping reports whether storage is reachable.
func (s *FishService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// withSession scopes one session to fn and records the outcome.
func (s *FishService) withSession(ctx context.Context, op string, fn func(ports.Session) error) (err error) {
	start := s.now()
	defer func() {
		s.recorder.Observe(ctx, op, outcomeOf(err), s.now().Sub(start))
	}()

	sess, err := s.storage.Session(ctx)
	if err != nil {
		return domain.Persistence("session", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			s.logger.Warn("session close failed", log.String("op", op), log.Err(cerr))
		}
	}()

	return fn(sess)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return ports.OutcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return ports.OutcomeNotFound
	default:
		return ports.OutcomeError
	}
}
