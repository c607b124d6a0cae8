package ports

import (
	"context"

	"github.com/bft-labs/fishery/internal/domain"
)

// Storage owns the database engine and produces sessions.
type Storage interface {
	// Session acquires an independent unit of work. The caller must Close it.
	Session(ctx context.Context) (Session, error)

	// Ping checks that the engine is reachable.
	Ping(ctx context.Context) error

	// Close releases the engine. Sessions must not be used afterwards.
	Close() error
}

// FishReader is the read side shared by sessions and transactions.
type FishReader interface {
	// ListFish returns every stored fish ordered by id.
	ListFish(ctx context.Context) ([]domain.Fish, error)

	// FindFish returns the fish with the given id or domain.ErrNotFound.
	FindFish(ctx context.Context, id int64) (domain.Fish, error)
}

// Session is a unit of work scoped to a single request.
type Session interface {
	FishReader

	// Write runs fn inside a transaction. It commits when fn returns nil and
	// rolls back otherwise; the error from fn is returned unchanged.
	Write(ctx context.Context, fn func(tx FishTx) error) error

	// Close returns the underlying connection to the engine.
	Close() error
}

// FishTx exposes the mutations available inside Session.Write.
type FishTx interface {
	FishReader

	// InsertFish stores f and sets f.ID to the id assigned by storage.
	InsertFish(ctx context.Context, f *domain.Fish) error

	// UpdateFish overwrites every column of the row with f.ID.
	UpdateFish(ctx context.Context, f domain.Fish) error

	// DeleteFish removes the row with the given id.
	DeleteFish(ctx context.Context, id int64) error
}
