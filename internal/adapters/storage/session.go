package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/ports"
)

// session is a per-request unit of work bound to one pooled connection.
type session struct {
	conn   bun.Conn
	closed bool
}

var _ ports.Session = (*session)(nil)

func (s *session) ListFish(ctx context.Context) ([]domain.Fish, error) {
	return listFish(ctx, &s.conn)
}

func (s *session) FindFish(ctx context.Context, id int64) (domain.Fish, error) {
	return findFish(ctx, &s.conn, id)
}

// Write runs fn in a transaction, committing on success and rolling back on
// any error, including a panic inside fn.
func (s *session) Write(ctx context.Context, fn func(tx ports.FishTx) error) (retErr error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return domain.Persistence("begin", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && retErr == nil {
			retErr = domain.Persistence("rollback", rbErr)
		}
	}()

	if err := fn(&fishTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Persistence("commit", err)
	}
	committed = true
	return nil
}

func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// fishTx is the write side handed to Session.Write callbacks.
type fishTx struct {
	tx bun.Tx
}

var _ ports.FishTx = (*fishTx)(nil)

func (t *fishTx) ListFish(ctx context.Context) ([]domain.Fish, error) {
	return listFish(ctx, &t.tx)
}

func (t *fishTx) FindFish(ctx context.Context, id int64) (domain.Fish, error) {
	return findFish(ctx, &t.tx, id)
}

func (t *fishTx) InsertFish(ctx context.Context, f *domain.Fish) error {
	row := rowFromFish(*f)
	row.ID = 0
	if _, err := t.tx.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return domain.Persistence("insert", err)
	}
	f.ID = row.ID
	return nil
}

func (t *fishTx) UpdateFish(ctx context.Context, f domain.Fish) error {
	res, err := t.tx.NewUpdate().
		Model(rowFromFish(f)).
		Column("specie", "size").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Persistence("update", err)
	}
	return expectOneRow(res)
}

func (t *fishTx) DeleteFish(ctx context.Context, id int64) error {
	res, err := t.tx.NewDelete().
		Model((*fishRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Persistence("delete", err)
	}
	return expectOneRow(res)
}

func listFish(ctx context.Context, db bun.IDB) ([]domain.Fish, error) {
	var rows []fishRow
	if err := db.NewSelect().Model(&rows).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, domain.Persistence("list", err)
	}
	out := make([]domain.Fish, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toFish())
	}
	return out, nil
}

func findFish(ctx context.Context, db bun.IDB, id int64) (domain.Fish, error) {
	row := new(fishRow)
	err := db.NewSelect().Model(row).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fish{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Fish{}, domain.Persistence("find", err)
	}
	return row.toFish(), nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Persistence("write", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	if n > 1 {
		return domain.Persistence("write", fmt.Errorf("expected 1 row affected, got %d", n))
	}
	return nil
}
