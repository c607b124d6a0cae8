package storage

import (
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/bft-labs/fishery/internal/domain"
)

// fishRow maps the fishes table.
type fishRow struct {
	bun.BaseModel `bun:"table:fishes,alias:f"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Specie string `bun:"specie,notnull"`
	// SQLite stores whole-number decimals as INTEGER; NullFloat64 scans
	// through database/sql conversion and accepts both.
	Size sql.NullFloat64 `bun:"size,type:decimal"`
}

func rowFromFish(f domain.Fish) *fishRow {
	row := &fishRow{ID: f.ID, Specie: f.Specie}
	if f.Size != nil {
		row.Size = sql.NullFloat64{Float64: *f.Size, Valid: true}
	}
	return row
}

func (r *fishRow) toFish() domain.Fish {
	f := domain.Fish{ID: r.ID, Specie: r.Specie}
	if r.Size.Valid {
		f.Size = domain.SizeOf(r.Size.Float64)
	}
	return f
}
