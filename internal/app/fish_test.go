package app

import (
	"context"
	"errors"
	"testing"

	"github.com/bft-labs/fishery/internal/domain"
	"github.com/bft-labs/fishery/internal/ports"
)

func newTestService() (*FishService, *memStorage, *recordingRecorder) {
	st := newMemStorage()
	rec := &recordingRecorder{}
	return NewFishService(st, nil, rec), st, rec
}

func TestFishService_Scenario(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.FishCreate{Specie: "Salmon", Size: domain.SizeOf(12.5)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 1 || created.Specie != "Salmon" || *created.Size != 12.5 {
		t.Fatalf("Create = %+v", created)
	}

	got, err := svc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != created {
		t.Errorf("Get = %+v, want %+v", got, created)
	}

	updated, err := svc.Update(ctx, 1, domain.FishUpdate{Specie: domain.Some("Trout")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Specie != "Trout" || updated.Size == nil || *updated.Size != 12.5 {
		t.Errorf("Update = %+v", updated)
	}

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}

	if n := st.openSessions(); n != 0 {
		t.Errorf("%d sessions left open", n)
	}
}

func TestFishService_NotFound(t *testing.T) {
	svc, st, rec := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		op   string
		call func() error
	}{
		{"get", OpGet, func() error { _, err := svc.Get(ctx, 99); return err }},
		{"update", OpUpdate, func() error {
			_, err := svc.Update(ctx, 99, domain.FishUpdate{Size: domain.Some(1.0)})
			return err
		}},
		{"delete", OpDelete, func() error { return svc.Delete(ctx, 99) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("error = %v, want ErrNotFound", err)
			}
			if got := rec.last(); got.op != tt.op || got.outcome != ports.OutcomeNotFound {
				t.Errorf("observation = %+v", got)
			}
			if n := st.openSessions(); n != 0 {
				t.Errorf("%d sessions left open", n)
			}
		})
	}
}

func TestFishService_PartialUpdate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	f, err := svc.Create(ctx, domain.FishCreate{Specie: "Carp", Size: domain.SizeOf(40)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := svc.Update(ctx, f.ID, domain.FishUpdate{Size: domain.Some(0.0)})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Specie != "Carp" || got.Size == nil || *got.Size != 0 {
		t.Errorf("size-only update = %+v", got)
	}

	got, err = svc.Update(ctx, f.ID, domain.FishUpdate{Size: domain.Null[float64]()})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Size != nil {
		t.Errorf("null size update left %v", *got.Size)
	}

	got, err = svc.Update(ctx, f.ID, domain.FishUpdate{})
	if err != nil {
		t.Fatalf("empty Update failed: %v", err)
	}
	if got.Specie != "Carp" {
		t.Errorf("empty update changed record: %+v", got)
	}
}

func TestFishService_UpdateRejectsBlankSpecie(t *testing.T) {
	svc, st, _ := newTestService()
	ctx := context.Background()

	f, _ := svc.Create(ctx, domain.FishCreate{Specie: "Eel"})
	before := st.acquired

	_, err := svc.Update(ctx, f.ID, domain.FishUpdate{Specie: domain.Some("")})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *domain.ValidationError", err)
	}
	if st.acquired != before {
		t.Error("validation failure should not acquire a session")
	}
}

func TestFishService_PersistenceFailureRollsBack(t *testing.T) {
	svc, st, rec := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.FishCreate{Specie: "Pike"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	st.failWith = errors.New("database is locked")

	_, err := svc.Create(ctx, domain.FishCreate{Specie: "Perch"})
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Create error = %v, want *domain.PersistenceError", err)
	}
	if pe.Error() != "database is locked" {
		t.Errorf("error text = %q", pe.Error())
	}
	if got := rec.last(); got.op != OpCreate || got.outcome != ports.OutcomeError {
		t.Errorf("observation = %+v", got)
	}

	if err := svc.Delete(ctx, 1); !errors.As(err, &pe) {
		t.Fatalf("Delete error = %v, want *domain.PersistenceError", err)
	}

	st.failWith = nil
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Specie != "Pike" {
		t.Errorf("List after failed writes = %+v", list)
	}
	if n := st.openSessions(); n != 0 {
		t.Errorf("%d sessions left open", n)
	}
}

func TestFishService_SessionAcquireFailure(t *testing.T) {
	svc, st, _ := newTestService()
	st.failOpen = errors.New("too many connections")

	_, err := svc.List(context.Background())
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("List error = %v, want *domain.PersistenceError", err)
	}
}

func TestFishService_ListCountsCreatesMinusDeletes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	var ids []int64
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		f, err := svc.Create(ctx, domain.FishCreate{Specie: s})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, f.ID)
	}
	for _, id := range []int64{ids[1], ids[3]} {
		if err := svc.Delete(ctx, id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}
	if _, err := svc.Create(ctx, domain.FishCreate{Specie: "f"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 6-2 {
		t.Errorf("len(List) = %d, want 4", len(list))
	}

	seen := map[int64]bool{}
	for _, f := range list {
		if seen[f.ID] {
			t.Errorf("duplicate id %d", f.ID)
		}
		seen[f.ID] = true
	}
}
