package store

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
)

// countingUnitRepo serves a fixed unit list and counts loads.
type countingUnitRepo struct {
	units []model.Unit
	loads int
}

func (f *countingUnitRepo) Create(_ context.Context, _ *model.Unit) error  { return nil }
func (f *countingUnitRepo) Update(_ context.Context, _ *model.Unit) error  { return nil }
func (f *countingUnitRepo) Delete(_ context.Context, _ string, _ string) error {
	return nil
}
func (f *countingUnitRepo) GetByID(_ context.Context, _ string) (*model.Unit, error) {
	return nil, nil
}
func (f *countingUnitRepo) GetByCode(_ context.Context, _ string) (*model.Unit, error) {
	return nil, nil
}
func (f *countingUnitRepo) CountChildren(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
func (f *countingUnitRepo) CountMembers(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
func (f *countingUnitRepo) List(_ context.Context) ([]model.Unit, error) {
	f.loads++
	return f.units, nil
}

// recordingInvalidator captures published invalidation keys.
type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) PublishInvalidation(_ context.Context, _ string, key string) error {
	r.keys = append(r.keys, key)
	return nil
}

func newTestStore() (*Store, *countingUnitRepo, *recordingInvalidator) {
	unitRepo := &countingUnitRepo{units: []model.Unit{
		{UnitID: "u1", UnitCode: "HQ", Name: "Headquarters", HierarchyLevel: model.HierarchyLevelUnit},
	}}
	inv := &recordingInvalidator{}
	repo := &repository.Repository{Unit: unitRepo}
	return New(repo, inv, zap.NewNop()), unitRepo, inv
}

func TestStore_UnitsReadThrough(t *testing.T) {
	s, unitRepo, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		units, err := s.Units(ctx)
		if err != nil {
			t.Fatalf("Units failed: %v", err)
		}
		if len(units) != 1 || units[0].UnitCode != "HQ" {
			t.Fatalf("unexpected units: %+v", units)
		}
	}

	if unitRepo.loads != 1 {
		t.Errorf("expected 1 repository load, got %d", unitRepo.loads)
	}
}

func TestStore_InvalidateForcesLazyReload(t *testing.T) {
	s, unitRepo, inv := newTestStore()
	ctx := context.Background()

	if _, err := s.Units(ctx); err != nil {
		t.Fatalf("Units failed: %v", err)
	}

	s.Invalidate(ctx, KeyUnits)

	if len(inv.keys) != 1 || inv.keys[0] != KeyUnits {
		t.Errorf("expected one published invalidation for %s, got %v", KeyUnits, inv.keys)
	}

	if _, err := s.Units(ctx); err != nil {
		t.Fatalf("Units after invalidate failed: %v", err)
	}
	if unitRepo.loads != 2 {
		t.Errorf("expected reload after invalidate, loads=%d", unitRepo.loads)
	}
}

func TestStore_RemoteInvalidationPurgesWithoutReload(t *testing.T) {
	s, unitRepo, inv := newTestStore()
	ctx := context.Background()

	if _, err := s.Units(ctx); err != nil {
		t.Fatalf("Units failed: %v", err)
	}

	s.HandleRemoteInvalidation(KeyUnits)

	// No eager repopulation and no re-broadcast of a remote change.
	if unitRepo.loads != 1 {
		t.Errorf("remote invalidation must not reload eagerly, loads=%d", unitRepo.loads)
	}
	if len(inv.keys) != 0 {
		t.Errorf("remote invalidation must not be re-published, got %v", inv.keys)
	}

	if _, err := s.Units(ctx); err != nil {
		t.Fatalf("Units after remote invalidation failed: %v", err)
	}
	if unitRepo.loads != 2 {
		t.Errorf("expected lazy reload on next read, loads=%d", unitRepo.loads)
	}
}

func TestStore_FoldsApplyOnlyToWarmCache(t *testing.T) {
	s, unitRepo, inv := newTestStore()
	ctx := context.Background()

	// Cold cache: the fold is skipped and nothing is published.
	s.PutUnit(ctx, model.Unit{UnitID: "u2", UnitCode: "A-CO"})
	if len(inv.keys) != 0 {
		t.Fatalf("cold fold must not publish, got %v", inv.keys)
	}

	if _, err := s.Units(ctx); err != nil {
		t.Fatalf("Units failed: %v", err)
	}

	s.PutUnit(ctx, model.Unit{UnitID: "u2", UnitCode: "A-CO", Name: "Alpha Company"})
	units, err := s.Units(ctx)
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("expected the fold to append, got %d units", len(units))
	}
	if unitRepo.loads != 1 {
		t.Errorf("a fold must not trigger a reload, loads=%d", unitRepo.loads)
	}

	s.DropUnit(ctx, "u1")
	units, _ = s.Units(ctx)
	if len(units) != 1 || units[0].UnitID != "u2" {
		t.Fatalf("expected only the folded unit to remain, got %+v", units)
	}
	if len(inv.keys) != 2 {
		t.Errorf("warm folds publish invalidations, got %v", inv.keys)
	}
}

func TestStore_PutKeepsMemoryViewOnStorageFailure(t *testing.T) {
	s, _, _ := newTestStore()
	ctx := context.Background()

	// Simulates a service whose persist failed: it still puts the mutated
	// collection so this process keeps an accurate view.
	mutated := []model.Unit{
		{UnitID: "u1", UnitCode: "HQ", Name: "Headquarters", HierarchyLevel: model.HierarchyLevelUnit},
		{UnitID: "u2", UnitCode: "A-CO", Name: "Alpha Company", HierarchyLevel: model.HierarchyLevelCompany},
	}
	s.Put(ctx, KeyUnits, mutated)

	units, err := s.Units(ctx)
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	if len(units) != 2 {
		t.Errorf("expected the in-memory view to include the unpersisted write, got %d units", len(units))
	}
}
