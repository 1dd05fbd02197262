package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates all entity repositories.
type Repository struct {
	db *gorm.DB

	Unit        UnitRepository
	Personnel   PersonnelRepository
	DutyType    DutyTypeRepository
	DutySlot    DutySlotRepository
	Swap        SwapRepository
	Roster      RosterRepository
	ScoreEvent  ScoreEventRepository
	Holiday     HolidayRepository
	SyncFailure SyncFailureRepository
	User        UserRepository
}

// NewRepository builds the aggregate over one DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		Unit:        NewUnitRepo(db),
		Personnel:   NewPersonnelRepo(db),
		DutyType:    NewDutyTypeRepo(db),
		DutySlot:    NewDutySlotRepo(db),
		Swap:        NewSwapRepo(db),
		Roster:      NewRosterRepo(db),
		ScoreEvent:  NewScoreEventRepo(db),
		Holiday:     NewHolidayRepo(db),
		SyncFailure: NewSyncFailureRepo(db),
		User:        NewUserRepo(db),
	}
}

// Transaction runs fn against a transaction-bound copy of the aggregate.
// All writes made through the copy commit or roll back together. A mock-built
// aggregate (nil db) runs fn directly, which keeps service tests simple.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
