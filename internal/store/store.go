package store

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
)

// Invalidator broadcasts a collection change to other processes sharing the
// same persisted store. Implemented by pkg/redis.Client.
type Invalidator interface {
	PublishInvalidation(ctx context.Context, originID, key string) error
}

// Store is the local read layer: GORM repositories underneath, a versioned
// in-memory cache for the hot collections on top. Mutating services call
// Put*/Invalidate after writes; changes observed from other processes arrive
// through HandleRemoteInvalidation.
type Store struct {
	repo     *repository.Repository
	cache    *Cache
	inv      Invalidator // nil when Redis is unavailable; single-process mode
	originID string
	logger   *zap.Logger
}

// New creates a Store with a fresh origin id.
func New(repo *repository.Repository, inv Invalidator, logger *zap.Logger) *Store {
	return &Store{
		repo:     repo,
		cache:    NewCache(),
		inv:      inv,
		originID: uuid.New().String(),
		logger:   logger,
	}
}

// OriginID identifies this process in invalidation messages.
func (s *Store) OriginID() string { return s.originID }

// Cache exposes the underlying cache (read-only use in tests).
func (s *Store) Cache() *Cache { return s.cache }

// ── read-through accessors ──

// Units returns the cached unit collection, loading it on a miss.
func (s *Store) Units(ctx context.Context) ([]model.Unit, error) {
	if v, ok := s.cache.Get(KeyUnits); ok {
		return v.([]model.Unit), nil
	}
	units, err := s.repo.Unit.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Fill(KeyUnits, units)
	return units, nil
}

// Personnel returns the cached personnel collection, loading it on a miss.
func (s *Store) Personnel(ctx context.Context) ([]model.Personnel, error) {
	if v, ok := s.cache.Get(KeyPersonnel); ok {
		return v.([]model.Personnel), nil
	}
	list, err := s.repo.Personnel.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Fill(KeyPersonnel, list)
	return list, nil
}

// DutyTypes returns the cached duty type collection, loading it on a miss.
func (s *Store) DutyTypes(ctx context.Context) ([]model.DutyType, error) {
	if v, ok := s.cache.Get(KeyDutyTypes); ok {
		return v.([]model.DutyType), nil
	}
	list, err := s.repo.DutyType.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Fill(KeyDutyTypes, list)
	return list, nil
}

// Holidays returns the cached holiday calendar, loading it on a miss.
func (s *Store) Holidays(ctx context.Context) ([]model.Holiday, error) {
	if v, ok := s.cache.Get(KeyHolidays); ok {
		return v.([]model.Holiday), nil
	}
	list, err := s.repo.Holiday.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Fill(KeyHolidays, list)
	return list, nil
}

// ── write-path hooks ──

// Put replaces a collection's cached value, bumping its version, and tells
// other processes to drop theirs. Call it with the post-write collection even
// when the persist failed: the in-memory view stays accurate for this
// process, and the operation's error still reaches the caller.
func (s *Store) Put(ctx context.Context, key string, value interface{}) {
	s.cache.Put(key, value)
	s.publish(ctx, key)
}

// ── single-entity folds ──
//
// Services call these from a failed persist: the working view still moves to
// the intended state while the storage error propagates to the caller. A cold
// collection is skipped; the next read loads whatever storage holds.

// PutUnit upserts one unit into the cached collection.
func (s *Store) PutUnit(ctx context.Context, unit model.Unit) {
	v, ok := s.cache.Get(KeyUnits)
	if !ok {
		return
	}
	units := v.([]model.Unit)
	out := make([]model.Unit, 0, len(units)+1)
	found := false
	for _, u := range units {
		if u.UnitID == unit.UnitID {
			out = append(out, unit)
			found = true
			continue
		}
		out = append(out, u)
	}
	if !found {
		out = append(out, unit)
	}
	s.Put(ctx, KeyUnits, out)
}

// DropUnit removes one unit from the cached collection.
func (s *Store) DropUnit(ctx context.Context, unitID string) {
	v, ok := s.cache.Get(KeyUnits)
	if !ok {
		return
	}
	units := v.([]model.Unit)
	out := make([]model.Unit, 0, len(units))
	for _, u := range units {
		if u.UnitID != unitID {
			out = append(out, u)
		}
	}
	s.Put(ctx, KeyUnits, out)
}

// PutPersonnel upserts one person into the cached collection.
func (s *Store) PutPersonnel(ctx context.Context, p model.Personnel) {
	v, ok := s.cache.Get(KeyPersonnel)
	if !ok {
		return
	}
	people := v.([]model.Personnel)
	out := make([]model.Personnel, 0, len(people)+1)
	found := false
	for _, existing := range people {
		if existing.PersonnelID == p.PersonnelID {
			out = append(out, p)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, p)
	}
	s.Put(ctx, KeyPersonnel, out)
}

// DropPersonnel removes one person from the cached collection.
func (s *Store) DropPersonnel(ctx context.Context, personnelID string) {
	v, ok := s.cache.Get(KeyPersonnel)
	if !ok {
		return
	}
	people := v.([]model.Personnel)
	out := make([]model.Personnel, 0, len(people))
	for _, p := range people {
		if p.PersonnelID != personnelID {
			out = append(out, p)
		}
	}
	s.Put(ctx, KeyPersonnel, out)
}

// PutDutyType upserts one duty type into the cached collection.
func (s *Store) PutDutyType(ctx context.Context, dt model.DutyType) {
	v, ok := s.cache.Get(KeyDutyTypes)
	if !ok {
		return
	}
	types := v.([]model.DutyType)
	out := make([]model.DutyType, 0, len(types)+1)
	found := false
	for _, existing := range types {
		if existing.DutyTypeID == dt.DutyTypeID {
			out = append(out, dt)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, dt)
	}
	s.Put(ctx, KeyDutyTypes, out)
}

// DropDutyType removes one duty type from the cached collection.
func (s *Store) DropDutyType(ctx context.Context, dutyTypeID string) {
	v, ok := s.cache.Get(KeyDutyTypes)
	if !ok {
		return
	}
	types := v.([]model.DutyType)
	out := make([]model.DutyType, 0, len(types))
	for _, dt := range types {
		if dt.DutyTypeID != dutyTypeID {
			out = append(out, dt)
		}
	}
	s.Put(ctx, KeyDutyTypes, out)
}

// PutHoliday upserts one holiday into the cached calendar.
func (s *Store) PutHoliday(ctx context.Context, h model.Holiday) {
	v, ok := s.cache.Get(KeyHolidays)
	if !ok {
		return
	}
	holidays := v.([]model.Holiday)
	out := make([]model.Holiday, 0, len(holidays)+1)
	found := false
	for _, existing := range holidays {
		if existing.HolidayID == h.HolidayID {
			out = append(out, h)
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, h)
	}
	s.Put(ctx, KeyHolidays, out)
}

// DropHoliday removes one holiday from the cached calendar.
func (s *Store) DropHoliday(ctx context.Context, holidayID string) {
	v, ok := s.cache.Get(KeyHolidays)
	if !ok {
		return
	}
	holidays := v.([]model.Holiday)
	out := make([]model.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.HolidayID != holidayID {
			out = append(out, h)
		}
	}
	s.Put(ctx, KeyHolidays, out)
}

// Invalidate purges keys after a write whose result is not worth caching
// eagerly; the next read reloads.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		s.cache.Invalidate(key)
		s.publish(ctx, key)
	}
}

func (s *Store) publish(ctx context.Context, key string) {
	if s.inv == nil {
		return
	}
	if err := s.inv.PublishInvalidation(ctx, s.originID, key); err != nil {
		// Other processes fall back to their own lazy reload cadence.
		s.logger.Warn("publish cache invalidation failed",
			zap.String("key", key), zap.Error(err))
	}
}

// HandleRemoteInvalidation reacts to a change that originated in another
// process: bump the version and purge without repopulating (lazy reload on
// the next read).
func (s *Store) HandleRemoteInvalidation(key string) {
	s.cache.Invalidate(key)
}
