package service

import (
	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
	"github.com/SemperAdmin/DutySync-sub000/internal/syncrelay"
	"github.com/SemperAdmin/DutySync-sub000/pkg/jwt"
)

// Service aggregates all business services.
type Service struct {
	Auth      AuthService
	Unit      UnitService
	Personnel PersonnelService
	Duty      DutyService
	Swap      SwapService
	Roster    RosterService
	Import    ImportService
	Export    ExportService
	Calendar  CalendarService
}

// New wires every service over the shared repository aggregate, store and
// sync relay.
func New(repo *repository.Repository, st *store.Store, relay syncrelay.Queue, jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) *Service {
	resolver := NewHierarchyResolver(st)

	return &Service{
		Auth:      NewAuthService(repo, jwtMgr, blacklist, logger),
		Unit:      NewUnitService(repo, st, logger),
		Personnel: NewPersonnelService(repo, st, logger),
		Duty:      NewDutyService(repo, st, relay, logger),
		Swap:      NewSwapService(repo, st, resolver, relay, logger),
		Roster:    NewRosterService(repo, st, relay, logger),
		Import:    NewImportService(repo, st, logger),
		Export:    NewExportService(repo, st, logger),
		Calendar:  NewCalendarService(repo, logger),
	}
}
