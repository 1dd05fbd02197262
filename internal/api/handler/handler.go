package handler

import "github.com/SemperAdmin/DutySync-sub000/internal/service"

// Handler aggregates every endpoint handler.
type Handler struct {
	Auth      *AuthHandler
	Unit      *UnitHandler
	Personnel *PersonnelHandler
	Duty      *DutyHandler
	Swap      *SwapHandler
	Roster    *RosterHandler
	Import    *ImportHandler
	Export    *ExportHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Unit:      NewUnitHandler(svc.Unit),
		Personnel: NewPersonnelHandler(svc.Personnel),
		Duty:      NewDutyHandler(svc.Duty),
		Swap:      NewSwapHandler(svc.Swap),
		Roster:    NewRosterHandler(svc.Roster),
		Import:    NewImportHandler(svc.Import),
		Export:    NewExportHandler(svc.Export, svc.Calendar),
	}
}
