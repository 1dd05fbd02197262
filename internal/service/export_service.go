package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
	"github.com/SemperAdmin/DutySync-sub000/internal/store"
)

// ExportService renders rosters as spreadsheets.
type ExportService interface {
	// ExportRoster renders one unit's month as an xlsx grid, dates down and
	// duty types across. Returns the file content and a suggested filename.
	ExportRoster(ctx context.Context, unitID string, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	store  *store.Store
	logger *zap.Logger
}

// NewExportService creates an ExportService instance.
func NewExportService(repo *repository.Repository, st *store.Store, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, store: st, logger: logger}
}

func (s *exportService) ExportRoster(ctx context.Context, unitID string, year, month int) (*bytes.Buffer, string, error) {
	unit, err := s.repo.Unit.GetByID(ctx, unitID)
	if err != nil {
		return nil, "", ErrUnitNotFound
	}

	types, err := s.repo.DutyType.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, "", err
	}
	slots, err := s.repo.DutySlot.ListByUnitMonth(ctx, unitID, year, month)
	if err != nil {
		return nil, "", err
	}
	people, err := s.store.Personnel(ctx)
	if err != nil {
		return nil, "", err
	}

	personNames := make(map[string]string, len(people))
	for _, p := range people {
		personNames[p.PersonnelID] = p.Name
	}

	typeCol := make(map[string]int, len(types))
	for i, dt := range types {
		typeCol[dt.DutyTypeID] = i + 2 // column A holds the date
	}

	// assignment[date][dutyTypeID] = cell text
	assignment := make(map[string]map[string]string)
	for _, slot := range slots {
		day := slot.DutyDate.Format("2006-01-02")
		if assignment[day] == nil {
			assignment[day] = make(map[string]string)
		}
		text := "-"
		if slot.PersonnelID != nil {
			text = personNames[*slot.PersonnelID]
			if slot.SwappedFromPersonnelID != nil {
				text = fmt.Sprintf("%s (for %s)", text, personNames[*slot.SwappedFromPersonnelID])
			}
		}
		assignment[day][slot.DutyTypeID] = text
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("%d-%02d", year, month)
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Date")
	for _, dt := range types {
		cell, _ := excelize.CoordinatesToCellName(typeCol[dt.DutyTypeID], 1)
		f.SetCellValue(sheet, cell, dt.Name)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	row := 2
	for d := start; d.Month() == time.Month(month); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		dateCell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(sheet, dateCell, day)
		for _, dt := range types {
			cell, _ := excelize.CoordinatesToCellName(typeCol[dt.DutyTypeID], row)
			if text, ok := assignment[day][dt.DutyTypeID]; ok {
				f.SetCellValue(sheet, cell, text)
			}
		}
		row++
	}

	f.SetColWidth(sheet, "A", "A", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("roster_%s_%d-%02d.xlsx", unit.UnitCode, year, month)
	return buf, filename, nil
}
