package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/SemperAdmin/DutySync-sub000/internal/model"
	"github.com/SemperAdmin/DutySync-sub000/internal/repository"
)

// CalendarService renders duty assignments as iCalendar feeds that personnel
// can subscribe to from their own calendar clients.
type CalendarService interface {
	PersonnelFeed(ctx context.Context, personnelID string, from, to time.Time) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService creates a CalendarService instance.
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) PersonnelFeed(ctx context.Context, personnelID string, from, to time.Time) (string, error) {
	if _, err := s.repo.Personnel.GetByID(ctx, personnelID); err != nil {
		return "", ErrPersonnelNotFound
	}

	slots, err := s.repo.DutySlot.ListByPersonnel(ctx, personnelID, from, to)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//DutySync//Duty Roster//EN")
	cal.SetName("Duty Roster")

	now := time.Now()
	for _, slot := range slots {
		event := cal.AddEvent(fmt.Sprintf("%s@dutysync", slot.DutySlotID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(slot.DutyDate)
		event.SetAllDayEndAt(slot.DutyDate.AddDate(0, 0, 1))

		summary := "Duty"
		if slot.DutyType != nil {
			summary = slot.DutyType.Name + " duty"
		}
		if slot.Status == model.SlotStatusSwapped {
			summary += " (swapped)"
		}
		event.SetSummary(summary)
	}

	return cal.Serialize(), nil
}
