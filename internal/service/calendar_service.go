package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/drcvmx/school-system/internal/repository"
)

// CalendarService 学年日历服务：把学年周期与评估周期导出为 iCalendar 订阅
type CalendarService interface {
	ICSFeed(ctx context.Context) (string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ICSFeed(ctx context.Context) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//school-system//calendar//ES")

	cycles, err := s.repo.Cycle.List(ctx)
	if err != nil {
		return "", err
	}

	for _, cycle := range cycles {
		event := cal.AddEvent(fmt.Sprintf("cycle-%s@school-system", cycle.SchoolCycleID))
		event.SetSummary(fmt.Sprintf("学年周期 %s", cycle.Name))
		event.SetAllDayStartAt(cycle.StartDate)
		event.SetAllDayEndAt(cycle.EndDate)

		periods, err := s.repo.Period.List(ctx, cycle.SchoolCycleID)
		if err != nil {
			return "", err
		}
		for _, period := range periods {
			pe := cal.AddEvent(fmt.Sprintf("period-%s@school-system", period.PeriodID))
			pe.SetSummary(fmt.Sprintf("%s · %s", cycle.Name, period.Name))
			pe.SetAllDayStartAt(period.StartDate)
			pe.SetAllDayEndAt(period.EndDate)
		}
	}

	return cal.Serialize(), nil
}
