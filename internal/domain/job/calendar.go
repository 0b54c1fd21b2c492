package job

import (
	"context"
	"fmt"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/repository"
)

type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type CalendarDay struct {
	Date string       `json:"date"`
	Jobs []domain.Job `json:"jobs"`
}

type Calendar struct {
	MonthRef
	Days []CalendarDay `json:"days"`
	Prev MonthRef      `json:"prev"`
	Next MonthRef      `json:"next"`
}

// Calendar lists the jobs scheduled in the given month, one entry per day. Out-of-range months
// roll over into the neighbouring year, so month 0 is December of the previous year and month 13
// is January of the next.
func (s *Service) Calendar(ctx context.Context, year, month int) (*Calendar, error) {
	if year < 1 || year > 9999 {
		return nil, domain.Invalid("year %d out of range", year)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	prev := first.AddDate(0, -1, 0)

	jobs, err := s.store.Jobs.List(ctx, repository.JobFilter{From: &first, Until: &next})
	if err != nil {
		return nil, fmt.Errorf("calendar %04d-%02d: %w", first.Year(), first.Month(), err)
	}

	days := make([]CalendarDay, 0, 31)
	index := make(map[int]int, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		index[d.Day()] = len(days)
		days = append(days, CalendarDay{Date: d.Format("2006-01-02"), Jobs: []domain.Job{}})
	}
	for _, j := range jobs {
		i := index[j.ScheduledDate.UTC().Day()]
		days[i].Jobs = append(days[i].Jobs, j)
	}

	return &Calendar{
		MonthRef: MonthRef{Year: first.Year(), Month: int(first.Month())},
		Days:     days,
		Prev:     MonthRef{Year: prev.Year(), Month: int(prev.Month())},
		Next:     MonthRef{Year: next.Year(), Month: int(next.Month())},
	}, nil
}

// CurrentMonth is the default calendar page.
func (s *Service) CurrentMonth() MonthRef {
	now := s.now()
	return MonthRef{Year: now.Year(), Month: int(now.Month())}
}
