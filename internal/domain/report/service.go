package report

import (
	"context"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/repository"
)

// revenueMonths caps the revenue-by-month series.
const revenueMonths = 24

// RevenueMonth is one YYYY-MM bucket of completed work.
type RevenueMonth struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

// Unpaid summarizes completed jobs whose invoice is not paid.
type Unpaid struct {
	Count int64                  `json:"count"`
	Total float64                `json:"total"`
	Jobs  []repository.UnpaidJob `json:"jobs"`
}

// Summary is the full reports page.
type Summary struct {
	RevenueByMonth []RevenueMonth           `json:"revenue_by_month"`
	StatusCounts   []repository.StatusCount `json:"status_counts"`
	Unpaid         Unpaid                   `json:"unpaid"`
	MonthToDate    float64                  `json:"month_to_date"`
	YearToDate     float64                  `json:"year_to_date"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// Dashboard holds the home page counters.
type Dashboard struct {
	Clients        int64     `json:"clients"`
	Scheduled      int64     `json:"scheduled"`
	Completed      int64     `json:"completed"`
	MonthToDate    float64   `json:"month_to_date"`
	YearToDate     float64   `json:"year_to_date"`
	UnpaidCount    int64     `json:"unpaid_count"`
	UnpaidTotal    float64   `json:"unpaid_total"`
	QuotesSent     int64     `json:"quotes_sent"`
	QuotesAccepted int64     `json:"quotes_accepted"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Service derives read-only reports. Nothing here writes to the store.
type Service struct {
	store *repository.Store
	cache Cache

	// generation moves on every invalidation; a report computed across a move is not cached.
	generation atomic.Uint64
}

// NewService creates report service
func NewService(store *repository.Store, cache Cache) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{store: store, cache: cache}
}

// RevenueByMonth sums actual cost of completed jobs per YYYY-MM of their paid date, falling
// back to the scheduled date. Newest period first.
func (s *Service) RevenueByMonth(ctx context.Context) ([]RevenueMonth, error) {
	rows, err := s.store.Reports.CompletedRevenueRows(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, r := range rows {
		when := r.ScheduledDate
		if r.PaidAt != nil {
			when = *r.PaidAt
		}
		var cost float64
		if r.ActualCost != nil {
			cost = *r.ActualCost
		}
		totals[when.UTC().Format("2006-01")] += cost
	}

	out := make([]RevenueMonth, 0, len(totals))
	for period, revenue := range totals {
		out = append(out, RevenueMonth{Period: period, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	if len(out) > revenueMonths {
		out = out[:revenueMonths]
	}
	return out, nil
}

// StatusCounts reports every job status, including those with no jobs.
func (s *Service) StatusCounts(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := s.store.Reports.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[domain.JobStatus]int64, len(rows))
	for _, r := range rows {
		byStatus[r.Status] = r.Count
	}

	out := make([]repository.StatusCount, 0, 3)
	for _, st := range []domain.JobStatus{domain.JobScheduled, domain.JobInProgress, domain.JobCompleted} {
		out = append(out, repository.StatusCount{Status: st, Count: byStatus[st]})
		delete(byStatus, st)
	}
	extra := make([]repository.StatusCount, 0, len(byStatus))
	for st, n := range byStatus {
		extra = append(extra, repository.StatusCount{Status: st, Count: n})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Status < extra[j].Status })
	return append(out, extra...), nil
}

// Unpaid lists completed jobs whose invoice is not settled.
func (s *Service) Unpaid(ctx context.Context) (*Unpaid, error) {
	jobs, err := s.store.Reports.UnpaidJobs(ctx)
	if err != nil {
		return nil, err
	}
	count, total, err := s.store.Reports.UnpaidTotals(ctx)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []repository.UnpaidJob{}
	}
	return &Unpaid{Count: count, Total: total, Jobs: jobs}, nil
}

// PeriodRevenue returns month-to-date and year-to-date revenue as of at (UTC).
func (s *Service) PeriodRevenue(ctx context.Context, at time.Time) (mtd, ytd float64, err error) {
	at = at.UTC()
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	if mtd, err = s.store.Reports.RevenueSince(ctx, monthStart); err != nil {
		return 0, 0, err
	}
	if ytd, err = s.store.Reports.RevenueSince(ctx, yearStart); err != nil {
		return 0, 0, err
	}
	return mtd, ytd, nil
}

// Summary builds the reports page as of at, served from cache when possible.
func (s *Service) Summary(ctx context.Context, at time.Time) (*Summary, error) {
	key := "summary:" + at.UTC().Format("2006-01")
	var out Summary
	gen := s.generation.Load()
	if s.fromCache(ctx, key, &out) {
		return &out, nil
	}

	var err error
	if out.RevenueByMonth, err = s.RevenueByMonth(ctx); err != nil {
		return nil, err
	}
	if out.StatusCounts, err = s.StatusCounts(ctx); err != nil {
		return nil, err
	}
	unpaid, err := s.Unpaid(ctx)
	if err != nil {
		return nil, err
	}
	out.Unpaid = *unpaid
	if out.MonthToDate, out.YearToDate, err = s.PeriodRevenue(ctx, at); err != nil {
		return nil, err
	}
	out.GeneratedAt = at.UTC()

	s.toCache(ctx, key, gen, &out)
	return &out, nil
}

// Dashboard holds the home page counters.
func (s *Service) Dashboard(ctx context.Context, at time.Time) (*Dashboard, error) {
	key := "dashboard:" + at.UTC().Format("2006-01")
	var out Dashboard
	gen := s.generation.Load()
	if s.fromCache(ctx, key, &out) {
		return &out, nil
	}

	var err error
	if out.Clients, err = s.store.Clients.Count(ctx); err != nil {
		return nil, err
	}
	if out.Scheduled, err = s.store.Reports.CountJobs(ctx, domain.JobScheduled); err != nil {
		return nil, err
	}
	if out.Completed, err = s.store.Reports.CountJobs(ctx, domain.JobCompleted); err != nil {
		return nil, err
	}
	if out.MonthToDate, out.YearToDate, err = s.PeriodRevenue(ctx, at); err != nil {
		return nil, err
	}
	if out.UnpaidCount, out.UnpaidTotal, err = s.store.Reports.UnpaidTotals(ctx); err != nil {
		return nil, err
	}
	if out.QuotesSent, err = s.store.Reports.CountQuotes(ctx, domain.QuoteSent); err != nil {
		return nil, err
	}
	if out.QuotesAccepted, err = s.store.Reports.CountQuotes(ctx, domain.QuoteAccepted); err != nil {
		return nil, err
	}
	out.GeneratedAt = at.UTC()

	s.toCache(ctx, key, gen, &out)
	return &out, nil
}

// Invalidate is the bus listener: any committed change may move any report.
func (s *Service) Invalidate(ctx context.Context, evt activity.Event) {
	s.generation.Add(1)
	if err := s.cache.Purge(ctx); err != nil {
		log.Printf("report_cache_purge_error event=%s error=%v", evt.Type, err)
	}
}

// Cache failures degrade to a recompute.
func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("report_cache_get_error key=%s error=%v", key, err)
		return false
	}
	return ok
}

func (s *Service) toCache(ctx context.Context, key string, gen uint64, v any) {
	if s.generation.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		log.Printf("report_cache_set_error key=%s error=%v", key, err)
	}
}
