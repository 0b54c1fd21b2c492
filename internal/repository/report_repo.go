package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"landscaping/internal/domain"
)

// ReportRepository holds the read-only queries behind reporting.
type ReportRepository struct {
	db *gorm.DB
}

// RevenueRow is one completed job as seen by the revenue report.
type RevenueRow struct {
	ActualCost    *float64
	PaidAt        *time.Time
	ScheduledDate time.Time
}

type StatusCount struct {
	Status domain.JobStatus `json:"status"`
	Count  int64            `json:"count"`
}

// UnpaidJob is a completed job whose invoice is not paid, with its client name.
type UnpaidJob struct {
	ID            int64      `json:"id"`
	Description   string     `json:"description"`
	ActualCost    *float64   `json:"actual_cost"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	InvoiceSentAt *time.Time `json:"invoice_sent_at,omitempty"`
	ClientName    string     `json:"client_name"`
}

const unpaidCondition = "jobs.status = ? AND (jobs.invoice_status IS NULL OR jobs.invoice_status <> ?)"

// CompletedRevenueRows returns the dates and actual cost of every completed job.
func (r *ReportRepository) CompletedRevenueRows(ctx context.Context) ([]RevenueRow, error) {
	var rows []RevenueRow
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("actual_cost, paid_at, scheduled_date").
		Where("status = ?", domain.JobCompleted).
		Scan(&rows).Error
	return rows, err
}

// StatusCounts counts jobs per stored status.
func (r *ReportRepository) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

// UnpaidJobs lists unpaid completed jobs, most recently scheduled first.
func (r *ReportRepository) UnpaidJobs(ctx context.Context) ([]UnpaidJob, error) {
	var rows []UnpaidJob
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("jobs.id, jobs.description, jobs.actual_cost, jobs.scheduled_date, jobs.invoice_sent_at, clients.name AS client_name").
		Joins("JOIN clients ON clients.id = jobs.client_id").
		Where(unpaidCondition, domain.JobCompleted, domain.InvoicePaid).
		Order("jobs.scheduled_date DESC").
		Scan(&rows).Error
	return rows, err
}

// UnpaidTotals counts unpaid completed jobs and sums their actual cost.
func (r *ReportRepository) UnpaidTotals(ctx context.Context) (count int64, total float64, err error) {
	var row struct {
		Count int64
		Total float64
	}
	err = r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("COUNT(*) AS count, COALESCE(SUM(jobs.actual_cost), 0) AS total").
		Where(unpaidCondition, domain.JobCompleted, domain.InvoicePaid).
		Scan(&row).Error
	return row.Count, row.Total, err
}

// RevenueSince sums actual cost of completed jobs scheduled on or after since.
func (r *ReportRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("COALESCE(SUM(actual_cost), 0)").
		Where("status = ? AND scheduled_date >= ?", domain.JobCompleted, since).
		Scan(&total).Error
	return total, err
}

func (r *ReportRepository) CountJobs(ctx context.Context, status domain.JobStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Job{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *ReportRepository) CountQuotes(ctx context.Context, status domain.QuoteStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Quote{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
