package job

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/repository"
)

// scheduleLayouts are tried in order when parsing scheduled_date.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Service handles job lifecycle business logic
type Service struct {
	store  *repository.Store
	events activity.Publisher
	now    func() time.Time
}

// NewService creates job service
func NewService(store *repository.Store, events activity.Publisher) *Service {
	if events == nil {
		events = activity.Discard
	}
	return &Service{
		store:  store,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) publish(ctx context.Context, typ string, jobID int64, payload any) {
	s.events.Publish(ctx, activity.NewEvent(typ, "job", jobID, jobID, s.now(), payload))
}

// Create

// Create schedules a new job for an existing client.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Job, error) {
	fields, err := normalize(in)
	if err != nil {
		return nil, err
	}

	var out *domain.Job
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		memberIDs, err := s.checkRefs(ctx, tx, fields, in.MemberIDs)
		if err != nil {
			return err
		}

		j := &domain.Job{
			ClientID:       fields.clientID,
			Description:    fields.description,
			ScheduledDate:  fields.scheduled,
			CrewID:         fields.crewID,
			Crew:           fields.crew,
			EstimatedHours: fields.estHours,
			EstimatedCost:  fields.estCost,
			Status:         domain.JobScheduled,
		}
		if err := tx.Jobs.Create(ctx, j); err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		if len(memberIDs) > 0 {
			if err := tx.Jobs.ReplaceMembers(ctx, j.ID, memberIDs); err != nil {
				return err
			}
		}
		out, err = load(ctx, tx, j.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.JobCreated, out.ID, out)
	return out, nil
}

// Read

// Get returns the job with client, crew, tasks and roster.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Job, error) {
	return load(ctx, s.store, id)
}

func load(ctx context.Context, store *repository.Store, id int64) (*domain.Job, error) {
	j, err := store.Jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j.Members, err = store.Members.ListByJob(ctx, id); err != nil {
		return nil, fmt.Errorf("load roster of job %d: %w", id, err)
	}
	return j, nil
}

// List returns jobs ordered by scheduled date.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Job, error) {
	filter := repository.JobFilter{
		ClientID: f.ClientID,
		CrewID:   f.CrewID,
		MemberID: f.MemberID,
	}
	if strings.TrimSpace(f.Status) != "" {
		st, err := domain.ParseJobStatus(f.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	return s.store.Jobs.List(ctx, filter)
}

// Edit

// Update edits the descriptive and assignment fields of a job that is not yet completed.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Job, error) {
	fields, err := normalize(in)
	if err != nil {
		return nil, err
	}

	var out *domain.Job
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		j, err := tx.Jobs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := editable(j); err != nil {
			return err
		}
		memberIDs, err := s.checkRefs(ctx, tx, fields, in.MemberIDs)
		if err != nil {
			return err
		}

		err = tx.Jobs.UpdateFields(ctx, id, map[string]any{
			"client_id":       fields.clientID,
			"description":     fields.description,
			"scheduled_date":  fields.scheduled,
			"crew_id":         fields.crewID,
			"crew":            fields.crew,
			"estimated_hours": fields.estHours,
			"estimated_cost":  fields.estCost,
		})
		if err != nil {
			return err
		}
		if in.MemberIDs != nil {
			if err := tx.Jobs.ReplaceMembers(ctx, id, memberIDs); err != nil {
				return err
			}
		}
		out, err = load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.JobUpdated, id, out)
	return out, nil
}

// UpdateStatus sets any of the three statuses while the job is open. Reaching Completed this way
// leaves the actuals unset.
func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) (*domain.Job, error) {
	status, err := domain.ParseJobStatus(raw)
	if err != nil {
		return nil, err
	}

	var (
		out  *domain.Job
		from domain.JobStatus
	)
	err = s.store.Atomic(ctx, func(tx *repository.Store) error {
		j, err := tx.Jobs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		switch j.Status {
		case domain.JobCompleted:
			return fmt.Errorf("%w: job %d is completed", domain.ErrInvalidState, id)
		case domain.JobScheduled, domain.JobInProgress:
		default:
			return fmt.Errorf("%w: job %d has unknown status %q", domain.ErrInvalidState, id, j.Status)
		}
		from = j.Status

		if err := tx.Jobs.UpdateFields(ctx, id, map[string]any{"status": status}); err != nil {
			return err
		}
		out, err = load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.JobStatusChanged, id, map[string]any{"from": from, "to": status})
	return out, nil
}

// Complete records the actuals and closes the job. It is the only writer of actual hours and cost.
func (s *Service) Complete(ctx context.Context, id int64, in CompleteInput) (*domain.Job, error) {
	status := domain.JobCompleted
	if strings.TrimSpace(in.Status) != "" {
		st, err := domain.ParseJobStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = st
	}
	if status != domain.JobCompleted {
		return nil, domain.Invalid("complete requires status %s, got %s", domain.JobCompleted, status)
	}
	if in.ActualHours == nil {
		return nil, domain.Invalid("actual_hours is required")
	}
	if in.ActualCost == nil {
		return nil, domain.Invalid("actual_cost is required")
	}
	hours, cost := *in.ActualHours, *in.ActualCost
	if err := nonNegative("actual_hours", hours); err != nil {
		return nil, err
	}
	if err := nonNegative("actual_cost", cost); err != nil {
		return nil, err
	}

	var out *domain.Job
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		j, err := tx.Jobs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if j.IsCompleted() {
			return fmt.Errorf("%w: job %d is already completed", domain.ErrInvalidState, id)
		}
		err = tx.Jobs.UpdateFields(ctx, id, map[string]any{
			"actual_hours": hours,
			"actual_cost":  cost,
			"status":       status,
		})
		if err != nil {
			return err
		}
		out, err = load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.JobCompleted, id, map[string]any{
		"actual_hours": hours,
		"actual_cost":  cost,
	})
	return out, nil
}

// AssignMembers replaces the roster wholesale. Duplicate ids collapse.
func (s *Service) AssignMembers(ctx context.Context, id int64, memberIDs []int64) (*domain.Job, error) {
	var out *domain.Job
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		j, err := tx.Jobs.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := editable(j); err != nil {
			return err
		}
		ids, err := checkMembers(ctx, tx, memberIDs)
		if err != nil {
			return err
		}
		if err := tx.Jobs.ReplaceMembers(ctx, id, ids); err != nil {
			return err
		}
		out, err = load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.JobMembersAssigned, id, map[string]any{"member_ids": memberIDs})
	return out, nil
}

// NotifyOnMyWay stamps the time the client was told the crew is coming. Repeats overwrite.
func (s *Service) NotifyOnMyWay(ctx context.Context, id int64) (*domain.Job, error) {
	now := s.now()
	if err := s.store.Jobs.UpdateFields(ctx, id, map[string]any{"on_my_way_sent_at": now}); err != nil {
		return nil, err
	}
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, activity.JobOnMyWay, id, map[string]any{"sent_at": now})
	return out, nil
}

// Tasks

// AddTask appends a task to the job's checklist.
func (s *Service) AddTask(ctx context.Context, jobID int64, description string) (*domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.Invalid("description is required")
	}

	t := &domain.Task{JobID: jobID, Description: description}
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		if _, err := tx.Jobs.GetForUpdate(ctx, jobID); err != nil {
			return err
		}
		return tx.Tasks.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, activity.NewEvent(activity.TaskAdded, "task", t.ID, jobID, s.now(), t))
	return t, nil
}

// ToggleTask flips the completed flag.
func (s *Service) ToggleTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	var t *domain.Task
	err := s.store.Atomic(ctx, func(tx *repository.Store) error {
		var err error
		if t, err = tx.Tasks.GetForUpdate(ctx, taskID); err != nil {
			return err
		}
		t.Completed = !t.Completed
		return tx.Tasks.SetCompleted(ctx, taskID, t.Completed)
	})
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, activity.NewEvent(activity.TaskToggled, "task", t.ID, t.JobID, s.now(), t))
	return t, nil
}

// helpers

type normalized struct {
	clientID    int64
	description string
	scheduled   time.Time
	crewID      *int64
	crew        string
	estHours    *float64
	estCost     *float64
}

func normalize(in Input) (normalized, error) {
	out := normalized{
		clientID:    in.ClientID,
		description: strings.TrimSpace(in.Description),
		crew:        strings.TrimSpace(in.Crew),
		estHours:    in.EstimatedHours,
		estCost:     in.EstimatedCost,
	}
	if out.clientID <= 0 {
		return out, domain.Invalid("client_id is required")
	}
	if out.description == "" {
		return out, domain.Invalid("description is required")
	}
	var err error
	if out.scheduled, err = ParseSchedule(in.ScheduledDate); err != nil {
		return out, err
	}
	if in.CrewID != nil && *in.CrewID > 0 {
		id := *in.CrewID
		out.crewID = &id
	}
	if in.EstimatedHours != nil {
		if err := nonNegative("estimated_hours", *in.EstimatedHours); err != nil {
			return out, err
		}
	}
	if in.EstimatedCost != nil {
		if err := nonNegative("estimated_cost", *in.EstimatedCost); err != nil {
			return out, err
		}
	}
	return out, nil
}

// ParseSchedule accepts ISO-8601 date-times (with or without seconds or zone) and plain dates.
func ParseSchedule(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.Invalid("scheduled_date is required")
	}
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid("scheduled_date %q is not an ISO-8601 date or date-time", raw)
}

func (s *Service) checkRefs(ctx context.Context, tx *repository.Store, f normalized, memberIDs []int64) ([]int64, error) {
	if err := tx.Clients.Exists(ctx, f.clientID); err != nil {
		return nil, err
	}
	if f.crewID != nil {
		if _, err := tx.Crews.GetByID(ctx, *f.crewID); err != nil {
			return nil, err
		}
	}
	return checkMembers(ctx, tx, memberIDs)
}

// checkMembers de-duplicates ids and fails with NotFound on the first unknown member.
func checkMembers(ctx context.Context, tx *repository.Store, ids []int64) ([]int64, error) {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, domain.Invalid("invalid member id %d", id)
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return unique, nil
	}

	found, err := tx.Members.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(found) != len(unique) {
		known := make(map[int64]bool, len(found))
		for _, m := range found {
			known[m.ID] = true
		}
		for _, id := range unique {
			if !known[id] {
				return nil, domain.NotFound("member", id)
			}
		}
	}
	return unique, nil
}

func editable(j *domain.Job) error {
	if j.IsCompleted() {
		return fmt.Errorf("%w: job %d is completed and can no longer be edited", domain.ErrInvalidState, j.ID)
	}
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.Invalid("%s must be a non-negative number", field)
	}
	return nil
}
