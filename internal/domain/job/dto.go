package job

// Input is the body for creating and editing a job. A nil MemberIDs leaves the roster untouched
// on edit; an empty list clears it.
type Input struct {
	ClientID       int64    `json:"client_id" validate:"required,gt=0"`
	Description    string   `json:"description" validate:"required"`
	ScheduledDate  string   `json:"scheduled_date" validate:"required"`
	CrewID         *int64   `json:"crew_id,omitempty" validate:"omitempty,gte=0"`
	Crew           string   `json:"crew,omitempty" validate:"max=200"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,gte=0"`
	EstimatedCost  *float64 `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	MemberIDs      []int64  `json:"member_ids,omitempty" validate:"omitempty,dive,gt=0"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// CompleteInput carries the actuals. Status defaults to Completed.
type CompleteInput struct {
	ActualHours *float64 `json:"actual_hours" validate:"required,gte=0"`
	ActualCost  *float64 `json:"actual_cost" validate:"required,gte=0"`
	Status      string   `json:"status,omitempty"`
}

type MembersInput struct {
	MemberIDs []int64 `json:"member_ids" validate:"dive,gt=0"`
}

type TaskInput struct {
	Description string `json:"description" validate:"required"`
}

// ListFilter is bound from the query string of GET /jobs.
type ListFilter struct {
	Status   string `form:"status"`
	ClientID int64  `form:"client_id"`
	CrewID   int64  `form:"crew_id"`
	MemberID int64  `form:"member_id"`
}
