package quote

type CreateInput struct {
	ClientID       int64   `json:"client_id" validate:"required,gt=0"`
	Description    string  `json:"description" validate:"required"`
	EstimatedHours float64 `json:"estimated_hours" validate:"gte=0"`
	EstimatedCost  float64 `json:"estimated_cost" validate:"gte=0"`
	ValidUntil     string  `json:"valid_until,omitempty"`
}
