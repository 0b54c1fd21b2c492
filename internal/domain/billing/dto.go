package billing

type PaymentInput struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Method string  `json:"method" validate:"required,oneof=Cash Check Card Other"`
}
