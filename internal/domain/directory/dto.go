package directory

type ClientInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Address string `json:"address" validate:"max=500"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// NameInput is the body for crews and members.
type NameInput struct {
	Name string `json:"name" validate:"required,max=200"`
}
