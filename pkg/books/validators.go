package books

type ListBooksQuery struct {
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Title    string  `json:"title" mod:"trim" validate:"required,max=500"`
	Author   string  `json:"author" mod:"trim" validate:"required,max=300"`
	ISBN     *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=20"`
	Location string  `json:"location" mod:"trim" validate:"required,max=200"`
	Topic    *string `json:"topic,omitempty" mod:"trim" validate:"omitempty,max=64"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBookPayload overwrites every mutable field, so it carries the same
// shape and constraints as create.
type UpdateBookPayload struct {
	Title    string  `json:"title" mod:"trim" validate:"required,max=500"`
	Author   string  `json:"author" mod:"trim" validate:"required,max=300"`
	ISBN     *string `json:"isbn,omitempty" mod:"trim" validate:"omitempty,max=20"`
	Location string  `json:"location" mod:"trim" validate:"required,max=200"`
	Topic    *string `json:"topic,omitempty" mod:"trim" validate:"omitempty,max=64"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
