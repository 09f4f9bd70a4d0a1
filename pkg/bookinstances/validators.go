package bookinstances

// CreateInstancePayload registers a new physical copy of a book.
type CreateInstancePayload struct {
	BookID  int    `json:"book" form:"book" validate:"required,min=1"`
	Imprint string `json:"imprint" form:"imprint" mod:"trim" validate:"required,max=200"`
	DueBack string `json:"due_back" form:"due_back" mod:"trim" validate:"date"`
	Status  string `json:"status" form:"status" default:"m" validate:"loanstatus"`
}

// LendPayload lends an available copy.
type LendPayload struct {
	BorrowerID int    `json:"borrower" form:"borrower" validate:"required,min=1"`
	DueBack    string `json:"due_back" form:"due_back" mod:"trim" validate:"required,date"`
}
