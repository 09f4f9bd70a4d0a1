package models

import (
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// LoanStatus is stored as its single-character code.
type LoanStatus string

const (
	LoanStatusMaintenance LoanStatus = "m"
	LoanStatusOnLoan      LoanStatus = "o"
	LoanStatusAvailable   LoanStatus = "a"
	LoanStatusReserved    LoanStatus = "r"
)

// LoanStatuses lists every status in display order.
var LoanStatuses = []LoanStatus{
	LoanStatusMaintenance,
	LoanStatusOnLoan,
	LoanStatusAvailable,
	LoanStatusReserved,
}

var loanStatusLabels = map[LoanStatus]string{
	LoanStatusMaintenance: "Maintenance",
	LoanStatusOnLoan:      "On loan",
	LoanStatusAvailable:   "Available",
	LoanStatusReserved:    "Reserved",
}

func (s LoanStatus) Valid() bool {
	_, ok := loanStatusLabels[s]
	return ok
}

func (s LoanStatus) Label() string {
	return loanStatusLabels[s]
}

var (
	ErrInvalidLoanStatus = errors.New("invalid loan status")
	ErrDueBackRequired   = errors.New("due back date is required for books on loan")
)

type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi"`

	ID         string     `bun:",pk" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     int        `bun:",nullzero" json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	Imprint    string     `bun:",notnull" json:"imprint"`
	DueBack    *time.Time `json:"due_back"`
	Status     LoanStatus `bun:",notnull" json:"status"`
	BorrowerID *int       `json:"borrower_id"`
	Borrower   *User      `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty"`
}

// String renders the instance as "<id> (<book title>)".
func (bi *BookInstance) String() string {
	title := ""
	if bi.Book != nil {
		title = bi.Book.Title
	}
	return bi.ID + " (" + title + ")"
}

// IsOverdue reports whether due_back is set and falls strictly before the
// calendar date of today.
func (bi *BookInstance) IsOverdue(today time.Time) bool {
	if bi.DueBack == nil {
		return false
	}
	return DateOf(*bi.DueBack).Before(DateOf(today))
}

// Validate checks the status code and that on-loan instances carry a due date.
func (bi *BookInstance) Validate() error {
	if !bi.Status.Valid() {
		return ErrInvalidLoanStatus
	}
	if bi.Status == LoanStatusOnLoan && bi.DueBack == nil {
		return ErrDueBackRequired
	}
	return nil
}
