package expense

import (
	"time"

	"github.com/falmansour/qisma/internal/expense/split"
)

// ParticipantStatus tracks whether a participant has reimbursed their share
type ParticipantStatus string

const (
	ParticipantStatusUnpaid ParticipantStatus = "UNPAID"
	ParticipantStatusPaid   ParticipantStatus = "PAID"
)

// Expense represents a shared expense in the system
type Expense struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"group_id"`
	PayerID   string     `json:"payer_id"`
	Title     string     `json:"title"`
	Amount    float64    `json:"amount"`
	SplitType split.Type `json:"split_type"`
	Completed bool       `json:"completed"`
	Date      time.Time  `json:"date"`
	CreatedAt time.Time  `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Participant is one member's stake in an expense: their computed share and
// whether they have paid it back yet
type Participant struct {
	ID        string            `json:"id"`
	ExpenseID string            `json:"expense_id"`
	UserID    string            `json:"user_id"`
	Share     float64           `json:"share"`
	Status    ParticipantStatus `json:"status"`
	PaidAt    *time.Time        `json:"paid_at,omitempty"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithParticipants combines an expense with its participant rows and
// the split configuration it was created with
type ExpenseWithParticipants struct {
	Expense      *Expense
	Participants []*Participant
	Split        *split.Spec
}
