package expense

import "github.com/falmansour/qisma/internal/expense/split"

// AllocationRequest is one (participant, value) pair of a split configuration
type AllocationRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	Value  float64 `json:"value"`
}

// SplitRequest is the wire form of a split configuration
type SplitRequest struct {
	Type        string              `json:"type" validate:"required,oneof=EQUAL PERCENT AMOUNT"`
	Allocations []AllocationRequest `json:"allocations,omitempty"`
}

// ToSpec converts the request to the calculator's spec type
func (r *SplitRequest) ToSpec() *split.Spec {
	if r == nil {
		return nil
	}
	allocations := make([]split.Allocation, len(r.Allocations))
	for i, a := range r.Allocations {
		allocations[i] = split.Allocation{UserID: a.UserID, Value: a.Value}
	}
	return &split.Spec{Type: split.Type(r.Type), Allocations: allocations}
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID    string        `json:"group_id" validate:"required"`
	Title      string        `json:"title" validate:"required,min=1,max=255"`
	Amount     float64       `json:"amount" validate:"required,gt=0"`
	Date       string        `json:"date,omitempty"` // RFC 3339; defaults to now
	SharedWith []string      `json:"shared_with" validate:"required,min=1"`
	Split      *SplitRequest `json:"split,omitempty"` // absent = equal split
}

// PreviewSplitRequest asks for shares without persisting anything
type PreviewSplitRequest struct {
	Amount         float64       `json:"amount"`
	ParticipantIDs []string      `json:"participant_ids"`
	Split          *SplitRequest `json:"split,omitempty"`
}

// PreviewSplitResponse carries the advisory validation result next to the
// best-effort shares
type PreviewSplitResponse struct {
	Validation split.Validation   `json:"validation"`
	Shares     map[string]float64 `json:"shares"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            string                 `json:"id"`
	GroupID       string                 `json:"group_id"`
	PayerID       string                 `json:"payer_id"`
	PayerUsername string                 `json:"payer_username,omitempty"`
	Title         string                 `json:"title"`
	Amount        float64                `json:"amount"`
	SplitType     string                 `json:"split_type"`
	Completed     bool                   `json:"completed"`
	Date          string                 `json:"date"`
	CreatedAt     string                 `json:"created_at"`
	Participants  []*ParticipantResponse `json:"participants,omitempty"`
}

// ParticipantResponse represents one participant row in an expense response
type ParticipantResponse struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	Username string            `json:"username,omitempty"`
	Share    float64           `json:"share"`
	Status   ParticipantStatus `json:"status"`
	PaidAt   string            `json:"paid_at,omitempty"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Title:         e.Title,
		Amount:        e.Amount,
		SplitType:     string(e.SplitType),
		Completed:     e.Completed,
		Date:          e.Date.Format("2006-01-02T15:04:05Z"),
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Participant model to a ParticipantResponse DTO
func (p *Participant) ToResponse() *ParticipantResponse {
	resp := &ParticipantResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		Username: p.Username,
		Share:    p.Share,
		Status:   p.Status,
	}
	if p.PaidAt != nil {
		resp.PaidAt = p.PaidAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}
