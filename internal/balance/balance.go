// Package balance derives who-owes-whom summaries from a group's expense
// history. The aggregation is a pure, synchronous pass over an in-memory
// snapshot: it never mutates its inputs and holds no state between calls, so
// it is safe to invoke concurrently. Callers are responsible for handing it a
// consistent snapshot of all of a group's expenses.
package balance

import (
	"math"

	"github.com/falmansour/qisma/internal/expense/split"
)

// Status tracks whether a participant has reimbursed their share
type Status string

const (
	StatusUnpaid Status = "UNPAID"
	StatusPaid   Status = "PAID"
)

// Member is one entry of the group roster
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Participant is a member's settlement state within one expense
type Participant struct {
	UserID string `json:"user_id"`
	Status Status `json:"status"`
}

// Expense is the read-only slice of an expense the aggregator needs
type Expense struct {
	ID           string        `json:"id"`
	Amount       float64       `json:"amount"`
	PayerID      string        `json:"payer_id"`
	Participants []Participant `json:"participants"`
	Split        *split.Spec   `json:"split,omitempty"`
}

// Summary is one member's aggregated position across every expense in a group
type Summary struct {
	MemberID string `json:"member_id"`

	// TotalPaid is the sum of expense amounts this member fronted
	TotalPaid float64 `json:"total_paid"`

	// TotalOwed is the sum of this member's own unpaid shares
	TotalOwed float64 `json:"total_owed"`

	// TotalIsOwed is the sum of unpaid shares others owe this member
	TotalIsOwed float64 `json:"total_is_owed"`

	// OwedTo maps payer id -> what this member still owes them
	OwedTo map[string]float64 `json:"owed_to"`

	// OwedBy maps participant id -> what they still owe this member
	OwedBy map[string]float64 `json:"owed_by"`

	// NetBalance is TotalIsOwed - TotalOwed: positive = net creditor
	NetBalance float64 `json:"net_balance"`
}

// ForMember replays every expense through the split calculator and totals the
// target member's position. Expenses the member does not participate in are
// skipped, and shares already marked paid are excluded from the owing and
// being-owed bookkeeping. An id outside the roster yields a zero summary.
func ForMember(members []Member, expenses []Expense, memberID string) *Summary {
	s := &Summary{
		MemberID: memberID,
		OwedTo:   make(map[string]float64),
		OwedBy:   make(map[string]float64),
	}
	if !onRoster(members, memberID) {
		return s
	}

	for _, e := range expenses {
		ids := make([]string, len(e.Participants))
		statuses := make(map[string]Status, len(e.Participants))
		for i, p := range e.Participants {
			ids[i] = p.UserID
			statuses[p.UserID] = p.Status
		}

		if _, ok := statuses[memberID]; !ok {
			continue
		}

		shares := split.Shares(e.Amount, ids, e.Split)

		if e.PayerID == memberID {
			s.TotalPaid += e.Amount
			for _, p := range e.Participants {
				if p.UserID == memberID || p.Status == StatusPaid {
					continue
				}
				s.OwedBy[p.UserID] += shares[p.UserID]
			}
		} else if statuses[memberID] != StatusPaid {
			share := shares[memberID]
			s.TotalOwed += share
			s.OwedTo[e.PayerID] += share
		}
	}

	for _, v := range s.OwedBy {
		s.TotalIsOwed += v
	}

	s.TotalPaid = round2(s.TotalPaid)
	s.TotalOwed = round2(s.TotalOwed)
	s.TotalIsOwed = round2(s.TotalIsOwed)
	s.NetBalance = round2(s.TotalIsOwed - s.TotalOwed)
	for id, v := range s.OwedTo {
		s.OwedTo[id] = round2(v)
	}
	for id, v := range s.OwedBy {
		s.OwedBy[id] = round2(v)
	}

	return s
}

// ForGroup computes a summary for every roster member over the same snapshot
func ForGroup(members []Member, expenses []Expense) map[string]*Summary {
	summaries := make(map[string]*Summary, len(members))
	for _, m := range members {
		summaries[m.ID] = ForMember(members, expenses, m.ID)
	}
	return summaries
}

func onRoster(members []Member, id string) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// round2 rounds to 2 decimal places, half away from zero
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
