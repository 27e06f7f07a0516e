package balance

import (
	"context"

	"github.com/falmansour/qisma/internal/expense"
	"github.com/falmansour/qisma/internal/group"
	"github.com/falmansour/qisma/internal/observability/metrics"
)

// Service aggregates who-owes-whom across a group's expense history.
// It loads the roster and the full expense snapshot and hands them to the
// pure aggregation functions.
type Service struct {
	groups   *group.Repository
	expenses *expense.Repository
}

// NewService creates a new balance service
func NewService(groups *group.Repository, expenses *expense.Repository) *Service {
	return &Service{groups: groups, expenses: expenses}
}

// GroupBalances computes the balance summary for every member of a group
func (s *Service) GroupBalances(ctx context.Context, groupID string) ([]*SummaryResponse, error) {
	members, expenses, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	metrics.BalanceRequested()

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	summaries := ForGroup(members, expenses)

	out := make([]*SummaryResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toSummaryResponse(summaries[m.ID], names[m.ID]))
	}
	return out, nil
}

// MemberBalance computes the balance summary for a single member
func (s *Service) MemberBalance(ctx context.Context, groupID, memberID string) (*SummaryResponse, error) {
	members, expenses, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	metrics.BalanceRequested()

	var username string
	for _, m := range members {
		if m.ID == memberID {
			username = m.Name
			break
		}
	}

	return toSummaryResponse(ForMember(members, expenses, memberID), username), nil
}

func (s *Service) snapshot(ctx context.Context, groupID string) ([]Member, []Expense, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		return nil, nil, group.ErrGroupNotFound
	}

	roster, err := s.groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.expenses.GroupSnapshot(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	members := make([]Member, len(roster))
	for i, m := range roster {
		members[i] = Member{ID: m.UserID, Name: m.Username, Email: m.Email}
	}

	expenses := make([]Expense, len(history))
	for i, e := range history {
		participants := make([]Participant, len(e.Participants))
		for j, p := range e.Participants {
			status := StatusUnpaid
			if p.Status == expense.ParticipantStatusPaid {
				status = StatusPaid
			}
			participants[j] = Participant{UserID: p.UserID, Status: status}
		}
		expenses[i] = Expense{
			ID:           e.Expense.ID,
			Amount:       e.Expense.Amount,
			PayerID:      e.Expense.PayerID,
			Participants: participants,
			Split:        e.Split,
		}
	}

	return members, expenses, nil
}
