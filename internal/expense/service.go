package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/falmansour/qisma/internal/activity"
	"github.com/falmansour/qisma/internal/expense/split"
	"github.com/falmansour/qisma/internal/notification"
	"github.com/falmansour/qisma/internal/observability/metrics"
)

// Common errors
var (
	ErrExpenseNotFound     = errors.New("expense not found")
	ErrNotParticipant      = errors.New("only a participant of this expense can do that")
	ErrNotPayer            = errors.New("only the payer can do that")
	ErrShareAlreadyPaid    = errors.New("share is already marked paid")
	ErrExpenseCompleted    = errors.New("expense is already completed")
	ErrCannotDeleteExpense = errors.New("cannot delete an expense with paid shares")
	ErrInvalidSplit        = errors.New("invalid split configuration")
)

// Service handles expense business logic
type Service struct {
	repo     *Repository
	notifier *notification.Service
	activity *activity.Worker
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, notifier *notification.Service, activity *activity.Worker) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		activity: activity,
	}
}

// CreateExpense validates the split configuration, computes every
// participant's share and persists the expense. The payer's own participant
// row is pre-marked PAID; everyone else starts UNPAID.
func (s *Service) CreateExpense(ctx context.Context, payerID string, req *CreateExpenseRequest) (*ExpenseWithParticipants, error) {
	spec := req.Split.ToSpec()

	// Validation is advisory for the calculator but binding for persistence:
	// a spec that fails here is never stored.
	if v := split.Validate(req.Amount, req.SharedWith, spec); !v.OK {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSplit, v.Message)
	}

	shares := split.Shares(req.Amount, req.SharedWith, spec)
	metrics.SharesComputed(splitTypeLabel(spec))

	now := time.Now().UTC()
	seen := make(map[string]bool, len(req.SharedWith))
	var participants []*Participant
	for _, userID := range req.SharedWith {
		if userID == "" || seen[userID] {
			continue
		}
		seen[userID] = true

		p := &Participant{
			UserID: userID,
			Share:  shares[userID],
			Status: ParticipantStatusUnpaid,
		}
		if userID == payerID {
			p.Status = ParticipantStatusPaid
			p.PaidAt = &now
		}
		participants = append(participants, p)
	}

	expense, err := s.repo.CreateExpense(ctx, payerID, req, spec, participants)
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		if p.UserID == payerID {
			continue
		}
		if _, err := s.notifier.NotifyExpenseAdded(ctx, p.UserID, expense.Title, p.Share, expense.ID); err != nil {
			slog.Warn("failed to notify participant", "expense_id", expense.ID, "user_id", p.UserID, "error", err)
		}
	}

	s.activity.Log(activity.NewEvent(
		activity.WithType(activity.TypeExpenseCreated),
		activity.WithActor(payerID),
		activity.WithData(map[string]any{
			"expense_id": expense.ID,
			"group_id":   expense.GroupID,
			"amount":     expense.Amount,
			"split_type": expense.SplitType,
		}),
	))

	return &ExpenseWithParticipants{
		Expense:      expense,
		Participants: participants,
		Split:        spec,
	}, nil
}

// Preview runs validation and share computation without persisting anything.
// The shares are best-effort even when validation fails, matching what the
// calculator would produce if the spec were stored as-is.
func (s *Service) Preview(req *PreviewSplitRequest) *PreviewSplitResponse {
	spec := req.Split.ToSpec()
	metrics.SharesComputed(splitTypeLabel(spec))

	return &PreviewSplitResponse{
		Validation: split.Validate(req.Amount, req.ParticipantIDs, spec),
		Shares:     split.Shares(req.Amount, req.ParticipantIDs, spec),
	}
}

// GetExpenseByID retrieves an expense with its participants and stored split
func (s *Service) GetExpenseByID(ctx context.Context, id string) (*ExpenseWithParticipants, error) {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	participants, err := s.repo.GetParticipantsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	spec, err := s.repo.GetSplitSpec(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithParticipants{
		Expense:      expense,
		Participants: participants,
		Split:        spec,
	}, nil
}

// ListExpensesByGroupID retrieves expenses for a group
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID string, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// MarkShareAsPaid flips the caller's own participant row from UNPAID to PAID
func (s *Service) MarkShareAsPaid(ctx context.Context, expenseID, userID string) (*Participant, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.Completed {
		return nil, ErrExpenseCompleted
	}

	participant, err := s.repo.GetParticipant(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}
	if participant == nil {
		return nil, ErrNotParticipant
	}
	if participant.Status == ParticipantStatusPaid {
		return nil, ErrShareAlreadyPaid
	}

	now := time.Now().UTC()
	updated, err := s.repo.UpdateParticipantStatus(ctx, expenseID, userID, ParticipantStatusPaid, &now)
	if err != nil {
		return nil, err
	}

	if _, err := s.notifier.NotifySharePaid(ctx, expense.PayerID, expense.Title, updated.Share, expenseID); err != nil {
		slog.Warn("failed to notify payer", "expense_id", expenseID, "error", err)
	}

	s.activity.Log(activity.NewEvent(
		activity.WithType(activity.TypeSharePaid),
		activity.WithActor(userID),
		activity.WithData(map[string]any{
			"expense_id": expenseID,
			"share":      updated.Share,
		}),
	))

	return updated, nil
}

// MarkCompleted lets the payer close out an expense. Completing before every
// share is paid is allowed (the stored data may predate settlement), but it
// is logged since it usually signals a mistake.
func (s *Service) MarkCompleted(ctx context.Context, expenseID, userID string) (*Expense, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return nil, ErrNotPayer
	}
	if expense.Completed {
		return nil, ErrExpenseCompleted
	}

	participants, err := s.repo.GetParticipantsByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	unpaid := 0
	for _, p := range participants {
		if p.Status != ParticipantStatusPaid {
			unpaid++
		}
	}
	if unpaid > 0 {
		slog.Warn("expense marked complete with unpaid shares", "expense_id", expenseID, "unpaid", unpaid)
	}

	updated, err := s.repo.MarkCompleted(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrExpenseNotFound
	}

	for _, p := range participants {
		if p.UserID == userID {
			continue
		}
		if _, err := s.notifier.NotifyExpenseCompleted(ctx, p.UserID, updated.Title, expenseID); err != nil {
			slog.Warn("failed to notify participant", "expense_id", expenseID, "user_id", p.UserID, "error", err)
		}
	}

	s.activity.Log(activity.NewEvent(
		activity.WithType(activity.TypeExpenseCompleted),
		activity.WithActor(userID),
		activity.WithData(map[string]any{"expense_id": expenseID}),
	))

	return updated, nil
}

// DeleteExpense removes an expense, unless someone already paid their share
func (s *Service) DeleteExpense(ctx context.Context, id, userID string) error {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return ErrNotPayer
	}

	participants, err := s.repo.GetParticipantsByExpenseID(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range participants {
		if p.UserID != expense.PayerID && p.Status == ParticipantStatusPaid {
			return ErrCannotDeleteExpense
		}
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.activity.Log(activity.NewEvent(
		activity.WithType(activity.TypeExpenseDeleted),
		activity.WithActor(userID),
		activity.WithData(map[string]any{"expense_id": id, "group_id": expense.GroupID}),
	))

	return nil
}

func splitTypeLabel(spec *split.Spec) string {
	if spec == nil {
		return string(split.TypeEqual)
	}
	return string(spec.Type)
}
