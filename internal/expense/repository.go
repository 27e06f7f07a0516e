package expense

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/falmansour/qisma/internal/expense/split"
)

// Repository handles expense and participant data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpense inserts an expense, its split allocations and its participant
// rows in one transaction
func (r *Repository) CreateExpense(ctx context.Context, payerID string, req *CreateExpenseRequest, spec *split.Spec, participants []*Participant) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	date := time.Now().UTC()
	if req.Date != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Date); err == nil {
			date = parsed.UTC()
		}
	}

	splitType := split.TypeEqual
	if spec != nil {
		splitType = spec.Type
	}

	query := `
		INSERT INTO expenses (id, group_id, payer_id, title, amount, split_type, completed, expense_date)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
		RETURNING id, group_id, payer_id, title, amount, split_type, completed, expense_date, created_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query,
		uuid.NewString(),
		req.GroupID,
		payerID,
		req.Title,
		req.Amount,
		splitType,
		date,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Title,
		&expense.Amount,
		&expense.SplitType,
		&expense.Completed,
		&expense.Date,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if spec != nil {
		for _, a := range spec.Allocations {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO expense_allocations (id, expense_id, user_id, value) VALUES ($1, $2, $3, $4)`,
				uuid.NewString(), expense.ID, a.UserID, a.Value,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create allocation: %w", err)
			}
		}
	}

	for _, p := range participants {
		p.ID = uuid.NewString()
		p.ExpenseID = expense.ID
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_participants (id, expense_id, user_id, share, status, paid_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, p.ExpenseID, p.UserID, p.Share, p.Status, p.PaidAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return expense, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id string) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.title, e.amount, e.split_type, e.completed, e.expense_date, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Title,
		&expense.Amount,
		&expense.SplitType,
		&expense.Completed,
		&expense.Date,
		&expense.CreatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetParticipantsByExpenseID retrieves all participant rows for an expense
func (r *Repository) GetParticipantsByExpenseID(ctx context.Context, expenseID string) ([]*Participant, error) {
	query := `
		SELECT p.id, p.expense_id, p.user_id, p.share, p.status, p.paid_at, u.username
		FROM expense_participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.expense_id = $1
		ORDER BY p.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []*Participant
	for rows.Next() {
		p := &Participant{}
		if err := rows.Scan(
			&p.ID,
			&p.ExpenseID,
			&p.UserID,
			&p.Share,
			&p.Status,
			&p.PaidAt,
			&p.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, nil
}

// GetSplitSpec reassembles the stored split configuration of an expense
// from its split type and allocation rows. Returns nil if the expense does
// not exist.
func (r *Repository) GetSplitSpec(ctx context.Context, expenseID string) (*split.Spec, error) {
	var splitType split.Type
	err := r.db.QueryRowContext(ctx, `SELECT split_type FROM expenses WHERE id = $1`, expenseID).Scan(&splitType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get split type: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, value FROM expense_allocations WHERE expense_id = $1 ORDER BY id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get allocations: %w", err)
	}
	defer rows.Close()

	spec := &split.Spec{Type: splitType}
	for rows.Next() {
		var a split.Allocation
		if err := rows.Scan(&a.UserID, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		spec.Allocations = append(spec.Allocations, a)
	}

	return spec, nil
}

// ListExpensesByGroupID retrieves a page of a group's expenses
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.title, e.amount, e.split_type, e.completed, e.expense_date, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.expense_date DESC, e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.Title,
			&expense.Amount,
			&expense.SplitType,
			&expense.Completed,
			&expense.Date,
			&expense.CreatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// GroupSnapshot loads every expense of a group with its participants and
// split configuration. The balance aggregator needs the full history in one
// consistent view.
func (r *Repository) GroupSnapshot(ctx context.Context, groupID string) ([]*ExpenseWithParticipants, error) {
	query := `
		SELECT id, group_id, payer_id, title, amount, split_type, completed, expense_date, created_at
		FROM expenses
		WHERE group_id = $1
		ORDER BY expense_date, created_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group expenses: %w", err)
	}
	defer rows.Close()

	var snapshot []*ExpenseWithParticipants
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.Title,
			&expense.Amount,
			&expense.SplitType,
			&expense.Completed,
			&expense.Date,
			&expense.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		snapshot = append(snapshot, &ExpenseWithParticipants{Expense: expense})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read group expenses: %w", err)
	}

	for _, entry := range snapshot {
		participants, err := r.GetParticipantsByExpenseID(ctx, entry.Expense.ID)
		if err != nil {
			return nil, err
		}
		entry.Participants = participants

		spec, err := r.GetSplitSpec(ctx, entry.Expense.ID)
		if err != nil {
			return nil, err
		}
		entry.Split = spec
	}

	return snapshot, nil
}

// GetParticipant retrieves one user's participant row for an expense
func (r *Repository) GetParticipant(ctx context.Context, expenseID, userID string) (*Participant, error) {
	query := `
		SELECT id, expense_id, user_id, share, status, paid_at
		FROM expense_participants
		WHERE expense_id = $1 AND user_id = $2
	`

	p := &Participant{}
	err := r.db.QueryRowContext(ctx, query, expenseID, userID).Scan(
		&p.ID,
		&p.ExpenseID,
		&p.UserID,
		&p.Share,
		&p.Status,
		&p.PaidAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return p, nil
}

// UpdateParticipantStatus flips a participant row's settlement status
func (r *Repository) UpdateParticipantStatus(ctx context.Context, expenseID, userID string, status ParticipantStatus, paidAt *time.Time) (*Participant, error) {
	query := `
		UPDATE expense_participants
		SET status = $3, paid_at = $4
		WHERE expense_id = $1 AND user_id = $2
		RETURNING id, expense_id, user_id, share, status, paid_at
	`

	p := &Participant{}
	err := r.db.QueryRowContext(ctx, query, expenseID, userID, status, paidAt).Scan(
		&p.ID,
		&p.ExpenseID,
		&p.UserID,
		&p.Share,
		&p.Status,
		&p.PaidAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update participant status: %w", err)
	}

	return p, nil
}

// MarkCompleted sets an expense's completed flag
func (r *Repository) MarkCompleted(ctx context.Context, id string) (*Expense, error) {
	query := `
		UPDATE expenses
		SET completed = TRUE
		WHERE id = $1
		RETURNING id, group_id, payer_id, title, amount, split_type, completed, expense_date, created_at
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Title,
		&expense.Amount,
		&expense.SplitType,
		&expense.Completed,
		&expense.Date,
		&expense.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark expense completed: %w", err)
	}

	return expense, nil
}

// DeleteExpense deletes an expense with its allocations and participants
func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_participants WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_allocations WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete allocations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("expense not found")
	}

	return tx.Commit()
}
