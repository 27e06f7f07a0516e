package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falmansour/qisma/internal/expense/split"
)

func twoMemberGroup() []Member {
	return []Member{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	}
}

func dinnerExpense(bobStatus Status) Expense {
	return Expense{
		ID:      "e1",
		Amount:  100,
		PayerID: "alice",
		Participants: []Participant{
			{UserID: "alice", Status: StatusPaid},
			{UserID: "bob", Status: bobStatus},
		},
		Split: &split.Spec{Type: split.TypeEqual},
	}
}

func TestForMemberDebtor(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{dinnerExpense(StatusUnpaid)}

	got := ForMember(members, expenses, "bob")

	assert.Equal(t, 0.0, got.TotalPaid)
	assert.Equal(t, 50.0, got.TotalOwed)
	assert.Equal(t, -50.0, got.NetBalance)
	require.Contains(t, got.OwedTo, "alice")
	assert.Equal(t, 50.0, got.OwedTo["alice"])
	assert.Empty(t, got.OwedBy)
}

func TestForMemberCreditor(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{dinnerExpense(StatusUnpaid)}

	got := ForMember(members, expenses, "alice")

	assert.Equal(t, 100.0, got.TotalPaid)
	assert.Equal(t, 0.0, got.TotalOwed)
	assert.Equal(t, 50.0, got.TotalIsOwed)
	assert.Equal(t, 50.0, got.NetBalance)
	require.Contains(t, got.OwedBy, "bob")
	assert.Equal(t, 50.0, got.OwedBy["bob"])
}

func TestForMemberSettledShareExcluded(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{dinnerExpense(StatusPaid)}

	bob := ForMember(members, expenses, "bob")
	assert.Equal(t, 0.0, bob.TotalOwed)
	assert.Empty(t, bob.OwedTo)
	assert.Equal(t, 0.0, bob.NetBalance)

	alice := ForMember(members, expenses, "alice")
	assert.Equal(t, 100.0, alice.TotalPaid, "settling a share does not undo what the payer fronted")
	assert.Empty(t, alice.OwedBy)
	assert.Equal(t, 0.0, alice.NetBalance)
}

func TestForMemberSkipsExpensesWithoutTheMember(t *testing.T) {
	members := []Member{{ID: "alice"}, {ID: "bob"}, {ID: "carol"}}
	expenses := []Expense{
		{
			ID:      "e1",
			Amount:  60,
			PayerID: "alice",
			Participants: []Participant{
				{UserID: "alice", Status: StatusPaid},
				{UserID: "bob", Status: StatusUnpaid},
			},
		},
	}

	got := ForMember(members, expenses, "carol")
	assert.Equal(t, 0.0, got.TotalOwed)
	assert.Equal(t, 0.0, got.TotalPaid)
	assert.Empty(t, got.OwedTo)
	assert.Empty(t, got.OwedBy)
}

func TestForMemberAccumulatesAcrossExpenses(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{
		dinnerExpense(StatusUnpaid),
		{
			ID:      "e2",
			Amount:  30,
			PayerID: "alice",
			Participants: []Participant{
				{UserID: "alice", Status: StatusPaid},
				{UserID: "bob", Status: StatusUnpaid},
			},
		},
		{
			ID:      "e3",
			Amount:  40,
			PayerID: "bob",
			Participants: []Participant{
				{UserID: "alice", Status: StatusUnpaid},
				{UserID: "bob", Status: StatusPaid},
			},
		},
	}

	bob := ForMember(members, expenses, "bob")
	assert.Equal(t, 40.0, bob.TotalPaid)
	assert.Equal(t, 65.0, bob.TotalOwed)
	assert.Equal(t, 65.0, bob.OwedTo["alice"])
	assert.Equal(t, 20.0, bob.OwedBy["alice"])
	assert.Equal(t, -45.0, bob.NetBalance)
}

func TestForMemberHonoursStoredSplitSpec(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{
		{
			ID:      "e1",
			Amount:  100,
			PayerID: "alice",
			Participants: []Participant{
				{UserID: "alice", Status: StatusPaid},
				{UserID: "bob", Status: StatusUnpaid},
			},
			Split: &split.Spec{Type: split.TypePercent, Allocations: []split.Allocation{
				{UserID: "alice", Value: 20},
				{UserID: "bob", Value: 80},
			}},
		},
	}

	bob := ForMember(members, expenses, "bob")
	assert.Equal(t, 80.0, bob.TotalOwed)
	assert.Equal(t, 80.0, bob.OwedTo["alice"])
}

func TestForMemberOffRosterYieldsZeroSummary(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{dinnerExpense(StatusUnpaid)}

	got := ForMember(members, expenses, "mallory")
	assert.Equal(t, 0.0, got.TotalPaid)
	assert.Equal(t, 0.0, got.TotalOwed)
	assert.Equal(t, 0.0, got.NetBalance)
}

func TestForMemberDoesNotMutateInputs(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{dinnerExpense(StatusUnpaid)}

	before := expenses[0].Participants[1].Status
	_ = ForMember(members, expenses, "alice")
	_ = ForMember(members, expenses, "bob")
	assert.Equal(t, before, expenses[0].Participants[1].Status)
}

func TestForGroup(t *testing.T) {
	members := twoMemberGroup()
	expenses := []Expense{dinnerExpense(StatusUnpaid)}

	summaries := ForGroup(members, expenses)
	require.Len(t, summaries, 2)
	assert.Equal(t, 50.0, summaries["alice"].NetBalance)
	assert.Equal(t, -50.0, summaries["bob"].NetBalance)
}
