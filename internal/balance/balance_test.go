package balance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = Member{ID: "a1", Email: "alice@example.com"}
	bob     = Member{ID: "b2", Email: "bob@example.com"}
	charlie = Member{ID: "c3", Email: "charlie@example.com"}
)

func threeWayDinner() []Expense {
	return []Expense{
		{
			PaidBy: alice.ID,
			Amount: 300,
			Splits: []Split{
				{UserID: alice.ID, Share: 100},
				{UserID: bob.ID, Share: 100},
				{UserID: charlie.ID, Share: 100},
			},
			CreatedAt: time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestCompute_ThreeWaySplit(t *testing.T) {
	members := []Member{alice, bob, charlie}

	balances := Compute(members, threeWayDinner())

	require.Len(t, balances, 3)
	assert.True(t, balances[alice.Email].Equal(decimal.NewFromInt(200)), "alice: %s", balances[alice.Email])
	assert.True(t, balances[bob.Email].Equal(decimal.NewFromInt(-100)), "bob: %s", balances[bob.Email])
	assert.True(t, balances[charlie.Email].Equal(decimal.NewFromInt(-100)), "charlie: %s", balances[charlie.Email])
}

func TestCompute_EmptyLedgerIsAllZero(t *testing.T) {
	balances := Compute([]Member{alice, bob, charlie}, nil)

	require.Len(t, balances, 3)
	for email, b := range balances {
		assert.True(t, b.IsZero(), "%s should be zero, got %s", email, b)
	}
}

func TestCompute_ZeroSum(t *testing.T) {
	members := []Member{alice, bob, charlie}
	expenses := []Expense{
		{PaidBy: alice.ID, Amount: 33.33, Splits: []Split{
			{UserID: alice.ID, Share: 11.11},
			{UserID: bob.ID, Share: 11.11},
			{UserID: charlie.ID, Share: 11.11},
		}},
		{PaidBy: bob.ID, Amount: 10.01, Splits: []Split{
			{UserID: alice.ID, Share: 5.01},
			{UserID: charlie.ID, Share: 5.00},
		}},
		{PaidBy: charlie.ID, Amount: 0.03, Splits: []Split{
			{UserID: alice.ID, Share: 0.01},
			{UserID: bob.ID, Share: 0.01},
			{UserID: charlie.ID, Share: 0.01},
		}},
	}

	balances := Compute(members, expenses)

	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b)
	}
	assert.True(t, total.IsZero(), "balances should sum to zero, got %s", total)
}

func TestCompute_Idempotent(t *testing.T) {
	members := []Member{alice, bob, charlie}
	expenses := threeWayDinner()

	first := Compute(members, expenses)
	second := Compute(members, expenses)

	require.Equal(t, len(first), len(second))
	for email, b := range first {
		assert.True(t, b.Equal(second[email]), "%s: %s != %s", email, b, second[email])
	}
}

func TestCompute_SkipsUnknownSplitTarget(t *testing.T) {
	// Charlie was removed from the group after the expense was logged.
	members := []Member{alice, bob}

	balances := Compute(members, threeWayDinner())

	require.Len(t, balances, 2)
	assert.True(t, balances[alice.Email].Equal(decimal.NewFromInt(200)))
	assert.True(t, balances[bob.Email].Equal(decimal.NewFromInt(-100)))
	_, present := balances[charlie.Email]
	assert.False(t, present)
}

func TestCompute_SkipsUnknownPayer(t *testing.T) {
	// The payer left the group; their credit disappears but the remaining
	// members' debts still stand.
	members := []Member{bob, charlie}

	balances := Compute(members, threeWayDinner())

	require.Len(t, balances, 2)
	assert.True(t, balances[bob.Email].Equal(decimal.NewFromInt(-100)))
	assert.True(t, balances[charlie.Email].Equal(decimal.NewFromInt(-100)))
}

func TestCompute_RoundsToTwoDecimalsBankers(t *testing.T) {
	members := []Member{alice, bob}
	expenses := []Expense{
		{PaidBy: alice.ID, Amount: 0.125, Splits: []Split{
			{UserID: bob.ID, Share: 0.125},
		}},
	}

	balances := Compute(members, expenses)

	// 0.125 rounds to 0.12 under banker's rounding.
	assert.True(t, balances[alice.Email].Equal(decimal.NewFromFloat(0.12)), "got %s", balances[alice.Email])
	assert.True(t, balances[bob.Email].Equal(decimal.NewFromFloat(-0.12)), "got %s", balances[bob.Email])
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2025, time.March, time.UTC)

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls over the year boundary.
	start, end = MonthWindow(2025, time.December, time.UTC)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestFilterByMonth(t *testing.T) {
	march := Expense{PaidBy: alice.ID, Amount: 10, CreatedAt: time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)}
	april := Expense{PaidBy: bob.ID, Amount: 20, CreatedAt: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)}

	filtered := FilterByMonth([]Expense{march, april}, 2025, time.March, time.UTC)
	require.Len(t, filtered, 1)
	assert.Equal(t, alice.ID, filtered[0].PaidBy)

	filtered = FilterByMonth([]Expense{march, april}, 2025, time.April, time.UTC)
	require.Len(t, filtered, 1)
	assert.Equal(t, bob.ID, filtered[0].PaidBy)
}

func TestFilterByMonth_ExcludedExpenseDoesNotAffectBalance(t *testing.T) {
	members := []Member{alice, bob, charlie}
	expenses := threeWayDinner() // logged in March

	filtered := FilterByMonth(expenses, 2025, time.April, time.UTC)
	balances := Compute(members, filtered)

	require.Len(t, balances, 3)
	for email, b := range balances {
		assert.True(t, b.IsZero(), "%s should be zero for April, got %s", email, b)
	}
}
