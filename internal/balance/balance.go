// Package balance computes per-member net balances for a group snapshot.
//
// The engine is a pure function of its inputs: it holds no state, touches no
// storage, and is safe to run concurrently for different groups. Running it
// twice over the same snapshot yields identical output.
package balance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is a group member with a resolved display identity.
type Member struct {
	ID    string // user id, hex
	Email string
}

// Split is the portion of an expense attributed as a debt to a user.
type Split struct {
	UserID string
	Share  float64
}

// Expense is the minimal expense view the engine needs.
type Expense struct {
	PaidBy    string
	Amount    float64
	Splits    []Split
	CreatedAt time.Time
}

// Compute returns the net balance per member email. Positive means the
// member is owed money, negative means they owe money.
//
// Every member starts at zero. Each expense credits its full amount to the
// payer and debits each split target by its share. Splits (or a payer)
// referencing someone who is no longer on the roster are skipped rather
// than treated as an error; stale references only stop affecting current
// members.
//
// Amounts are accumulated as decimals and rounded to 2 decimal places with
// banker's rounding, so results do not drift across many expenses.
func Compute(members []Member, expenses []Expense) map[string]decimal.Decimal {
	emailByID := make(map[string]string, len(members))
	balances := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		emailByID[m.ID] = m.Email
		balances[m.Email] = decimal.Zero
	}

	for _, exp := range expenses {
		if email, ok := emailByID[exp.PaidBy]; ok {
			balances[email] = balances[email].Add(decimal.NewFromFloat(exp.Amount))
		}
		for _, s := range exp.Splits {
			email, ok := emailByID[s.UserID]
			if !ok {
				continue
			}
			balances[email] = balances[email].Sub(decimal.NewFromFloat(s.Share))
		}
	}

	for email, b := range balances {
		balances[email] = b.RoundBank(2)
	}
	return balances
}

// MonthWindow returns the half-open interval [first of month, first of next
// month) in the given location. Inclusion of an instant t is tested with
// !t.Before(start) && t.Before(end), which admits the whole last day of the
// month up to 23:59:59.999...
func MonthWindow(year int, month time.Month, loc *time.Location) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 1, 0)
	return start, end
}

// FilterByMonth keeps the expenses whose CreatedAt falls inside the month
// window for year/month in loc. Order is preserved.
func FilterByMonth(expenses []Expense, year int, month time.Month, loc *time.Location) []Expense {
	start, end := MonthWindow(year, month, loc)
	var filtered []Expense
	for _, exp := range expenses {
		if !exp.CreatedAt.Before(start) && exp.CreatedAt.Before(end) {
			filtered = append(filtered, exp)
		}
	}
	return filtered
}
