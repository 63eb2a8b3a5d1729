package expense

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roomiesplit/roomiesplit/internal/balance"
	"github.com/roomiesplit/roomiesplit/internal/group"
	"github.com/roomiesplit/roomiesplit/internal/user"
)

// Common errors
var (
	ErrNotGroupMember = errors.New("you are not a member of this group")
	ErrPayerNotMember = errors.New("payer must be an accepted member of the group")
	ErrBadUserRef     = errors.New("invalid user reference")
	ErrSplitMismatch  = errors.New("split shares must sum to the expense amount")
)

// MonthFilter restricts a query to a single calendar month.
type MonthFilter struct {
	Year  int
	Month time.Month
}

// Service handles expense and balance operations over the group aggregate
type Service struct {
	groups group.Store
	users  user.Store
	tz     *time.Location
}

// NewService creates a new expense service. tz is the zone month windows
// are evaluated in.
func NewService(groups group.Store, users user.Store, tz *time.Location) *Service {
	if tz == nil {
		tz = time.UTC
	}
	return &Service{groups: groups, users: users, tz: tz}
}

// Add appends a new expense to the group ledger. The acting user must be
// an accepted member, the payer must be an accepted member, and the split
// shares must sum to the amount after 2-decimal rounding. Split targets
// are not required to be members; stale or foreign references degrade to
// skipped entries at balance time.
func (s *Service) Add(ctx context.Context, groupID, actingUserID bson.ObjectID, req *CreateExpenseRequest) (*group.Expense, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}

	if !g.IsAcceptedMember(actingUserID) {
		return nil, ErrNotGroupMember
	}

	paidBy, err := bson.ObjectIDFromHex(req.PaidBy)
	if err != nil {
		return nil, ErrBadUserRef
	}
	if !g.IsAcceptedMember(paidBy) {
		return nil, ErrPayerNotMember
	}

	splits := make([]group.Split, len(req.SplitAmong))
	shareSum := decimal.Zero
	for i, in := range req.SplitAmong {
		userID, err := bson.ObjectIDFromHex(in.UserID)
		if err != nil {
			return nil, ErrBadUserRef
		}
		splits[i] = group.Split{UserID: userID, Share: in.Share}
		shareSum = shareSum.Add(decimal.NewFromFloat(in.Share))
	}

	amount := decimal.NewFromFloat(req.Amount)
	if !shareSum.RoundBank(2).Equal(amount.RoundBank(2)) {
		return nil, ErrSplitMismatch
	}

	e := g.AppendExpense(group.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      paidBy,
		SplitAmong:  splits,
	})

	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns the group's expenses with payer and split identities
// resolved, optionally restricted to a calendar month.
func (s *Service) List(ctx context.Context, groupID bson.ObjectID, filter *MonthFilter) ([]group.Expense, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}

	if err := group.ResolveIdentities(ctx, s.users, g); err != nil {
		return nil, err
	}

	if filter == nil {
		return g.Expenses, nil
	}

	start, end := balance.MonthWindow(filter.Year, filter.Month, s.tz)
	var filtered []group.Expense
	for _, e := range g.Expenses {
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// Delete removes an expense by identity. A missing expense id is a no-op
// success; only a missing group is an error.
func (s *Service) Delete(ctx context.Context, groupID, expenseID bson.ObjectID) error {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return group.ErrGroupNotFound
	}

	if !g.RemoveExpense(expenseID) {
		return nil
	}
	return s.groups.Save(ctx, g)
}

// Balances recomputes net balances from the current aggregate snapshot,
// optionally restricted to a calendar month. Declined members are not part
// of the balance sheet.
func (s *Service) Balances(ctx context.Context, groupID bson.ObjectID, filter *MonthFilter) (map[string]decimal.Decimal, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}

	if err := group.ResolveIdentities(ctx, s.users, g); err != nil {
		return nil, err
	}

	var members []balance.Member
	for _, m := range g.Members {
		if m.Status == group.MemberStatusDeclined {
			continue
		}
		members = append(members, balance.Member{ID: m.UserID.Hex(), Email: m.Email})
	}

	expenses := make([]balance.Expense, len(g.Expenses))
	for i, e := range g.Expenses {
		splits := make([]balance.Split, len(e.SplitAmong))
		for j, sp := range e.SplitAmong {
			splits[j] = balance.Split{UserID: sp.UserID.Hex(), Share: sp.Share}
		}
		expenses[i] = balance.Expense{
			PaidBy:    e.PaidBy.Hex(),
			Amount:    e.Amount,
			Splits:    splits,
			CreatedAt: e.CreatedAt,
		}
	}

	if filter != nil {
		expenses = balance.FilterByMonth(expenses, filter.Year, filter.Month, s.tz)
	}

	return balance.Compute(members, expenses), nil
}
