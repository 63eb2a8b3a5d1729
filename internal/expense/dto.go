package expense

import "github.com/roomiesplit/roomiesplit/internal/group"

// SplitInput is one split entry in an expense creation request
type SplitInput struct {
	UserID string  `json:"user_id" validate:"required"`
	Share  float64 `json:"share" validate:"gte=0"`
}

// CreateExpenseRequest represents the request to add an expense
type CreateExpenseRequest struct {
	Description string       `json:"description" validate:"required,min=1,max=255"`
	Amount      float64      `json:"amount" validate:"gte=0"`
	PaidBy      string       `json:"paid_by" validate:"required"`
	SplitAmong  []SplitInput `json:"split_among" validate:"required,min=1,dive"`
}

// SplitResponse represents one split in an expense response
type SplitResponse struct {
	UserID string  `json:"user_id"`
	Email  string  `json:"email,omitempty"`
	Share  float64 `json:"share"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Amount      float64          `json:"amount"`
	PaidBy      string           `json:"paid_by"`
	PayerEmail  string           `json:"payer_email,omitempty"`
	SplitAmong  []*SplitResponse `json:"split_among"`
	CreatedAt   string           `json:"created_at"`
}

// BalancesResponse maps member email to net balance. Positive means the
// member is owed money, negative means they owe money.
type BalancesResponse map[string]float64

// ToResponse converts a group.Expense to an ExpenseResponse DTO
func ToResponse(e *group.Expense) *ExpenseResponse {
	splits := make([]*SplitResponse, len(e.SplitAmong))
	for i, s := range e.SplitAmong {
		splits[i] = &SplitResponse{
			UserID: s.UserID.Hex(),
			Email:  s.Email,
			Share:  s.Share,
		}
	}
	return &ExpenseResponse{
		ID:          e.ID.Hex(),
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy.Hex(),
		PayerEmail:  e.PayerEmail,
		SplitAmong:  splits,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
