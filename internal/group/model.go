package group

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemberStatus represents the status of a group member
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusAccepted MemberStatus = "accepted"
	MemberStatusDeclined MemberStatus = "declined"
)

// MemberRole represents the role of a group member
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// Member represents a user's membership in a group. At most one Member
// exists per (group, user) pair.
type Member struct {
	UserID bson.ObjectID `bson:"user_id" json:"user_id"`
	Status MemberStatus  `bson:"status" json:"status"`
	Role   MemberRole    `bson:"role" json:"role"`

	// Resolved from the user collection, not persisted on the group
	Email string `bson:"-" json:"email,omitempty"`
}

// Split is the portion of an expense attributed as a debt to a user
type Split struct {
	UserID bson.ObjectID `bson:"user_id" json:"user_id"`
	Share  float64       `bson:"share" json:"share"`

	Email string `bson:"-" json:"email,omitempty"`
}

// Expense records a payment by one member split among users. CreatedAt is
// assigned once at creation and is the sole field used for month filtering.
type Expense struct {
	ID          bson.ObjectID `bson:"id" json:"id"`
	Description string        `bson:"description" json:"description"`
	Amount      float64       `bson:"amount" json:"amount"`
	PaidBy      bson.ObjectID `bson:"paid_by" json:"paid_by"`
	SplitAmong  []Split       `bson:"split_among" json:"split_among"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`

	PayerEmail string `bson:"-" json:"payer_email,omitempty"`
}

// Group is the aggregate root: membership and expenses are embedded and the
// whole document is read, mutated and written back as a unit. Version backs
// the optimistic concurrency check on save.
type Group struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	CreatedBy bson.ObjectID `bson:"created_by" json:"created_by"`
	Members   []Member      `bson:"members" json:"members"`
	Expenses  []Expense     `bson:"expenses" json:"expenses"`
	Version   int64         `bson:"version" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// FindMember returns the membership entry for userID, or nil.
func (g *Group) FindMember(userID bson.ObjectID) *Member {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// HasMember reports whether userID is on the roster in any status.
func (g *Group) HasMember(userID bson.ObjectID) bool {
	return g.FindMember(userID) != nil
}

// IsAdmin reports whether userID is an admin member.
func (g *Group) IsAdmin(userID bson.ObjectID) bool {
	m := g.FindMember(userID)
	return m != nil && m.Role == MemberRoleAdmin
}

// IsAcceptedMember reports whether userID is a member who accepted.
func (g *Group) IsAcceptedMember(userID bson.ObjectID) bool {
	m := g.FindMember(userID)
	return m != nil && m.Status == MemberStatusAccepted
}

// AddMember appends a pending member-role entry for userID. Returns false
// if userID is already on the roster.
func (g *Group) AddMember(userID bson.ObjectID) bool {
	if g.HasMember(userID) {
		return false
	}
	g.Members = append(g.Members, Member{
		UserID: userID,
		Status: MemberStatusPending,
		Role:   MemberRoleMember,
	})
	return true
}

// RemoveMember deletes the roster entry for userID. Expenses referencing
// the removed member are left untouched. Returns false if no entry existed.
func (g *Group) RemoveMember(userID bson.ObjectID) bool {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}

// AppendExpense adds an expense to the ledger, assigning its identity and
// creation time.
func (g *Group) AppendExpense(e Expense) Expense {
	e.ID = bson.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	g.Expenses = append(g.Expenses, e)
	return e
}

// RemoveExpense deletes an expense by identity. Returns false if no
// expense with that id existed.
func (g *Group) RemoveExpense(expenseID bson.ObjectID) bool {
	for i := range g.Expenses {
		if g.Expenses[i].ID == expenseID {
			g.Expenses = append(g.Expenses[:i], g.Expenses[i+1:]...)
			return true
		}
	}
	return false
}
