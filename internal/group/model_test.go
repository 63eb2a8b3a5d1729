package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestAddMember_KeepsRosterUnique(t *testing.T) {
	userID := bson.NewObjectID()
	g := &Group{}

	require.True(t, g.AddMember(userID))
	assert.False(t, g.AddMember(userID))
	assert.Len(t, g.Members, 1)
	assert.Equal(t, MemberStatusPending, g.Members[0].Status)
	assert.Equal(t, MemberRoleMember, g.Members[0].Role)
}

func TestGroupRemoveMember(t *testing.T) {
	a, b := bson.NewObjectID(), bson.NewObjectID()
	g := &Group{Members: []Member{
		{UserID: a, Status: MemberStatusAccepted, Role: MemberRoleAdmin},
		{UserID: b, Status: MemberStatusPending, Role: MemberRoleMember},
	}}

	assert.True(t, g.RemoveMember(b))
	assert.Len(t, g.Members, 1)
	assert.Equal(t, a, g.Members[0].UserID)

	// Removing someone who is not on the roster reports false.
	assert.False(t, g.RemoveMember(b))
}

func TestRemoveMember_LeavesExpensesUntouched(t *testing.T) {
	a, b := bson.NewObjectID(), bson.NewObjectID()
	g := &Group{
		Members: []Member{
			{UserID: a, Status: MemberStatusAccepted, Role: MemberRoleAdmin},
			{UserID: b, Status: MemberStatusAccepted, Role: MemberRoleMember},
		},
	}
	g.AppendExpense(Expense{
		Description: "rent",
		Amount:      100,
		PaidBy:      b,
		SplitAmong:  []Split{{UserID: a, Share: 50}, {UserID: b, Share: 50}},
	})

	g.RemoveMember(b)

	require.Len(t, g.Expenses, 1)
	assert.Equal(t, b, g.Expenses[0].PaidBy)
	assert.Len(t, g.Expenses[0].SplitAmong, 2)
}

func TestMembershipChecks(t *testing.T) {
	admin, pending, declined := bson.NewObjectID(), bson.NewObjectID(), bson.NewObjectID()
	g := &Group{Members: []Member{
		{UserID: admin, Status: MemberStatusAccepted, Role: MemberRoleAdmin},
		{UserID: pending, Status: MemberStatusPending, Role: MemberRoleMember},
		{UserID: declined, Status: MemberStatusDeclined, Role: MemberRoleMember},
	}}

	assert.True(t, g.IsAdmin(admin))
	assert.False(t, g.IsAdmin(pending))

	assert.True(t, g.IsAcceptedMember(admin))
	assert.False(t, g.IsAcceptedMember(pending))
	assert.False(t, g.IsAcceptedMember(declined))
	assert.False(t, g.IsAcceptedMember(bson.NewObjectID()))
}

func TestAppendExpense_AssignsIdentityAndTime(t *testing.T) {
	g := &Group{}
	e := g.AppendExpense(Expense{Description: "groceries", Amount: 42})

	assert.False(t, e.ID.IsZero())
	assert.False(t, e.CreatedAt.IsZero())
	require.Len(t, g.Expenses, 1)
	assert.Equal(t, e.ID, g.Expenses[0].ID)
}

func TestRemoveExpense(t *testing.T) {
	g := &Group{}
	e := g.AppendExpense(Expense{Description: "pizza", Amount: 30})

	assert.True(t, g.RemoveExpense(e.ID))
	assert.Empty(t, g.Expenses)

	// Removing a missing id reports false.
	assert.False(t, g.RemoveExpense(e.ID))
}
