package group

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roomiesplit/roomiesplit/internal/user"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
	ErrNotInvited          = errors.New("you are not invited to this group")
	ErrNotAdmin            = errors.New("only an admin can perform this action")
)

// Service handles group lifecycle business logic
type Service struct {
	groups Store
	users  user.Store
}

// NewService creates a new group service
func NewService(groups Store, users user.Store) *Service {
	return &Service{groups: groups, users: users}
}

// Create creates a new group with the creator as an accepted admin. The
// invite emails are resolved against existing accounts; emails that match
// nothing are skipped, everyone else joins the roster as pending.
func (s *Service) Create(ctx context.Context, creatorID bson.ObjectID, req *CreateGroupRequest) (*Group, error) {
	invitees, err := s.users.FindByEmails(ctx, req.Members)
	if err != nil {
		return nil, err
	}

	g := &Group{
		Name:      req.Name,
		CreatedBy: creatorID,
		Members: []Member{
			{UserID: creatorID, Status: MemberStatusAccepted, Role: MemberRoleAdmin},
		},
	}
	for _, u := range invitees {
		// AddMember keeps the roster unique, so a creator inviting
		// themselves or a repeated email is a no-op.
		g.AddMember(u.ID)
	}

	if err := s.groups.Insert(ctx, g); err != nil {
		return nil, err
	}

	if err := s.resolveMemberEmails(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Mine retrieves every group the user belongs to, with member emails
// resolved.
func (s *Service) Mine(ctx context.Context, userID bson.ObjectID) ([]*Group, error) {
	groups, err := s.groups.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, g := range groups {
		if err := s.resolveMemberEmails(ctx, g); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// RespondInvite transitions the caller's membership status to accepted or
// declined.
func (s *Service) RespondInvite(ctx context.Context, groupID, userID bson.ObjectID, status MemberStatus) (*Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	m := g.FindMember(userID)
	if m == nil {
		return nil, ErrNotInvited
	}
	m.Status = status

	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// AddMember invites a user by email. Admin only; the invitee joins the
// roster as pending.
func (s *Service) AddMember(ctx context.Context, groupID, actingUserID bson.ObjectID, email string) (*Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	if !g.IsAdmin(actingUserID) {
		return nil, ErrNotAdmin
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if !g.AddMember(u.ID) {
		return nil, ErrMemberAlreadyExists
	}

	if err := s.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// RemoveMember hard-deletes a roster entry. Admin only. Expenses that
// reference the removed member are not adjusted; the balance engine skips
// their stale references. Removing someone who is not on the roster is a
// no-op.
func (s *Service) RemoveMember(ctx context.Context, groupID, actingUserID, targetUserID bson.ObjectID) error {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrGroupNotFound
	}

	if !g.IsAdmin(actingUserID) {
		return ErrNotAdmin
	}

	if !g.RemoveMember(targetUserID) {
		return nil
	}
	return s.groups.Save(ctx, g)
}

func (s *Service) resolveMemberEmails(ctx context.Context, g *Group) error {
	return ResolveIdentities(ctx, s.users, g)
}

// ResolveIdentities populates the resolved email fields on a group's
// members, expense payers and split targets from the user collection.
// References to deleted users simply stay blank.
func ResolveIdentities(ctx context.Context, users user.Store, g *Group) error {
	seen := make(map[bson.ObjectID]struct{})
	var ids []bson.ObjectID
	add := func(id bson.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	for i := range g.Members {
		add(g.Members[i].UserID)
	}
	for i := range g.Expenses {
		add(g.Expenses[i].PaidBy)
		for j := range g.Expenses[i].SplitAmong {
			add(g.Expenses[i].SplitAmong[j].UserID)
		}
	}

	resolved, err := users.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	emailByID := make(map[bson.ObjectID]string, len(resolved))
	for _, u := range resolved {
		emailByID[u.ID] = u.Email
	}

	for i := range g.Members {
		g.Members[i].Email = emailByID[g.Members[i].UserID]
	}
	for i := range g.Expenses {
		g.Expenses[i].PayerEmail = emailByID[g.Expenses[i].PaidBy]
		for j := range g.Expenses[i].SplitAmong {
			g.Expenses[i].SplitAmong[j].Email = emailByID[g.Expenses[i].SplitAmong[j].UserID]
		}
	}
	return nil
}
