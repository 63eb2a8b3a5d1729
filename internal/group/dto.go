package group

// CreateGroupRequest represents the request to create a new group.
// Members are invite emails; emails that match no account are skipped.
type CreateGroupRequest struct {
	Name    string   `json:"name" validate:"required,min=1,max=100"`
	Members []string `json:"members" validate:"omitempty,dive,email"`
}

// RespondInviteRequest represents the request to accept or decline an invite
type RespondInviteRequest struct {
	Status MemberStatus `json:"status" validate:"required,oneof=accepted declined"`
}

// AddMemberRequest represents the request to invite a user by email
type AddMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MemberResponse represents a member in a group response
type MemberResponse struct {
	UserID string       `json:"user_id"`
	Email  string       `json:"email,omitempty"`
	Status MemberStatus `json:"status"`
	Role   MemberRole   `json:"role"`
}

// GroupResponse represents the response for a group
type GroupResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedBy string            `json:"created_by"`
	CreatedAt string            `json:"created_at"`
	Members   []*MemberResponse `json:"members"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID: m.UserID.Hex(),
		Email:  m.Email,
		Status: m.Status,
		Role:   m.Role,
	}
}

// ToResponse converts a Group model to a GroupResponse DTO
func (g *Group) ToResponse() *GroupResponse {
	members := make([]*MemberResponse, len(g.Members))
	for i := range g.Members {
		members[i] = g.Members[i].ToResponse()
	}
	return &GroupResponse{
		ID:        g.ID.Hex(),
		Name:      g.Name,
		CreatedBy: g.CreatedBy.Hex(),
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Members:   members,
	}
}
