package group

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roomiesplit/roomiesplit/pkg/middleware"
	"github.com/roomiesplit/roomiesplit/pkg/response"
	"github.com/roomiesplit/roomiesplit/pkg/validate"
)

// Handler handles HTTP requests for group lifecycle operations
type Handler struct {
	service *Service
}

// NewHandler creates a new group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the group endpoints on the given router. The
// router is expected to already require authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/mine", h.Mine)
	r.Post("/{groupID}/respond", h.RespondInvite)
	r.Post("/{groupID}/members", h.AddMember)
	r.Delete("/{groupID}/members/{memberID}", h.RemoveMember)
}

// Create handles POST /groups
// @Summary      Create a new group
// @Description  Create a group with the caller as admin; invite members by email
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body CreateGroupRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=GroupResponse}
// @Failure      400 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	g, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		slog.Error("failed to create group", "error", err)
		response.InternalError(w, "Failed to create group")
		return
	}

	slog.Info("group created", "group_id", g.ID.Hex(), "created_by", creatorID.Hex())
	response.JSON(w, http.StatusCreated, g.ToResponse())
}

// Mine handles GET /groups/mine
// @Summary      List my groups
// @Description  Get every group the caller belongs to
// @Tags         groups
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]GroupResponse}
// @Security     BearerAuth
// @Router       /groups/mine [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groups, err := h.service.Mine(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list groups", "error", err)
		response.InternalError(w, "Failed to list groups")
		return
	}

	groupResponses := make([]*GroupResponse, len(groups))
	for i, g := range groups {
		groupResponses[i] = g.ToResponse()
	}
	response.JSON(w, http.StatusOK, groupResponses)
}

// RespondInvite handles POST /groups/{groupID}/respond
// @Summary      Respond to an invite
// @Description  Accept or decline a pending group invitation
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        request body RespondInviteRequest true "Invite response"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/respond [post]
func (h *Handler) RespondInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := bson.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req RespondInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if _, err := h.service.RespondInvite(r.Context(), groupID, userID, req.Status); err != nil {
		h.writeError(w, err, "Failed to respond to invite")
		return
	}

	response.Message(w, http.StatusOK, "Invite "+string(req.Status))
}

// AddMember handles POST /groups/{groupID}/members
// @Summary      Add member to group
// @Description  Invite a user by email to join the group (admin only)
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        request body AddMemberRequest true "Member to invite"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := bson.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if _, err := h.service.AddMember(r.Context(), groupID, userID, req.Email); err != nil {
		h.writeError(w, err, "Failed to add member")
		return
	}

	response.Message(w, http.StatusOK, "Member added, awaiting acceptance")
}

// RemoveMember handles DELETE /groups/{groupID}/members/{memberID}
// @Summary      Remove member from group
// @Description  Remove a member from the roster (admin only); expenses are untouched
// @Tags         groups
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        memberID path string true "Member user ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/members/{memberID} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	groupID, err := bson.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}
	memberID, err := bson.ObjectIDFromHex(chi.URLParam(r, "memberID"))
	if err != nil {
		response.BadRequest(w, "Invalid member ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), groupID, userID, memberID); err != nil {
		h.writeError(w, err, "Failed to remove member")
		return
	}

	response.Message(w, http.StatusOK, "Member removed")
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotInvited), errors.Is(err, ErrNotAdmin):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrMemberAlreadyExists), errors.Is(err, ErrStaleGroup):
		response.Conflict(w, err.Error())
	default:
		slog.Error(fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
