package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/roomiesplit/roomiesplit/internal/group"
	"github.com/roomiesplit/roomiesplit/pkg/middleware"
	"github.com/roomiesplit/roomiesplit/pkg/response"
	"github.com/roomiesplit/roomiesplit/pkg/validate"
)

// Handler handles HTTP requests for expense and balance operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the expense endpoints on the groups router. The
// router is expected to already require authentication.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/{groupID}/expenses", h.Add)
	r.Get("/{groupID}/expenses", h.List)
	r.Delete("/{groupID}/expenses/{expenseID}", h.Delete)
	r.Get("/{groupID}/balance", h.Balances)
}

// Add handles POST /groups/{groupID}/expenses
// @Summary      Add an expense
// @Description  Append an expense to the group ledger (accepted members only)
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        request body CreateExpenseRequest true "Expense to add"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/expenses [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
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

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	e, err := h.service.Add(r.Context(), groupID, userID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add expense")
		return
	}

	slog.Info("expense added", "group_id", groupID.Hex(), "expense_id", e.ID.Hex(), "amount", e.Amount)
	response.JSON(w, http.StatusCreated, ToResponse(e))
}

// List handles GET /groups/{groupID}/expenses
// @Summary      List expenses
// @Description  Get the group's expenses, optionally filtered to a month
// @Tags         expenses
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        month query int false "Month (1-12), requires year"
// @Param        year query int false "Year, requires month"
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/expenses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	groupID, err := bson.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	filter, err := monthFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	expenses, err := h.service.List(r.Context(), groupID, filter)
	if err != nil {
		h.writeError(w, err, "Failed to list expenses")
		return
	}

	expenseResponses := make([]*ExpenseResponse, len(expenses))
	for i := range expenses {
		expenseResponses[i] = ToResponse(&expenses[i])
	}
	response.JSON(w, http.StatusOK, expenseResponses)
}

// Delete handles DELETE /groups/{groupID}/expenses/{expenseID}
// @Summary      Delete an expense
// @Description  Remove an expense by id; a missing id is a no-op success
// @Tags         expenses
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        expenseID path string true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/expenses/{expenseID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID, err := bson.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}
	expenseID, err := bson.ObjectIDFromHex(chi.URLParam(r, "expenseID"))
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	if err := h.service.Delete(r.Context(), groupID, expenseID); err != nil {
		h.writeError(w, err, "Failed to delete expense")
		return
	}

	response.Message(w, http.StatusOK, "Expense deleted")
}

// Balances handles GET /groups/{groupID}/balance
// @Summary      Compute balances
// @Description  Net balance per member email, optionally filtered to a month
// @Tags         expenses
// @Produce      json
// @Param        groupID path string true "Group ID"
// @Param        month query int false "Month (1-12), requires year"
// @Param        year query int false "Year, requires month"
// @Success      200 {object} response.APIResponse{data=BalancesResponse}
// @Failure      404 {object} response.APIResponse
// @Security     BearerAuth
// @Router       /groups/{groupID}/balance [get]
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	groupID, err := bson.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	filter, err := monthFilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	balances, err := h.service.Balances(r.Context(), groupID, filter)
	if err != nil {
		h.writeError(w, err, "Failed to compute balances")
		return
	}

	result := make(BalancesResponse, len(balances))
	for email, b := range balances {
		result[email] = b.InexactFloat64()
	}
	response.JSON(w, http.StatusOK, result)
}

// monthFilterFromQuery parses the optional month/year query parameters.
// Both must be present to filter; either alone is an error.
func monthFilterFromQuery(r *http.Request) (*MonthFilter, error) {
	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr == "" && yearStr == "" {
		return nil, nil
	}
	if monthStr == "" || yearStr == "" {
		return nil, errors.New("month and year must be provided together")
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return nil, errors.New("month must be an integer between 1 and 12")
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return nil, errors.New("year must be a positive integer")
	}

	return &MonthFilter{Year: year, Month: time.Month(month)}, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrPayerNotMember), errors.Is(err, ErrBadUserRef), errors.Is(err, ErrSplitMismatch):
		response.BadRequest(w, err.Error())
	case errors.Is(err, group.ErrStaleGroup):
		response.Conflict(w, err.Error())
	default:
		slog.Error(fallback, "error", err)
		response.InternalError(w, fallback)
	}
}
