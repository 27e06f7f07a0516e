package balance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/falmansour/qisma/internal/group"
	"github.com/falmansour/qisma/pkg/middleware"
	"github.com/falmansour/qisma/pkg/response"
)

// Handler handles HTTP requests for balance operations
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GroupBalances)
	r.Get("/group/{groupId}/me", h.MyBalance)

	return r
}

// GroupBalances handles GET /balances/group/{groupId}
// @Summary      Group balances
// @Description  Get the who-owes-whom summary for every member of a group
// @Tags         balances
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SummaryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")

	summaries, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, summaries)
}

// MyBalance handles GET /balances/group/{groupId}/me
// @Summary      My balance
// @Description  Get the caller's balance position within a group
// @Tags         balances
// @Produce      json
// @Param        groupId path string true "Group ID"
// @Success      200 {object} response.APIResponse{data=SummaryResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /balances/group/{groupId}/me [get]
func (h *Handler) MyBalance(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupId")

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.MemberBalance(r.Context(), groupID, userID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balance")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
