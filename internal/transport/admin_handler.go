package transport

import (
	"net/http"

	"burns-farm-shop/internal/analytics"
	"burns-farm-shop/internal/domain"
	"burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultAnalyticsRange = domain.RangeWeek

// AcceptInvitationRequest carries the token from the invitation link
type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

// AdminHandler serves the dashboard figures and team management
type AdminHandler struct {
	analytics *analytics.Service
	team      service.TeamService
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(stats *analytics.Service, team service.TeamService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{analytics: stats, team: team, logger: logger}
}

// RegisterRoutes registers the public invitation acceptance route
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/invitations/accept", h.AcceptInvitation)
}

// RegisterAdminRoutes registers dashboard and team routes under the admin router
func (h *AdminHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/analytics", h.Analytics)
	r.Get("/reports", h.Reports)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/{userID}/activate", h.ActivateUser)
		r.Post("/{userID}/deactivate", h.DeactivateUser)
	})

	r.Route("/invitations", func(r chi.Router) {
		r.Get("/", h.ListInvitations)
		r.Post("/", h.Invite)
		r.Post("/{invitationID}/resend", h.ResendInvitation)
		r.Delete("/{invitationID}", h.CancelInvitation)
	})
}

// Analytics handles GET /api/admin/analytics?range=today|week|month|all
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	rng := domain.TimeRange(r.URL.Query().Get("range"))
	if rng == "" {
		rng = defaultAnalyticsRange
	}
	if !rng.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown time range")
		return
	}

	summary, err := h.analytics.Summary(r.Context(), rng)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to compute analytics")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.Report(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to build report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.team.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list users")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.team.ActivateUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to activate user")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.team.DeactivateUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to deactivate user")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.team.ListInvitations(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to list invitations")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, invitations)
}

func (h *AdminHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req service.InviteInput
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	inv, err := h.team.Invite(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to send invitation")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, inv)
}

func (h *AdminHandler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	inv, err := h.team.Resend(r.Context(), chi.URLParam(r, "invitationID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to resend invitation")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, inv)
}

func (h *AdminHandler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	if err := h.team.Cancel(r.Context(), chi.URLParam(r, "invitationID")); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to cancel invitation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req AcceptInvitationRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	user, err := h.team.Accept(r.Context(), req.Token)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to accept invitation")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, user)
}
