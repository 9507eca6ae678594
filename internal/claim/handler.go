package claim

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/smkhize/claims-management/internal"
	"github.com/smkhize/claims-management/internal/auth"
	"github.com/smkhize/claims-management/internal/transport"
	"github.com/smkhize/claims-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) claimID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// CreateClaim handles POST /claims. The lecturer identity comes from the
// authenticated account, never from the request body.
func (h *Handler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitClaimDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.SubmitClaim(r.Context(), u.Name, dto)
	if err != nil {
		h.Logger.Warn("claim submission rejected", "lecturer", u.Name, "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, c)
}

// MyClaims handles GET /claims/my.
func (h *Handler) MyClaims(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	claims, err := h.Service.ListForLecturer(u.Name)
	if err != nil {
		h.Logger.Error("failed to list claims", "lecturer", u.Name, "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, claims)
}

// AllClaims handles GET /claims. Role-gated at the router.
func (h *Handler) AllClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Service.ListAll()
	if err != nil {
		h.Logger.Error("failed to list claims", "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, claims)
}

// PendingClaims handles GET /claims/pending for reviewers.
func (h *Handler) PendingClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Service.ListPending()
	if err != nil {
		h.Logger.Error("failed to list pending claims", "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, claims)
}

// ClaimDetails handles GET /claims/{id}. Lecturers may only read their own
// claims; reviewing and HR roles may read any.
func (h *Handler) ClaimDetails(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	c, err := h.Service.GetClaim(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if c.LecturerName != u.Name && !u.Role.CanViewReports() {
		h.WriteError(w, http.StatusForbidden, "access denied")
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// Approve handles POST /claims/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	c, err := h.Service.ApproveClaim(r.Context(), id, u.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// Reject handles POST /claims/{id}/reject. The body is optional.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var dto RejectClaimDTO
	if r.Body != nil {
		// Reason is optional, so a missing or empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	c, err := h.Service.RejectClaim(r.Context(), id, u.Name, dto.Reason)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// PaymentQueue handles GET /payments/queue for HR.
func (h *Handler) PaymentQueue(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Service.PaymentQueue()
	if err != nil {
		h.Logger.Error("failed to list payment queue", "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, claims)
}

// ProcessPayment handles POST /payments/{id}.
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	id, err := h.claimID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	c, err := h.Service.ProcessPayment(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

// ProcessBulkPayments handles POST /payments/bulk.
func (h *Handler) ProcessBulkPayments(w http.ResponseWriter, r *http.Request) {
	var dto BulkPaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.writeServiceError(w, err)
		return
	}

	result, err := h.Service.ProcessBulkPayments(r.Context(), dto.ClaimIDs)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
