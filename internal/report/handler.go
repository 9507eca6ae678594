package report

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/smkhize/claims-management/internal"
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

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// Monthly handles GET /reports/monthly?month=&year=.
func (h *Handler) Monthly(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "month query parameter is required")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "year query parameter is required")
		return
	}

	rep, err := h.Service.Monthly(month, year)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}

// Overview handles GET /reports/dashboard.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Overview()
	if err != nil {
		h.Logger.Error("failed to build dashboard", "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, d)
}
