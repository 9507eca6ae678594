package document

import (
	"io"
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
	claims  ClaimReader
}

func NewHandler(svc ServiceAPI, claims ClaimReader) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		claims:      claims,
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

// canAccessClaim checks ownership: lecturers reach only their own claims,
// reporting roles reach any.
func (h *Handler) canAccessClaim(r *http.Request, claimID int64) (string, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		return "", false
	}
	if u.Role.CanViewReports() {
		return u.Name, true
	}

	c, err := h.claims.GetClaim(claimID)
	if err != nil {
		// let the service surface not-found consistently
		return u.Name, true
	}
	return u.Name, c.LecturerName == u.Name
}

// Upload handles POST /claims/{id}/documents with a multipart "file" field
// plus optional "document_type" and "description" form fields.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	claimID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	uploader, allowed := h.canAccessClaim(r, claimID)
	if !allowed {
		h.WriteError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := r.ParseMultipartForm(MaxFileSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	d, err := h.Service.Upload(r.Context(), UploadDTO{
		ClaimID:      claimID,
		Uploader:     uploader,
		FileName:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		DocumentType: r.FormValue("document_type"),
		Description:  r.FormValue("description"),
		DeclaredSize: header.Size,
	}, file)
	if err != nil {
		h.Logger.Warn("document upload rejected", "claim_id", claimID, "filename", header.Filename, "error", err)
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, d)
}

// ListForClaim handles GET /claims/{id}/documents.
func (h *Handler) ListForClaim(w http.ResponseWriter, r *http.Request) {
	claimID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	if _, allowed := h.canAccessClaim(r, claimID); !allowed {
		h.WriteError(w, http.StatusForbidden, "access denied")
		return
	}

	docs, err := h.Service.ListForClaim(claimID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, docs)
}

// Download handles GET /documents/{id}/download and streams the stored file.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	d, rc, err := h.Service.Open(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	defer rc.Close()

	if _, allowed := h.canAccessClaim(r, d.ClaimID); !allowed {
		h.WriteError(w, http.StatusForbidden, "access denied")
		return
	}

	if d.ContentType != "" {
		w.Header().Set("Content-Type", d.ContentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+d.OriginalName+`"`)

	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("failed to stream document", "document_id", id, "error", err)
	}
}

// Delete handles DELETE /documents/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	d, err := h.Service.GetDocument(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if _, allowed := h.canAccessClaim(r, d.ClaimID); !allowed {
		h.WriteError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
