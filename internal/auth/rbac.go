package auth

import (
	"log/slog"
	"net/http"

	"github.com/smkhize/claims-management/internal/user"
)

// RBACAuthorization gates handlers on the account's role. The claim workflow
// engine itself is authorization-agnostic; these middlewares are the
// capability checks sitting in front of it.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) require(check func(user.Role) bool, denied string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !check(u.Role) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", u.ID,
					"role", u.Role,
					"required", denied)
				http.Error(w, "Forbidden: "+denied, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireReviewer admits programme coordinators and academic managers.
func (ra *RBACAuthorization) RequireReviewer() func(http.Handler) http.Handler {
	return ra.require(user.Role.CanReviewClaims, "coordinator or manager role required")
}

// RequireHR admits HR only; payment processing lives behind this gate.
func (ra *RBACAuthorization) RequireHR() func(http.Handler) http.Handler {
	return ra.require(user.Role.CanProcessPayments, "HR role required")
}

// RequireReporting admits coordinators, managers and HR.
func (ra *RBACAuthorization) RequireReporting() func(http.Handler) http.Handler {
	return ra.require(user.Role.CanViewReports, "management or HR role required")
}
