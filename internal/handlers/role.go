package handlers

import (
	"errors"
	"net/http"

	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
)

// homeFor returns the landing page of a role.
func homeFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin/panel"
	case models.RolePartner:
		return "/partner/dashboard"
	case models.RoleEmployee:
		return "/employee/workbench"
	}
	return middleware.LoginPath
}

// Root sends the caller to their home page, or to login.
func Root(tokens *middleware.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p := tokens.Identify(r); p != nil {
			http.Redirect(w, r, homeFor(p.Role), http.StatusFound)
			return
		}
		http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	}
}

// logoutIfInactive ends the session of an account that was deactivated
// after it logged in. It reports whether it wrote a response.
func logoutIfInactive(w http.ResponseWriter, r *http.Request, err error) bool {
	var permissionErr *models.PermissionError
	if !errors.As(err, &permissionErr) {
		return false
	}
	redirectWithFlash(w, r, "/auth/logout", flashError, permissionErr.Message)
	return true
}
