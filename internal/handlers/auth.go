package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"

	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	cfg    *config.Config
	svc    *services.Services
	tokens *middleware.Tokens
}

func NewAuthHandler(cfg *config.Config, svc *services.Services, tokens *middleware.Tokens) *AuthHandler {
	return &AuthHandler{cfg: cfg, svc: svc, tokens: tokens}
}

// LoginForm renders the login page, or sends an already signed-in caller to
// their home page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if p := h.tokens.Identify(r); p != nil {
		h.cfg.Debugf("LoginForm: valid token for %s, redirecting", p.Role)
		http.Redirect(w, r, homeFor(p.Role), http.StatusFound)
		return
	}
	renderTemplate(w, r, "login.html", map[string]interface{}{
		"Title": "Login - Partner Portal",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.FormValue("role"))
	mobile := r.FormValue("mobile")

	principal, err := h.svc.Identity.Authenticate(r.Context(), role, mobile, r.FormValue("password"))
	if err != nil {
		var permissionErr *models.PermissionError
		if errors.As(err, &permissionErr) {
			log.WithFields(log.Fields{"role": role, "mobile": mobile}).Info("Failed login")
		}
		if middleware.WantsJSON(r) {
			jsonError(w, http.StatusUnauthorized, errorMessage(r, err))
			return
		}
		redirectWithError(w, r, middleware.LoginPath, err)
		return
	}

	token, expires, err := h.tokens.Issue(*principal)
	if err != nil {
		log.WithError(err).Error("Failed to issue access token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, middleware.SessionCookie(token, expires, h.cfg.CookieSecure))
	log.WithFields(log.Fields{"role": principal.Role, "user_id": principal.ID}).Info("User logged in")

	if middleware.WantsJSON(r) {
		jsonResponse(w, http.StatusOK, map[string]interface{}{
			"access_token": token,
			"role":         principal.Role,
			"name":         principal.Name,
			"expires_at":   expires.UTC(),
		})
		return
	}
	http.Redirect(w, r, homeFor(principal.Role), http.StatusFound)
}

// Logout revokes the caller's token, clears the cookie and returns to the
// login page. A flash message on the request is carried over.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if raw := middleware.TokenFromRequest(r); raw != "" {
		if err := h.tokens.Revoke(r.Context(), raw); err != nil {
			log.WithError(err).Warn("Failed to revoke access token")
		}
	}
	http.SetCookie(w, middleware.ClearSessionCookie(h.cfg.CookieSecure))

	target := middleware.LoginPath
	if message, kind := flashFromRequest(r); message != "" {
		target += "?" + url.Values{"flash": {message}, "kind": {kind}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}
