package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"admission-partner-portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// AccessTokenCookie carries the signed access token for browser sessions.
const AccessTokenCookie = "access_token_cookie"

const LoginPath = "/auth/login"

type contextKey string

const principalKey contextKey = "principal"

var ErrTokenRevoked = errors.New("token has been revoked")

// Claims is the access token payload. Subject holds the account ID.
type Claims struct {
	Role models.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret  []byte
	ttl     time.Duration
	revoked Revocations
	now     func() time.Time
}

func NewTokens(secret string, ttl time.Duration, revoked Revocations) *Tokens {
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Issue signs a token for p and returns it with its expiry.
func (t *Tokens) Issue(p models.Principal) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		Role: p.Role,
		Name: p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies the signature, expiry and revocation of a token.
func (t *Tokens) Parse(ctx context.Context, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token has no expiry")
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("invalid role %q in token", claims.Role)
	}

	revoked, err := t.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates a token until it would have expired anyway. Tokens that
// no longer parse need no revocation.
func (t *Tokens) Revoke(ctx context.Context, raw string) error {
	claims, err := t.Parse(ctx, raw)
	if err != nil {
		return nil
	}
	return t.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (c *Claims) Principal() (*models.Principal, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}
	return &models.Principal{ID: id, Role: c.Role, Name: c.Name}, nil
}

func SessionCookie(token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// TokenFromRequest returns the access token from the cookie, or from an
// "Authorization: Bearer" header when there is no cookie.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns the authenticated caller, or nil outside RequireRole.
func GetPrincipal(r *http.Request) *models.Principal {
	if p, ok := r.Context().Value(principalKey).(*models.Principal); ok {
		return p
	}
	return nil
}

// Identify resolves the caller from the request without rejecting anyone.
func (t *Tokens) Identify(r *http.Request) *models.Principal {
	raw := TokenFromRequest(r)
	if raw == "" {
		return nil
	}
	claims, err := t.Parse(r.Context(), raw)
	if err != nil {
		return nil
	}
	p, err := claims.Principal()
	if err != nil {
		return nil
	}
	return p
}

// RequireRole admits requests carrying a valid token for one of roles.
func (t *Tokens) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := TokenFromRequest(r)
			if raw == "" {
				unauthorized(w, r, "Missing access token")
				return
			}
			claims, err := t.Parse(r.Context(), raw)
			if err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Debug("Rejected access token")
				http.SetCookie(w, ClearSessionCookie(r.TLS != nil))
				unauthorized(w, r, "Invalid or expired token")
				return
			}
			principal, err := claims.Principal()
			if err != nil {
				unauthorized(w, r, "Invalid or expired token")
				return
			}

			allowed := false
			for _, role := range roles {
				if principal.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				forbidden(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// WantsJSON reports whether the caller is an API client rather than a
// browser page.
func WantsJSON(r *http.Request) bool {
	if strings.Contains(r.URL.Path, "/api/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	if WantsJSON(r) {
		writeJSONError(w, http.StatusUnauthorized, message)
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) {
		writeJSONError(w, http.StatusForbidden, "Forbidden: Insufficient permissions")
		return
	}
	http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
}
