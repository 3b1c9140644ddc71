package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// JSON response helpers
func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// errorMessage logs unexpected errors and returns the text safe to show.
func errorMessage(r *http.Request, err error) string {
	if models.HTTPStatus(err) == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Error("Request failed")
	}
	return models.UserMessage(err)
}

func jsonServiceError(w http.ResponseWriter, r *http.Request, err error) {
	jsonError(w, models.HTTPStatus(err), errorMessage(r, err))
}

// redirectWithFlash sends the browser to target with a one-shot message.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	q := url.Values{"flash": {message}, "kind": {kind}}
	http.Redirect(w, r, target+sep+q.Encode(), http.StatusFound)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, target string, err error) {
	redirectWithFlash(w, r, target, flashError, errorMessage(r, err))
}

// flashFromRequest reads the message set by redirectWithFlash.
func flashFromRequest(r *http.Request) (message, kind string) {
	message = r.URL.Query().Get("flash")
	kind = r.URL.Query().Get("kind")
	if kind != flashSuccess {
		kind = flashError
	}
	return message, kind
}

// pathID parses a UUID route variable.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, models.NewValidationError(name, "invalid id")
	}
	return id, nil
}

func formUUID(r *http.Request, key string) (uuid.NullUUID, error) {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.NullUUID{}, models.NewValidationError(key, "invalid id")
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

// formDecimal parses an optional money or percentage field.
func formDecimal(r *http.Request, key string) (decimal.NullDecimal, error) {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, models.NewValidationError(key, "%s is not a number", value)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(models.MoneyPlaces)
}

func moneyValue(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}
