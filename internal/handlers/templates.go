package handlers

import (
	"bytes"
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/util"
	"admission-partner-portal/internal/views"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const layoutFile = "layout.html"

var (
	pages         map[string]*template.Template
	templatesOnce sync.Once
	templatesErr  error
	cfg           *config.Config
	displayLoc    = time.UTC
)

// SetConfig sets the config for debug logging and the display timezone.
func SetConfig(c *config.Config) {
	cfg = c
	displayLoc = c.DisplayLocation()
}

func debugf(format string, v ...interface{}) {
	if cfg != nil {
		cfg.Debugf(format, v...)
	}
}

// InitTemplates parses every page at startup so template errors surface
// before the first request.
func InitTemplates() error {
	initTemplates()
	return templatesErr
}

var funcMap = template.FuncMap{
	"money":      money,
	"moneyValue": moneyValue,
	"localtime": func(t time.Time) string {
		return util.FormatInZone(t, displayLoc)
	},
	"localtimeNull": func(t sql.NullTime) string {
		if !t.Valid {
			return ""
		}
		return util.FormatInZone(t.Time, displayLoc)
	},
	"date": func(t sql.NullTime) string {
		if !t.Valid {
			return ""
		}
		return util.InZone(t.Time, displayLoc).Format("2006-01-02")
	},
	"statusInfo": models.GetStatusDisplayInfo,
	"sameID": func(a uuid.NullUUID, b uuid.UUID) bool {
		return a.Valid && a.UUID == b
	},
	"upper":           func(s interface{}) string { return strings.ToUpper(fmt.Sprint(s)) },
	"leadStatuses":    func() []models.LeadStatus { return models.LeadStatuses },
	"paymentTerms":    func() []models.PaymentTerm { return models.PaymentTerms },
	"accountStatuses": func() []models.AccountStatus { return models.AccountStatuses },
}

func initTemplates() {
	templatesOnce.Do(func() {
		debugf("Initializing templates")

		entries, err := fs.ReadDir(views.TemplatesFS, ".")
		if err != nil {
			templatesErr = fmt.Errorf("failed to read template directory: %w", err)
			return
		}

		pages = make(map[string]*template.Template)
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".html") || name == layoutFile {
				continue
			}
			tmpl, err := template.New(name).Funcs(funcMap).ParseFS(views.TemplatesFS, layoutFile, name)
			if err != nil {
				templatesErr = fmt.Errorf("failed to parse %s: %w", name, err)
				return
			}
			pages[name] = tmpl
			debugf("  - %s", name)
		}

		if len(pages) == 0 {
			templatesErr = fmt.Errorf("no template files found in embedded filesystem")
		}
	})
}

// authLayoutPages render without the navigation bar.
var authLayoutPages = map[string]bool{
	"login.html": true,
}

// renderTemplate executes a page inside its layout. data gets the caller
// and any flash message added.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	renderTemplateStatus(w, r, http.StatusOK, name, data)
}

func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	initTemplates()
	if templatesErr != nil {
		log.WithError(templatesErr).Error("Templates not initialized")
		http.Error(w, "Templates not initialized", http.StatusInternalServerError)
		return
	}

	tmpl, ok := pages[name]
	if !ok {
		log.WithField("template", name).Error("Template not found")
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	if r != nil {
		if _, ok := data["Principal"]; !ok {
			data["Principal"] = middleware.GetPrincipal(r)
		}
		if _, ok := data["Flash"]; !ok {
			data["Flash"], data["FlashKind"] = flashFromRequest(r)
		}
	}

	layoutName := "layout"
	if authLayoutPages[name] {
		layoutName = "auth_layout"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, data); err != nil {
		log.WithError(err).WithField("template", name).Error("Template execute error")
		http.Error(w, "Template execute error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
