package handlers

import (
	"net/http"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"
)

type EmployeeHandler struct {
	cfg *config.Config
	svc *services.Services
}

func NewEmployeeHandler(cfg *config.Config, svc *services.Services) *EmployeeHandler {
	return &EmployeeHandler{cfg: cfg, svc: svc}
}

// Workbench lists every lead for follow-up along with the employee's
// profile form.
func (h *EmployeeHandler) Workbench(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employee, err := h.svc.Identity.RequireActiveEmployee(ctx, middleware.GetPrincipal(r).ID)
	if err != nil {
		if logoutIfInactive(w, r, err) {
			return
		}
		http.Error(w, errorMessage(r, err), models.HTTPStatus(err))
		return
	}

	filter := models.LeadFilter{
		Status: models.LeadStatus(r.URL.Query().Get("status")),
		Search: r.URL.Query().Get("search"),
	}
	leads, err := h.svc.Leads.ListLeads(ctx, filter)
	if err != nil {
		http.Error(w, errorMessage(r, err), models.HTTPStatus(err))
		return
	}

	renderTemplate(w, r, "employee_workbench.html", map[string]interface{}{
		"Title":        "Workbench",
		"Employee":     employee,
		"Leads":        leads,
		"StatusFilter": string(filter.Status),
		"Search":       filter.Search,
	})
}

// UpdateProfile handles the profile form posted to the workbench.
func (h *EmployeeHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("type") != "profile" {
		redirectWithFlash(w, r, "/employee/workbench", flashError, "Unknown form")
		return
	}
	if _, err := h.svc.Identity.UpdateEmployeeProfile(r.Context(), middleware.GetPrincipal(r).ID,
		r.FormValue("name"), r.FormValue("email")); err != nil {
		redirectWithError(w, r, "/employee/workbench", err)
		return
	}
	redirectWithFlash(w, r, "/employee/workbench", flashSuccess, "Profile updated successfully")
}

// AddRemark replaces the follow-up note on a lead.
func (h *EmployeeHandler) AddRemark(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	leadID, err := formUUID(r, "lead_id")
	if err == nil && !leadID.Valid {
		err = models.NewValidationError("lead_id", "lead is required")
	}
	if err != nil {
		redirectWithError(w, r, "/employee/workbench", err)
		return
	}

	if _, err := h.svc.Leads.AddRemark(r.Context(), principal.ID, leadID.UUID, r.FormValue("remark")); err != nil {
		if logoutIfInactive(w, r, err) {
			return
		}
		redirectWithError(w, r, "/employee/workbench", err)
		return
	}
	redirectWithFlash(w, r, "/employee/workbench", flashSuccess, "Remark saved successfully")
}
