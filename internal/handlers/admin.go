package handlers

import (
	"net/http"
	"strings"
	"time"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"
	"admission-partner-portal/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type AdminHandler struct {
	cfg *config.Config
	svc *services.Services
}

func NewAdminHandler(cfg *config.Config, svc *services.Services) *AdminHandler {
	return &AdminHandler{cfg: cfg, svc: svc}
}

// Panel renders the admin landing page with the headline counters.
func (h *AdminHandler) Panel(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.AdminReport(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to build admin report")
		http.Error(w, "Failed to load panel", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "admin_panel.html", map[string]interface{}{
		"Title":  "Admin Panel",
		"Report": report,
	})
}

func (h *AdminHandler) Partners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.svc.Identity.ListPartners(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list partners")
		http.Error(w, "Failed to load partners", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "admin_partners.html", map[string]interface{}{
		"Title":    "Partners",
		"Partners": partners,
	})
}

func (h *AdminHandler) SetPartnerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		redirectWithError(w, r, "/admin/partners", err)
		return
	}
	status := models.AccountStatus(r.FormValue("status"))
	partner, err := h.svc.Identity.SetPartnerStatus(r.Context(), id, status)
	if err != nil {
		redirectWithError(w, r, "/admin/partners", err)
		return
	}
	redirectWithFlash(w, r, "/admin/partners", flashSuccess, "Partner status updated to "+strings.ToUpper(string(partner.Status)))
}

func (h *AdminHandler) Employees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.Identity.ListEmployees(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list employees")
		http.Error(w, "Failed to load employees", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "admin_employees.html", map[string]interface{}{
		"Title":     "Employees",
		"Employees": employees,
	})
}

func (h *AdminHandler) SetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		redirectWithError(w, r, "/admin/employees", err)
		return
	}
	status := models.AccountStatus(r.FormValue("status"))
	employee, err := h.svc.Identity.SetEmployeeStatus(r.Context(), id, status)
	if err != nil {
		redirectWithError(w, r, "/admin/employees", err)
		return
	}
	redirectWithFlash(w, r, "/admin/employees", flashSuccess, "Employee status updated to "+strings.ToUpper(string(employee.Status)))
}

// accountForm describes one of the three account creation pages.
type accountForm struct {
	Kind         string
	Title        string
	Action       string
	RequireEmail bool
	Done         string
}

var (
	partnerForm  = accountForm{Kind: "partner", Title: "Create Partner", Action: "/admin/create_partner", Done: "/admin/partners"}
	employeeForm = accountForm{Kind: "employee", Title: "Create Employee", Action: "/admin/create_employee", Done: "/admin/employees"}
	adminForm    = accountForm{Kind: "admin", Title: "Create Admin", Action: "/admin/create_admin", RequireEmail: true, Done: "/admin/panel"}
)

func accountInputFromForm(r *http.Request) services.AccountInput {
	return services.AccountInput{
		Name:     r.FormValue("name"),
		Mobile:   r.FormValue("mobile"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
}

func renderAccountForm(w http.ResponseWriter, r *http.Request, status int, form accountForm, in services.AccountInput, err error) {
	data := map[string]interface{}{
		"Title": form.Title,
		"Form":  form,
		"Input": in,
	}
	if err != nil {
		data["Error"] = errorMessage(r, err)
	}
	renderTemplateStatus(w, r, status, "admin_create_account.html", data)
}

func (h *AdminHandler) CreatePartnerForm(w http.ResponseWriter, r *http.Request) {
	renderAccountForm(w, r, http.StatusOK, partnerForm, services.AccountInput{}, nil)
}

func (h *AdminHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	in := accountInputFromForm(r)
	if _, err := h.svc.Identity.CreatePartner(r.Context(), in); err != nil {
		in.Password = ""
		renderAccountForm(w, r, models.HTTPStatus(err), partnerForm, in, err)
		return
	}
	redirectWithFlash(w, r, partnerForm.Done, flashSuccess, "Partner created successfully")
}

func (h *AdminHandler) CreateEmployeeForm(w http.ResponseWriter, r *http.Request) {
	renderAccountForm(w, r, http.StatusOK, employeeForm, services.AccountInput{}, nil)
}

func (h *AdminHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	in := accountInputFromForm(r)
	if _, err := h.svc.Identity.CreateEmployee(r.Context(), in); err != nil {
		in.Password = ""
		renderAccountForm(w, r, models.HTTPStatus(err), employeeForm, in, err)
		return
	}
	redirectWithFlash(w, r, employeeForm.Done, flashSuccess, "Employee created successfully")
}

func (h *AdminHandler) CreateAdminForm(w http.ResponseWriter, r *http.Request) {
	renderAccountForm(w, r, http.StatusOK, adminForm, services.AccountInput{}, nil)
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	in := accountInputFromForm(r)
	if _, err := h.svc.Identity.CreateAdmin(r.Context(), in); err != nil {
		in.Password = ""
		renderAccountForm(w, r, models.HTTPStatus(err), adminForm, in, err)
		return
	}
	redirectWithFlash(w, r, adminForm.Done, flashSuccess, "Admin created successfully")
}

// leadFilterFromQuery reads the list filters shared by the lead page and the
// export.
func leadFilterFromQuery(r *http.Request) (models.LeadFilter, error) {
	q := r.URL.Query()
	f := models.LeadFilter{
		Status: models.LeadStatus(q.Get("status")),
		Search: q.Get("search"),
	}
	if raw := q.Get("partner_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, models.NewValidationError("partner_id", "invalid id")
		}
		f.PartnerID = uuid.NullUUID{UUID: id, Valid: true}
	}
	return f, nil
}

func (h *AdminHandler) Leads(w http.ResponseWriter, r *http.Request) {
	filter, err := leadFilterFromQuery(r)
	if err != nil {
		http.Error(w, errorMessage(r, err), http.StatusBadRequest)
		return
	}
	leads, err := h.svc.Leads.ListLeads(r.Context(), filter)
	if err != nil {
		if models.HTTPStatus(err) == http.StatusBadRequest {
			http.Error(w, errorMessage(r, err), http.StatusBadRequest)
			return
		}
		log.WithError(err).Error("Failed to list leads")
		http.Error(w, "Failed to load leads", http.StatusInternalServerError)
		return
	}
	courses, err := h.svc.Catalog.ListCourses(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list courses")
		http.Error(w, "Failed to load courses", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "admin_leads.html", map[string]interface{}{
		"Title":        "Leads",
		"Leads":        leads,
		"Courses":      courses,
		"StatusFilter": string(filter.Status),
		"Search":       filter.Search,
		"ExportURL":    "/admin/leads/export?" + r.URL.RawQuery,
	})
}

// UpdateLead applies a status, course or payment method change from the
// lead list.
func (h *AdminHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		redirectWithError(w, r, "/admin/leads", err)
		return
	}
	courseID, err := formUUID(r, "course_id")
	if err != nil {
		redirectWithError(w, r, "/admin/leads", err)
		return
	}
	update := models.StatusUpdate{
		Status:      models.LeadStatus(r.FormValue("status")),
		CourseID:    courseID,
		PaymentTerm: models.PaymentTerm(r.FormValue("payment_term")),
	}
	if _, err := h.svc.Leads.UpdateStatus(r.Context(), id, update); err != nil {
		redirectWithError(w, r, "/admin/leads", err)
		return
	}
	redirectWithFlash(w, r, "/admin/leads", flashSuccess, "Lead updated successfully")
}

func (h *AdminHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.svc.Catalog.ListCourses(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list courses")
		http.Error(w, "Failed to load courses", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "admin_courses.html", map[string]interface{}{
		"Title":   "Courses",
		"Courses": courses,
	})
}

func (h *AdminHandler) CreateCourseForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "admin_create_course.html", map[string]interface{}{
		"Title": "Create Course",
	})
}

func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	description := r.FormValue("description")

	renderErr := func(err error) {
		renderTemplateStatus(w, r, models.HTTPStatus(err), "admin_create_course.html", map[string]interface{}{
			"Title":       "Create Course",
			"Error":       errorMessage(r, err),
			"CourseTitle": title,
			"Description": description,
			"Price":       r.FormValue("price"),
		})
	}

	price, err := formDecimal(r, "price")
	if err != nil {
		renderErr(err)
		return
	}
	if !price.Valid {
		renderErr(models.NewValidationError("price", "price is required"))
		return
	}
	if _, err := h.svc.Catalog.CreateCourse(r.Context(), title, description, price.Decimal); err != nil {
		renderErr(err)
		return
	}
	redirectWithFlash(w, r, "/admin/courses", flashSuccess, "Course created successfully")
}

// UpdateCourse sets the discount and status of a course. An empty discount
// field means no discount.
func (h *AdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		redirectWithError(w, r, "/admin/courses", err)
		return
	}
	discount, err := formDecimal(r, "discount")
	if err != nil {
		redirectWithError(w, r, "/admin/courses", err)
		return
	}
	pct := decimal.Zero
	if discount.Valid {
		pct = discount.Decimal
	}
	if _, err := h.svc.Catalog.UpdateCourse(r.Context(), id, pct, models.CourseStatus(r.FormValue("status"))); err != nil {
		redirectWithError(w, r, "/admin/courses", err)
		return
	}
	redirectWithFlash(w, r, "/admin/courses", flashSuccess, "Course updated successfully")
}

// Payments lists the commission ledger along with converted leads that have
// no payment yet.
func (h *AdminHandler) Payments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payments, err := h.svc.Ledger.ListPayments(ctx, models.PaymentFilter{})
	if err != nil {
		log.WithError(err).Error("Failed to list payments")
		http.Error(w, "Failed to load payments", http.StatusInternalServerError)
		return
	}
	summary, err := h.svc.Ledger.ReleaseSummary(ctx, uuid.NullUUID{})
	if err != nil {
		log.WithError(err).Error("Failed to sum payments")
		http.Error(w, "Failed to load payments", http.StatusInternalServerError)
		return
	}
	converted, err := h.svc.Leads.ListLeads(ctx, models.LeadFilter{Status: models.LeadConverted})
	if err != nil {
		log.WithError(err).Error("Failed to list converted leads")
		http.Error(w, "Failed to load payments", http.StatusInternalServerError)
		return
	}

	paid := make(map[uuid.UUID]bool, len(payments))
	for _, p := range payments {
		if p.LeadID.Valid {
			paid[p.LeadID.UUID] = true
		}
	}
	awaiting := make([]*models.LeadListItem, 0)
	for _, l := range converted {
		if !paid[l.ID] && l.CourseID.Valid {
			awaiting = append(awaiting, l)
		}
	}

	renderTemplate(w, r, "admin_payments.html", map[string]interface{}{
		"Title":    "Payments",
		"Payments": payments,
		"Summary":  summary,
		"Awaiting": awaiting,
		"Today":    util.InZone(time.Now(), displayLoc).Format("2006-01-02"),
	})
}

// CreatePayment records the commission owed for a converted lead. The amount
// defaults to the lead's commission when left blank.
func (h *AdminHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	leadID, err := pathID(r, "lead_id")
	if err != nil {
		redirectWithError(w, r, "/admin/payments", err)
		return
	}
	amount, err := formDecimal(r, "amount")
	if err != nil {
		redirectWithError(w, r, "/admin/payments", err)
		return
	}
	payment, err := h.svc.Ledger.CreatePayment(r.Context(), leadID, amount)
	if err != nil {
		redirectWithError(w, r, "/admin/payments", err)
		return
	}
	redirectWithFlash(w, r, "/admin/payments", flashSuccess, "Payment of "+money(payment.Amount)+" created")
}

// ReleasePayment marks a payment as paid out on the given date, today when
// none is given.
func (h *AdminHandler) ReleasePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		redirectWithError(w, r, "/admin/payments", err)
		return
	}
	var releaseDate time.Time
	if raw := strings.TrimSpace(r.FormValue("release_date")); raw != "" {
		releaseDate, err = util.ParseDateIn(raw, displayLoc)
		if err != nil {
			redirectWithError(w, r, "/admin/payments", models.NewValidationError("release_date", "invalid date %q", raw))
			return
		}
	}
	if _, err := h.svc.Ledger.ReleasePayment(r.Context(), id, releaseDate); err != nil {
		redirectWithError(w, r, "/admin/payments", err)
		return
	}
	redirectWithFlash(w, r, "/admin/payments", flashSuccess, "Payment released")
}
