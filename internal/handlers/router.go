package handlers

import (
	"net/http"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"

	"github.com/gorilla/mux"
)

// NewRouter registers every route of the portal. staticDir may be empty to
// skip the static file server.
func NewRouter(cfg *config.Config, svc *services.Services, tokens *middleware.Tokens, uploads *UploadStore, staticDir string) *mux.Router {
	authHandler := NewAuthHandler(cfg, svc, tokens)
	adminHandler := NewAdminHandler(cfg, svc)
	partnerHandler := NewPartnerHandler(cfg, svc, uploads)
	employeeHandler := NewEmployeeHandler(cfg, svc)
	reportHandler := NewReportHandler(cfg, svc)

	adminOnly := tokens.RequireRole(models.RoleAdmin)
	partnerOnly := tokens.RequireRole(models.RolePartner)

	r := mux.NewRouter()

	if staticDir != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	r.HandleFunc("/", Root(tokens)).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", authHandler.LoginForm).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodGet, http.MethodPost)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(adminOnly)
	admin.HandleFunc("/panel", adminHandler.Panel).Methods(http.MethodGet)
	admin.HandleFunc("/partners", adminHandler.Partners).Methods(http.MethodGet)
	admin.HandleFunc("/partners/{id}/status", adminHandler.SetPartnerStatus).Methods(http.MethodPost)
	admin.HandleFunc("/create_partner", adminHandler.CreatePartnerForm).Methods(http.MethodGet)
	admin.HandleFunc("/create_partner", adminHandler.CreatePartner).Methods(http.MethodPost)
	admin.HandleFunc("/employees", adminHandler.Employees).Methods(http.MethodGet)
	admin.HandleFunc("/employees/{id}/status", adminHandler.SetEmployeeStatus).Methods(http.MethodPost)
	admin.HandleFunc("/create_employee", adminHandler.CreateEmployeeForm).Methods(http.MethodGet)
	admin.HandleFunc("/create_employee", adminHandler.CreateEmployee).Methods(http.MethodPost)
	admin.HandleFunc("/create_admin", adminHandler.CreateAdminForm).Methods(http.MethodGet)
	admin.HandleFunc("/create_admin", adminHandler.CreateAdmin).Methods(http.MethodPost)
	admin.HandleFunc("/leads", adminHandler.Leads).Methods(http.MethodGet)
	admin.HandleFunc("/leads/export", adminHandler.ExportLeads).Methods(http.MethodGet)
	admin.HandleFunc("/update_lead/{id}", adminHandler.UpdateLead).Methods(http.MethodPost)
	admin.HandleFunc("/courses", adminHandler.Courses).Methods(http.MethodGet)
	admin.HandleFunc("/create_course", adminHandler.CreateCourseForm).Methods(http.MethodGet)
	admin.HandleFunc("/create_course", adminHandler.CreateCourse).Methods(http.MethodPost)
	admin.HandleFunc("/course/{id}/update", adminHandler.UpdateCourse).Methods(http.MethodPost)
	admin.HandleFunc("/payments", adminHandler.Payments).Methods(http.MethodGet)
	admin.HandleFunc("/payments/create/{lead_id}", adminHandler.CreatePayment).Methods(http.MethodPost)
	admin.HandleFunc("/payments/{id}/release", adminHandler.ReleasePayment).Methods(http.MethodPost)

	partner := r.PathPrefix("/partner").Subrouter()
	partner.Use(partnerOnly)
	partner.HandleFunc("/dashboard", partnerHandler.Dashboard).Methods(http.MethodGet)
	partner.HandleFunc("/create_lead", partnerHandler.CreateLeadForm).Methods(http.MethodGet)
	partner.HandleFunc("/create_lead", partnerHandler.CreateLead).Methods(http.MethodPost)
	partner.HandleFunc("/payment", partnerHandler.Payment).Methods(http.MethodGet)
	partner.HandleFunc("/api/payment", partnerHandler.PaymentAPI).Methods(http.MethodGet)
	partner.HandleFunc("/profile", partnerHandler.ProfileForm).Methods(http.MethodGet)
	partner.HandleFunc("/profile", partnerHandler.UpdateProfile).Methods(http.MethodPost)

	employee := r.PathPrefix("/employee").Subrouter()
	employee.Use(tokens.RequireRole(models.RoleEmployee))
	employee.HandleFunc("/workbench", employeeHandler.Workbench).Methods(http.MethodGet)
	employee.HandleFunc("/workbench", employeeHandler.UpdateProfile).Methods(http.MethodPost)
	employee.HandleFunc("/add-remark", employeeHandler.AddRemark).Methods(http.MethodPost)

	r.Handle("/report/admin", adminOnly(http.HandlerFunc(reportHandler.AdminPage))).Methods(http.MethodGet)
	r.Handle("/report/admin/api/reports", adminOnly(http.HandlerFunc(reportHandler.AdminAPI))).Methods(http.MethodGet)
	r.Handle("/report/partner", partnerOnly(http.HandlerFunc(reportHandler.PartnerPage))).Methods(http.MethodGet)
	r.Handle("/report/partner/api/reports", partnerOnly(http.HandlerFunc(reportHandler.PartnerAPI))).Methods(http.MethodGet)

	docs := tokens.RequireRole(models.RoleAdmin, models.RolePartner)
	r.Handle("/uploads/{name}", docs(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		uploads.Serve(w, req, mux.Vars(req)["name"])
	}))).Methods(http.MethodGet)

	return r
}
