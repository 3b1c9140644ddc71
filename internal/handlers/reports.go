package handlers

import (
	"net/http"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/services"
)

type ReportHandler struct {
	cfg *config.Config
	svc *services.Services
}

func NewReportHandler(cfg *config.Config, svc *services.Services) *ReportHandler {
	return &ReportHandler{cfg: cfg, svc: svc}
}

func (h *ReportHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.AdminReport(r.Context())
	if err != nil {
		http.Error(w, errorMessage(r, err), http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "report_admin.html", map[string]interface{}{
		"Title":  "Reports",
		"Report": report,
	})
}

// AdminAPI returns the admin counters with amounts as fixed two-place
// strings.
func (h *ReportHandler) AdminAPI(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.AdminReport(r.Context())
	if err != nil {
		jsonServiceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"total_partners":   report.TotalPartners,
		"total_leads":      report.TotalLeads,
		"converted":        report.ConvertedLeads,
		"pending_payments": report.PendingPayments,
		"payment_pending":  money(report.PaymentPending),
		"payment_released": money(report.PaymentReleased),
	})
}

func (h *ReportHandler) PartnerPage(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.PartnerReport(r.Context(), middleware.GetPrincipal(r).ID)
	if err != nil {
		http.Error(w, errorMessage(r, err), http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "report_partner.html", map[string]interface{}{
		"Title":  "Reports",
		"Report": report,
	})
}

func (h *ReportHandler) PartnerAPI(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.PartnerReport(r.Context(), middleware.GetPrincipal(r).ID)
	if err != nil {
		jsonServiceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"total_leads":      report.TotalLeads,
		"converted":        report.ConvertedLeads,
		"payment_released": money(report.PaymentReleased),
		"payment_pending":  money(report.PaymentPending),
		"revenue":          money(report.Revenue),
	})
}
