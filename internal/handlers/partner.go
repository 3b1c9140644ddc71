package handlers

import (
	"errors"
	"net/http"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/middleware"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type PartnerHandler struct {
	cfg     *config.Config
	svc     *services.Services
	uploads *UploadStore
}

func NewPartnerHandler(cfg *config.Config, svc *services.Services, uploads *UploadStore) *PartnerHandler {
	return &PartnerHandler{cfg: cfg, svc: svc, uploads: uploads}
}

// Dashboard shows the partner's leads with their revenue. A partner who has
// been deactivated is logged out.
func (h *PartnerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	partner, err := h.svc.Identity.RequireActivePartner(ctx, principal.ID)
	if err != nil {
		if logoutIfInactive(w, r, err) {
			return
		}
		http.Error(w, errorMessage(r, err), models.HTTPStatus(err))
		return
	}

	partnerID := uuid.NullUUID{UUID: partner.ID, Valid: true}
	leads, err := h.svc.Leads.ListLeads(ctx, models.LeadFilter{PartnerID: partnerID, Search: r.URL.Query().Get("search")})
	if err != nil {
		log.WithError(err).Error("Failed to list partner leads")
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}
	revenue, err := h.svc.Ledger.PartnerRevenue(ctx, partner.ID)
	if err != nil {
		log.WithError(err).Error("Failed to compute partner revenue")
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}
	summary, err := h.svc.Ledger.ReleaseSummary(ctx, partnerID)
	if err != nil {
		log.WithError(err).Error("Failed to sum partner payments")
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	renderTemplate(w, r, "partner_dashboard.html", map[string]interface{}{
		"Title":   "Dashboard",
		"Partner": partner,
		"Leads":   leads,
		"Revenue": revenue,
		"Summary": summary,
		"Search":  r.URL.Query().Get("search"),
	})
}

func (h *PartnerHandler) CreateLeadForm(w http.ResponseWriter, r *http.Request) {
	renderTemplate(w, r, "partner_create_lead.html", map[string]interface{}{
		"Title": "New Lead",
		"Input": services.LeadInput{},
	})
}

func (h *PartnerHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)
	in := services.LeadInput{
		StudentName:   r.FormValue("student_name"),
		Mobile:        r.FormValue("mobile"),
		Email:         r.FormValue("email"),
		CurrentStatus: r.FormValue("current_status"),
		Address:       r.FormValue("address"),
	}

	if _, err := h.svc.Leads.CreateLead(r.Context(), principal.ID, in); err != nil {
		if logoutIfInactive(w, r, err) {
			return
		}
		renderTemplateStatus(w, r, models.HTTPStatus(err), "partner_create_lead.html", map[string]interface{}{
			"Title": "New Lead",
			"Error": errorMessage(r, err),
			"Input": in,
		})
		return
	}
	redirectWithFlash(w, r, "/partner/dashboard", flashSuccess, "Lead created successfully")
}

// Payment renders the partner's payout history.
func (h *PartnerHandler) Payment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partnerID := uuid.NullUUID{UUID: middleware.GetPrincipal(r).ID, Valid: true}

	payments, err := h.svc.Ledger.ListPayments(ctx, models.PaymentFilter{PartnerID: partnerID})
	if err != nil {
		log.WithError(err).Error("Failed to list partner payments")
		http.Error(w, "Failed to load payments", http.StatusInternalServerError)
		return
	}
	summary, err := h.svc.Ledger.ReleaseSummary(ctx, partnerID)
	if err != nil {
		log.WithError(err).Error("Failed to sum partner payments")
		http.Error(w, "Failed to load payments", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "partner_payment.html", map[string]interface{}{
		"Title":    "Payments",
		"Payments": payments,
		"Summary":  summary,
	})
}

type paymentJSON struct {
	ID          uuid.UUID `json:"id"`
	LeadID      *string   `json:"lead_id"`
	StudentName string    `json:"student_name"`
	Amount      string    `json:"amount"`
	Status      string    `json:"status"`
	ReleaseDate *string   `json:"release_date"`
}

// PaymentAPI returns the caller's payments as JSON.
func (h *PartnerHandler) PaymentAPI(w http.ResponseWriter, r *http.Request) {
	partnerID := uuid.NullUUID{UUID: middleware.GetPrincipal(r).ID, Valid: true}
	payments, err := h.svc.Ledger.ListPayments(r.Context(), models.PaymentFilter{PartnerID: partnerID})
	if err != nil {
		jsonServiceError(w, r, err)
		return
	}

	out := make([]paymentJSON, 0, len(payments))
	for _, p := range payments {
		item := paymentJSON{
			ID:          p.ID,
			StudentName: p.StudentName.String,
			Amount:      money(p.Amount),
			Status:      "Pending",
		}
		if p.LeadID.Valid {
			id := p.LeadID.UUID.String()
			item.LeadID = &id
		}
		if p.Released {
			item.Status = "Released"
		}
		if p.ReleaseDate.Valid {
			d := p.ReleaseDate.Time.In(displayLoc).Format("2006-01-02")
			item.ReleaseDate = &d
		}
		out = append(out, item)
	}
	jsonResponse(w, http.StatusOK, out)
}

func (h *PartnerHandler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	partner, err := h.svc.Identity.GetPartner(r.Context(), middleware.GetPrincipal(r).ID)
	if err != nil {
		http.Error(w, errorMessage(r, err), models.HTTPStatus(err))
		return
	}
	renderTemplate(w, r, "partner_profile.html", map[string]interface{}{
		"Title":   "Profile",
		"Partner": partner,
	})
}

// UpdateProfile saves the profile form and its document uploads. Files are
// only stored when the matching details will be accepted.
func (h *PartnerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = models.NewValidationError("upload", "upload too large")
		} else {
			err = models.NewValidationError("upload", "could not read the submitted form")
		}
		redirectWithError(w, r, "/partner/profile", err)
		return
	}

	partner, err := h.svc.Identity.GetPartner(ctx, principal.ID)
	if err != nil {
		redirectWithError(w, r, "/partner/profile", err)
		return
	}

	upd := services.ProfileUpdate{
		Name:              r.FormValue("name"),
		ShopName:          r.FormValue("shop_name"),
		Profession:        r.FormValue("profession"),
		Email:             r.FormValue("email"),
		BankName:          r.FormValue("bank_name"),
		AccountHolderName: r.FormValue("account_holder_name"),
		AccountNumber:     r.FormValue("account_number"),
		IFSCCode:          r.FormValue("ifsc_code"),
		AadharNumber:      r.FormValue("aadhar_number"),
		PANNumber:         r.FormValue("pan_number"),
	}

	if !partner.BankDetailsLocked && upd.BankName != "" && upd.AccountNumber != "" {
		if upd.BankProofPath, err = h.uploads.Save(r, "bank_proof", "bank"); err != nil {
			redirectWithError(w, r, "/partner/profile", err)
			return
		}
	}
	if upd.AadharNumber != "" {
		if upd.AadharDocPath, err = h.uploads.Save(r, "aadhar_doc", "aadhar"); err != nil {
			redirectWithError(w, r, "/partner/profile", err)
			return
		}
	}
	if upd.PANNumber != "" {
		if upd.PANDocPath, err = h.uploads.Save(r, "pan_doc", "pan"); err != nil {
			redirectWithError(w, r, "/partner/profile", err)
			return
		}
	}

	if _, err := h.svc.Identity.UpdatePartnerProfile(ctx, principal.ID, upd); err != nil {
		redirectWithError(w, r, "/partner/profile", err)
		return
	}
	redirectWithFlash(w, r, "/partner/profile", flashSuccess, "Profile updated successfully")
}
