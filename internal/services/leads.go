package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// LeadInput is a partner's lead submission.
type LeadInput struct {
	StudentName   string
	Mobile        string
	Email         string
	CurrentStatus string
	Address       string
}

type LeadService struct {
	store models.Store
	now   func() time.Time
}

func NewLeadService(store models.Store) *LeadService {
	return &LeadService{store: store, now: time.Now}
}

// CreateLead records a new Pending lead for an active partner. Lead mobile
// numbers are unique across all partners.
func (s *LeadService) CreateLead(ctx context.Context, partnerID uuid.UUID, in LeadInput) (*models.Lead, error) {
	name := strings.TrimSpace(in.StudentName)
	mobile := strings.TrimSpace(in.Mobile)
	if mobile == "" {
		return nil, models.NewValidationError("mobile", "mobile number is required")
	}
	if name == "" {
		return nil, models.NewValidationError("student_name", "student name is required")
	}

	var lead *models.Lead
	err := s.store.InTx(ctx, func(q models.Queries) error {
		partner, err := q.GetPartnerByID(ctx, partnerID)
		if err != nil {
			return err
		}
		if partner.Status != models.AccountActive {
			return models.NewPermissionError("Your account is %s by Admin", partner.Status)
		}

		exists, err := q.LeadMobileExists(ctx, mobile)
		if err != nil {
			return err
		}
		if exists {
			return &models.ConflictError{Field: "mobile number", Value: mobile}
		}

		now := s.now().UTC()
		lead = &models.Lead{
			ID:            uuid.New(),
			PartnerID:     partnerID,
			StudentName:   name,
			Mobile:        mobile,
			Email:         nullString(strings.ToLower(in.Email)),
			CurrentStatus: nullString(in.CurrentStatus),
			Address:       nullString(in.Address),
			Status:        models.LeadPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return q.CreateLead(ctx, lead)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"lead_id": lead.ID, "partner_id": partnerID}).Info("Lead created")
	return lead, nil
}

// UpdateStatus applies an admin's status change under a row lock. A course
// that would be assigned must exist.
func (s *LeadService) UpdateStatus(ctx context.Context, leadID uuid.UUID, u models.StatusUpdate) (*models.Lead, error) {
	var lead *models.Lead
	err := s.store.InTx(ctx, func(q models.Queries) error {
		current, err := q.GetLeadForUpdate(ctx, leadID)
		if err != nil {
			return err
		}

		updated := *current
		if err := updated.ApplyStatusUpdate(u, s.now().UTC()); err != nil {
			return err
		}
		if updated.CourseID.Valid && updated.CourseID != current.CourseID {
			if _, err := q.GetCourse(ctx, updated.CourseID.UUID); errors.Is(err, models.ErrNotFound) {
				return models.NewValidationError("course_id", "selected course does not exist")
			} else if err != nil {
				return err
			}
		}

		lead = &updated
		if updated == *current {
			return nil
		}
		return q.UpdateLead(ctx, lead)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"lead_id": leadID, "status": lead.Status}).Info("Lead status updated")
	return lead, nil
}

// AddRemark replaces the lead's remark on behalf of an active employee.
func (s *LeadService) AddRemark(ctx context.Context, employeeID, leadID uuid.UUID, text string) (*models.Lead, error) {
	var lead *models.Lead
	err := s.store.InTx(ctx, func(q models.Queries) error {
		employee, err := q.GetEmployeeByID(ctx, employeeID)
		if err != nil {
			return err
		}
		if employee.Status != models.AccountActive {
			return models.NewPermissionError("Your account is %s by Admin", employee.Status)
		}

		if lead, err = q.GetLeadForUpdate(ctx, leadID); err != nil {
			return err
		}
		if err := lead.SetRemark(text, s.now()); err != nil {
			return err
		}
		return q.UpdateLead(ctx, lead)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"lead_id": leadID, "employee_id": employeeID}).Info("Remark saved")
	return lead, nil
}

func (s *LeadService) ListLeads(ctx context.Context, f models.LeadFilter) ([]*models.LeadListItem, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, models.NewValidationError("status", "invalid lead status %q", f.Status)
	}
	f.Search = strings.TrimSpace(f.Search)
	return s.store.ListLeads(ctx, f)
}

func (s *LeadService) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return s.store.GetLead(ctx, id)
}
