package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// AccountInput is the form data for a new admin, partner or employee.
// Email is only required for admins.
type AccountInput struct {
	Name     string
	Mobile   string
	Email    string
	Password string
}

func (in *AccountInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

func (in AccountInput) validate(requireEmail bool) error {
	if in.Name == "" {
		return models.NewValidationError("name", "name is required")
	}
	if in.Mobile == "" {
		return models.NewValidationError("mobile", "mobile number is required")
	}
	if requireEmail && in.Email == "" {
		return models.NewValidationError("email", "email is required")
	}
	if len(in.Password) < minPasswordLength {
		return models.NewValidationError("password", "password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// ProfileUpdate carries a partner's profile form. Document paths are set by
// the caller after the uploads are stored.
type ProfileUpdate struct {
	Name       string
	ShopName   string
	Profession string
	Email      string

	BankName          string
	AccountHolderName string
	AccountNumber     string
	IFSCCode          string
	BankProofPath     string

	AadharNumber  string
	AadharDocPath string
	PANNumber     string
	PANDocPath    string
}

type IdentityService struct {
	store    models.Store
	hashCost int
	now      func() time.Time
}

func NewIdentityService(store models.Store) *IdentityService {
	return &IdentityService{store: store, hashCost: bcrypt.DefaultCost, now: time.Now}
}

var errInvalidCredentials = models.NewPermissionError("Invalid credentials!")

// Authenticate checks a login form. Every failure is reported as the same
// PermissionError so the response does not reveal which part was wrong.
func (s *IdentityService) Authenticate(ctx context.Context, role models.Role, mobile, password string) (*models.Principal, error) {
	mobile = strings.TrimSpace(mobile)
	if !role.Valid() || mobile == "" || password == "" {
		return nil, errInvalidCredentials
	}

	var (
		principal models.Principal
		hash      string
		err       error
	)
	switch role {
	case models.RoleAdmin:
		var a *models.Admin
		if a, err = s.store.GetAdminByMobile(ctx, mobile); err == nil {
			principal, hash = models.Principal{ID: a.ID, Role: role, Name: a.Name}, a.PasswordHash
		}
	case models.RolePartner:
		var p *models.Partner
		if p, err = s.store.GetPartnerByMobile(ctx, mobile); err == nil {
			principal, hash = models.Principal{ID: p.ID, Role: role, Name: p.Name}, p.PasswordHash
		}
	case models.RoleEmployee:
		var e *models.Employee
		if e, err = s.store.GetEmployeeByMobile(ctx, mobile); err == nil {
			principal, hash = models.Principal{ID: e.ID, Role: role, Name: e.Name}, e.PasswordHash
		}
	}
	if errors.Is(err, models.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &principal, nil
}

func (s *IdentityService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (s *IdentityService) CreateAdmin(ctx context.Context, in AccountInput) (*models.Admin, error) {
	in.normalize()
	if err := in.validate(true); err != nil {
		return nil, err
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Name:         in.Name,
		Mobile:       in.Mobile,
		Email:        in.Email,
		PasswordHash: hashed,
		CreatedAt:    s.now().UTC(),
	}
	err = s.store.InTx(ctx, func(q models.Queries) error {
		if _, err := q.GetAdminByMobile(ctx, in.Mobile); err == nil {
			return &models.ConflictError{Field: "mobile number"}
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		if _, err := q.GetAdminByEmail(ctx, in.Email); err == nil {
			return &models.ConflictError{Field: "email"}
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		return q.CreateAdmin(ctx, admin)
	})
	if err != nil {
		return nil, err
	}

	log.WithField("admin_id", admin.ID).Info("Admin created")
	return admin, nil
}

// EnsureAdmin creates the bootstrap admin unless one with the same mobile
// already exists.
func (s *IdentityService) EnsureAdmin(ctx context.Context, in AccountInput) (bool, error) {
	_, err := s.store.GetAdminByMobile(ctx, strings.TrimSpace(in.Mobile))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	if _, err := s.CreateAdmin(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

func (s *IdentityService) CreatePartner(ctx context.Context, in AccountInput) (*models.Partner, error) {
	in.normalize()
	if err := in.validate(false); err != nil {
		return nil, err
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	partner := &models.Partner{
		ID:           uuid.New(),
		Name:         in.Name,
		Mobile:       in.Mobile,
		PasswordHash: hashed,
		Status:       models.AccountActive,
		CreatedAt:    s.now().UTC(),
	}
	err = s.store.InTx(ctx, func(q models.Queries) error {
		if _, err := q.GetPartnerByMobile(ctx, in.Mobile); err == nil {
			return &models.ConflictError{Field: "mobile number"}
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		return q.CreatePartner(ctx, partner)
	})
	if err != nil {
		return nil, err
	}

	log.WithField("partner_id", partner.ID).Info("Partner created")
	return partner, nil
}

func (s *IdentityService) CreateEmployee(ctx context.Context, in AccountInput) (*models.Employee, error) {
	in.normalize()
	if err := in.validate(false); err != nil {
		return nil, err
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		ID:           uuid.New(),
		Name:         in.Name,
		Mobile:       in.Mobile,
		Email:        nullString(in.Email),
		PasswordHash: hashed,
		Status:       models.AccountActive,
		CreatedAt:    s.now().UTC(),
	}
	err = s.store.InTx(ctx, func(q models.Queries) error {
		if _, err := q.GetEmployeeByMobile(ctx, in.Mobile); err == nil {
			return &models.ConflictError{Field: "mobile number"}
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		return q.CreateEmployee(ctx, employee)
	})
	if err != nil {
		return nil, err
	}

	log.WithField("employee_id", employee.ID).Info("Employee created")
	return employee, nil
}

func (s *IdentityService) SetPartnerStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) (*models.Partner, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "Invalid status selected!")
	}
	var partner *models.Partner
	err := s.store.InTx(ctx, func(q models.Queries) error {
		var err error
		if partner, err = q.GetPartnerByID(ctx, id); err != nil {
			return err
		}
		partner.Status = status
		return q.UpdatePartner(ctx, partner)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"partner_id": id, "status": status}).Info("Partner status updated")
	return partner, nil
}

func (s *IdentityService) SetEmployeeStatus(ctx context.Context, id uuid.UUID, status models.AccountStatus) (*models.Employee, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "Invalid status selected!")
	}
	var employee *models.Employee
	err := s.store.InTx(ctx, func(q models.Queries) error {
		var err error
		if employee, err = q.GetEmployeeByID(ctx, id); err != nil {
			return err
		}
		employee.Status = status
		return q.UpdateEmployee(ctx, employee)
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"employee_id": id, "status": status}).Info("Employee status updated")
	return employee, nil
}

func (s *IdentityService) GetAdmin(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	return s.store.GetAdminByID(ctx, id)
}

func (s *IdentityService) GetPartner(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	return s.store.GetPartnerByID(ctx, id)
}

func (s *IdentityService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return s.store.GetEmployeeByID(ctx, id)
}

func (s *IdentityService) ListPartners(ctx context.Context) ([]*models.PartnerSummary, error) {
	return s.store.ListPartners(ctx)
}

func (s *IdentityService) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	return s.store.ListEmployees(ctx)
}

// RequireActivePartner loads the partner and fails with a PermissionError
// unless the account is active.
func (s *IdentityService) RequireActivePartner(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	partner, err := s.store.GetPartnerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner.Status != models.AccountActive {
		return nil, models.NewPermissionError("Your account is %s by Admin", partner.Status)
	}
	return partner, nil
}

func (s *IdentityService) RequireActiveEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.store.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee.Status != models.AccountActive {
		return nil, models.NewPermissionError("Your account is %s by Admin", employee.Status)
	}
	return employee, nil
}

// UpdatePartnerProfile saves the profile form. Bank details are accepted
// once, and only as a complete set with a proof document; after that they
// are locked. Identity documents are taken with their number and can be
// replaced any number of times.
func (s *IdentityService) UpdatePartnerProfile(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*models.Partner, error) {
	var partner *models.Partner
	err := s.store.InTx(ctx, func(q models.Queries) error {
		var err error
		if partner, err = q.GetPartnerByID(ctx, id); err != nil {
			return err
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			partner.Name = name
		}
		partner.ShopName = nullString(in.ShopName)
		partner.Profession = nullString(in.Profession)
		partner.Email = nullString(strings.ToLower(in.Email))

		if !partner.BankDetailsLocked && in.BankName != "" && in.AccountNumber != "" && in.BankProofPath != "" {
			partner.BankName = nullString(in.BankName)
			partner.AccountHolderName = nullString(in.AccountHolderName)
			partner.AccountNumber = nullString(in.AccountNumber)
			partner.IFSCCode = nullString(strings.ToUpper(in.IFSCCode))
			partner.BankProof = nullString(in.BankProofPath)
			partner.BankDetailsLocked = true
		}

		if in.AadharNumber != "" && in.AadharDocPath != "" {
			partner.AadharNumber = nullString(in.AadharNumber)
			partner.AadharDoc = nullString(in.AadharDocPath)
		}
		if in.PANNumber != "" && in.PANDocPath != "" {
			partner.PANNumber = nullString(strings.ToUpper(in.PANNumber))
			partner.PANDoc = nullString(in.PANDocPath)
		}

		return q.UpdatePartner(ctx, partner)
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *IdentityService) UpdateEmployeeProfile(ctx context.Context, id uuid.UUID, name, email string) (*models.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}
	var employee *models.Employee
	err := s.store.InTx(ctx, func(q models.Queries) error {
		var err error
		if employee, err = q.GetEmployeeByID(ctx, id); err != nil {
			return err
		}
		employee.Name = name
		employee.Email = nullString(strings.ToLower(email))
		return q.UpdateEmployee(ctx, employee)
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
