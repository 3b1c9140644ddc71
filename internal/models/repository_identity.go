package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const adminColumns = `id, name, mobile, email, password_hash, created_at`

func (p *pgQueries) GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error) {
	a := &Admin{}
	return a, p.get(ctx, a, "admin", `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
}

func (p *pgQueries) GetAdminByMobile(ctx context.Context, mobile string) (*Admin, error) {
	a := &Admin{}
	return a, p.get(ctx, a, "admin", `SELECT `+adminColumns+` FROM admins WHERE mobile = $1`, mobile)
}

func (p *pgQueries) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	a := &Admin{}
	return a, p.get(ctx, a, "admin", `SELECT `+adminColumns+` FROM admins WHERE LOWER(email) = LOWER($1)`, email)
}

func (p *pgQueries) CreateAdmin(ctx context.Context, a *Admin) error {
	return p.exec(ctx, "create admin", `
		INSERT INTO admins (id, name, mobile, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Name, a.Mobile, a.Email, a.PasswordHash, a.CreatedAt)
}

const partnerColumns = `p.id, p.name, p.mobile, p.password_hash, p.shop_name, p.profession, p.email, p.status,
	p.bank_name, p.account_holder_name, p.account_number, p.ifsc_code, p.bank_proof, p.bank_details_locked,
	p.aadhar_number, p.aadhar_doc, p.pan_number, p.pan_doc, p.documents_verified, p.created_at`

func (p *pgQueries) GetPartnerByID(ctx context.Context, id uuid.UUID) (*Partner, error) {
	partner := &Partner{}
	return partner, p.get(ctx, partner, "partner", `SELECT `+partnerColumns+` FROM partners p WHERE p.id = $1`, id)
}

func (p *pgQueries) GetPartnerByMobile(ctx context.Context, mobile string) (*Partner, error) {
	partner := &Partner{}
	return partner, p.get(ctx, partner, "partner", `SELECT `+partnerColumns+` FROM partners p WHERE p.mobile = $1`, mobile)
}

func (p *pgQueries) CreatePartner(ctx context.Context, partner *Partner) error {
	return p.exec(ctx, "create partner", `
		INSERT INTO partners (id, name, mobile, password_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, partner.ID, partner.Name, partner.Mobile, partner.PasswordHash, partner.Status, partner.CreatedAt)
}

func (p *pgQueries) UpdatePartner(ctx context.Context, partner *Partner) error {
	return p.exec(ctx, "update partner", `
		UPDATE partners SET
			name = $1, shop_name = $2, profession = $3, email = $4, status = $5,
			bank_name = $6, account_holder_name = $7, account_number = $8, ifsc_code = $9,
			bank_proof = $10, bank_details_locked = $11,
			aadhar_number = $12, aadhar_doc = $13, pan_number = $14, pan_doc = $15,
			documents_verified = $16
		WHERE id = $17
	`, partner.Name, partner.ShopName, partner.Profession, partner.Email, partner.Status,
		partner.BankName, partner.AccountHolderName, partner.AccountNumber, partner.IFSCCode,
		partner.BankProof, partner.BankDetailsLocked,
		partner.AadharNumber, partner.AadharDoc, partner.PANNumber, partner.PANDoc,
		partner.DocumentsVerified, partner.ID)
}

func (p *pgQueries) ListPartners(ctx context.Context) ([]*PartnerSummary, error) {
	var partners []*PartnerSummary
	err := sqlx.SelectContext(ctx, p.q, &partners, `
		SELECT `+partnerColumns+`,
			COUNT(l.id) AS total_leads,
			COUNT(l.id) FILTER (WHERE l.status = $1) AS converted_leads
		FROM partners p
		LEFT JOIN leads l ON l.partner_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`, LeadConverted)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	return partners, nil
}

func (p *pgQueries) CountPartners(ctx context.Context) (int, error) {
	return p.count(ctx, "partners", `SELECT COUNT(*) FROM partners`)
}

const employeeColumns = `id, name, mobile, email, password_hash, status, created_at`

func (p *pgQueries) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	e := &Employee{}
	return e, p.get(ctx, e, "employee", `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

func (p *pgQueries) GetEmployeeByMobile(ctx context.Context, mobile string) (*Employee, error) {
	e := &Employee{}
	return e, p.get(ctx, e, "employee", `SELECT `+employeeColumns+` FROM employees WHERE mobile = $1`, mobile)
}

func (p *pgQueries) CreateEmployee(ctx context.Context, e *Employee) error {
	return p.exec(ctx, "create employee", `
		INSERT INTO employees (id, name, mobile, email, password_hash, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Name, e.Mobile, e.Email, e.PasswordHash, e.Status, e.CreatedAt)
}

func (p *pgQueries) UpdateEmployee(ctx context.Context, e *Employee) error {
	return p.exec(ctx, "update employee", `
		UPDATE employees SET name = $1, email = $2, status = $3 WHERE id = $4
	`, e.Name, e.Email, e.Status, e.ID)
}

func (p *pgQueries) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	err := sqlx.SelectContext(ctx, p.q, &employees, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	return employees, nil
}
