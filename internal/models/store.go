package models

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Queries is the set of reads and writes the services run, either directly
// against the pool or inside a transaction.
type Queries interface {
	GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	GetAdminByMobile(ctx context.Context, mobile string) (*Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	CreateAdmin(ctx context.Context, a *Admin) error

	GetPartnerByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	GetPartnerByMobile(ctx context.Context, mobile string) (*Partner, error)
	CreatePartner(ctx context.Context, p *Partner) error
	UpdatePartner(ctx context.Context, p *Partner) error
	ListPartners(ctx context.Context) ([]*PartnerSummary, error)
	CountPartners(ctx context.Context) (int, error)

	GetEmployeeByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	GetEmployeeByMobile(ctx context.Context, mobile string) (*Employee, error)
	CreateEmployee(ctx context.Context, e *Employee) error
	UpdateEmployee(ctx context.Context, e *Employee) error
	ListEmployees(ctx context.Context) ([]*Employee, error)

	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	ListCourses(ctx context.Context) ([]*Course, error)
	CreateCourse(ctx context.Context, c *Course) error
	UpdateCourse(ctx context.Context, c *Course) error

	GetLead(ctx context.Context, id uuid.UUID) (*Lead, error)
	// GetLeadForUpdate reads the lead and locks its row until the
	// transaction ends.
	GetLeadForUpdate(ctx context.Context, id uuid.UUID) (*Lead, error)
	LeadMobileExists(ctx context.Context, mobile string) (bool, error)
	CreateLead(ctx context.Context, l *Lead) error
	UpdateLead(ctx context.Context, l *Lead) error
	ListLeads(ctx context.Context, f LeadFilter) ([]*LeadListItem, error)
	CountLeads(ctx context.Context, f LeadFilter) (int, error)

	GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error)
	GetPaymentByLead(ctx context.Context, leadID uuid.UUID) (*Payment, error)
	CreatePayment(ctx context.Context, p *Payment) error
	UpdatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, f PaymentFilter) ([]*PaymentListItem, error)
	SumPayments(ctx context.Context, f PaymentFilter) (decimal.Decimal, error)
	CountPayments(ctx context.Context, f PaymentFilter) (int, error)
}

// Store is a Queries bound to the connection pool that can also open
// transactions. fn's Queries is only valid until fn returns; the transaction
// commits when fn returns nil and rolls back otherwise.
type Store interface {
	Queries
	InTx(ctx context.Context, fn func(q Queries) error) error
}
