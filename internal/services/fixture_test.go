package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/storetest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	ctx   context.Context
	store *storetest.Store
	svc   *Services
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storetest.New()
	svc := New(store, time.UTC)
	svc.Identity.hashCost = bcrypt.MinCost

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc.Identity.now = clock
	svc.Catalog.now = clock
	svc.Leads.now = clock
	svc.Ledger.now = clock

	return &fixture{ctx: context.Background(), store: store, svc: svc, now: now}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) partner(t *testing.T, mobile string) *models.Partner {
	t.Helper()
	p, err := f.svc.Identity.CreatePartner(f.ctx, AccountInput{Name: "Partner " + mobile, Mobile: mobile, Password: "secret1"})
	if err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}
	return p
}

func (f *fixture) employee(t *testing.T, mobile string) *models.Employee {
	t.Helper()
	e, err := f.svc.Identity.CreateEmployee(f.ctx, AccountInput{Name: "Employee " + mobile, Mobile: mobile, Password: "secret1"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	return e
}

func (f *fixture) course(t *testing.T, price string) *models.Course {
	t.Helper()
	c, err := f.svc.Catalog.CreateCourse(f.ctx, "Course "+price, "", dec(price))
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	return c
}

func (f *fixture) lead(t *testing.T, partnerID uuid.UUID, mobile string) *models.Lead {
	t.Helper()
	l, err := f.svc.Leads.CreateLead(f.ctx, partnerID, LeadInput{StudentName: "Student " + mobile, Mobile: mobile})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	return l
}

func (f *fixture) convertedLead(t *testing.T, partnerID, courseID uuid.UUID, mobile string) *models.Lead {
	t.Helper()
	l := f.lead(t, partnerID, mobile)
	l, err := f.svc.Leads.UpdateStatus(f.ctx, l.ID, models.StatusUpdate{
		Status:      models.LeadConverted,
		CourseID:    uuid.NullUUID{UUID: courseID, Valid: true},
		PaymentTerm: models.PaymentOnline,
	})
	if err != nil {
		t.Fatalf("UpdateStatus(Converted) error = %v", err)
	}
	return l
}

func assertErrorAs[T error](t *testing.T, err error) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("error = %v (%T), want %T", err, err, target)
	}
	return target
}
