package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestPartnerRevenue(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	other := f.partner(t, "9800000002")
	course := f.course(t, "2000.00")

	revenue, err := f.svc.Ledger.PartnerRevenue(f.ctx, partner.ID)
	if err != nil {
		t.Fatalf("PartnerRevenue() error = %v", err)
	}
	if !revenue.IsZero() {
		t.Errorf("revenue with no leads = %s, want 0", revenue)
	}

	f.convertedLead(t, partner.ID, course.ID, "9000000001")
	f.lead(t, partner.ID, "9000000002")
	f.convertedLead(t, other.ID, course.ID, "9000000003")

	revenue, err = f.svc.Ledger.PartnerRevenue(f.ctx, partner.ID)
	if err != nil {
		t.Fatalf("PartnerRevenue() error = %v", err)
	}
	if !revenue.Equal(dec("500.00")) {
		t.Errorf("revenue = %s, want 500.00", revenue)
	}
}

func TestPartnerRevenueNeverDecreases(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	cheap := f.course(t, "100.02")
	dear := f.course(t, "49999.99")

	previous := decimal.Zero
	for i := 0; i < 6; i++ {
		mobile := fmt.Sprintf("90000000%02d", i)
		switch i % 3 {
		case 0:
			f.convertedLead(t, partner.ID, cheap.ID, mobile)
		case 1:
			f.convertedLead(t, partner.ID, dear.ID, mobile)
		default:
			lead := f.lead(t, partner.ID, mobile)
			if _, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{Status: models.LeadNotConverted}); err != nil {
				t.Fatal(err)
			}
		}

		revenue, err := f.svc.Ledger.PartnerRevenue(f.ctx, partner.ID)
		if err != nil {
			t.Fatalf("PartnerRevenue() error = %v", err)
		}
		if revenue.LessThan(previous) {
			t.Fatalf("revenue dropped from %s to %s after lead %d", previous, revenue, i)
		}
		previous = revenue
	}

	// 2 x 25.01 + 2 x 12500.00
	if !previous.Equal(dec("25050.02")) {
		t.Errorf("final revenue = %s, want 25050.02", previous)
	}
}

func TestReleaseSummaryEmpty(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")

	summary, err := f.svc.Ledger.ReleaseSummary(f.ctx, uuid.NullUUID{UUID: partner.ID, Valid: true})
	if err != nil {
		t.Fatalf("ReleaseSummary() error = %v", err)
	}
	if !summary.ReleasedTotal.IsZero() || !summary.PendingTotal.IsZero() {
		t.Errorf("summary = %+v, want zeros", summary)
	}
	if got := summary.PendingTotal.StringFixed(2); got != "0.00" {
		t.Errorf("PendingTotal = %q, want 0.00", got)
	}
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")
	lead := f.convertedLead(t, partner.ID, course.ID, "9000000001")

	payment, err := f.svc.Ledger.CreatePayment(f.ctx, lead.ID, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if !payment.Amount.Equal(dec("500.00")) {
		t.Errorf("Amount = %s, want 500.00", payment.Amount)
	}
	if payment.Released || payment.ReleaseDate.Valid {
		t.Errorf("new payment is released: %+v", payment)
	}
	if payment.PartnerID != partner.ID {
		t.Errorf("PartnerID = %v, want %v", payment.PartnerID, partner.ID)
	}

	_, err = f.svc.Ledger.CreatePayment(f.ctx, lead.ID, decimal.NullDecimal{Decimal: dec("10"), Valid: true})
	assertErrorAs[*models.ConflictError](t, err)

	summary, err := f.svc.Ledger.ReleaseSummary(f.ctx, uuid.NullUUID{UUID: partner.ID, Valid: true})
	if err != nil {
		t.Fatal(err)
	}
	if !summary.PendingTotal.Equal(dec("500.00")) || !summary.ReleasedTotal.IsZero() {
		t.Errorf("summary = %+v, want 500.00 pending", summary)
	}
}

func TestCreatePaymentRejected(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")
	pending := f.lead(t, partner.ID, "9000000001")
	converted := f.convertedLead(t, partner.ID, course.ID, "9000000002")

	_, err := f.svc.Ledger.CreatePayment(f.ctx, pending.ID, decimal.NullDecimal{})
	assertErrorAs[*models.ValidationError](t, err)

	_, err = f.svc.Ledger.CreatePayment(f.ctx, converted.ID, decimal.NullDecimal{Decimal: dec("-5"), Valid: true})
	assertErrorAs[*models.ValidationError](t, err)

	_, err = f.svc.Ledger.CreatePayment(f.ctx, uuid.New(), decimal.NullDecimal{})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown lead error = %v, want ErrNotFound", err)
	}

	n, _ := f.store.CountPayments(f.ctx, models.PaymentFilter{})
	if n != 0 {
		t.Errorf("payment count = %d, want 0", n)
	}
}

func TestCreatePaymentExplicitAmount(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")
	lead := f.convertedLead(t, partner.ID, course.ID, "9000000001")

	payment, err := f.svc.Ledger.CreatePayment(f.ctx, lead.ID, decimal.NullDecimal{Decimal: dec("123.456"), Valid: true})
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if !payment.Amount.Equal(dec("123.46")) {
		t.Errorf("Amount = %s, want 123.46", payment.Amount)
	}
}

func TestReleasePayment(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")
	lead := f.convertedLead(t, partner.ID, course.ID, "9000000001")
	payment, err := f.svc.Ledger.CreatePayment(f.ctx, lead.ID, decimal.NullDecimal{})
	if err != nil {
		t.Fatal(err)
	}

	released, err := f.svc.Ledger.ReleasePayment(f.ctx, payment.ID, time.Time{})
	if err != nil {
		t.Fatalf("ReleasePayment() error = %v", err)
	}
	if !released.Released || !released.ReleaseDate.Time.Equal(f.now) {
		t.Errorf("payment = %+v, want released at %v", released, f.now)
	}

	_, err = f.svc.Ledger.ReleasePayment(f.ctx, payment.ID, time.Time{})
	assertErrorAs[*models.StateTransitionError](t, err)

	summary, err := f.svc.Ledger.ReleaseSummary(f.ctx, uuid.NullUUID{})
	if err != nil {
		t.Fatal(err)
	}
	if !summary.ReleasedTotal.Equal(dec("500.00")) || !summary.PendingTotal.IsZero() {
		t.Errorf("summary = %+v, want 500.00 released", summary)
	}
}

func TestReleasePaymentDate(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")

	tests := []struct {
		name    string
		date    time.Time
		wantErr bool
	}{
		{name: "yesterday", date: f.now.AddDate(0, 0, -1)},
		{name: "later today", date: f.now.Add(6 * time.Hour)},
		{name: "tomorrow", date: f.now.AddDate(0, 0, 1), wantErr: true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := f.convertedLead(t, partner.ID, course.ID, fmt.Sprintf("900000000%d", i))
			payment, err := f.svc.Ledger.CreatePayment(f.ctx, lead.ID, decimal.NullDecimal{})
			if err != nil {
				t.Fatal(err)
			}

			got, err := f.svc.Ledger.ReleasePayment(f.ctx, payment.ID, tt.date)
			if tt.wantErr {
				assertErrorAs[*models.ValidationError](t, err)
				stored, _ := f.store.GetPaymentForUpdate(f.ctx, payment.ID)
				if stored.Released {
					t.Error("payment released despite future date")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReleasePayment() error = %v", err)
			}
			if !got.ReleaseDate.Time.Equal(tt.date) {
				t.Errorf("ReleaseDate = %v, want %v", got.ReleaseDate.Time, tt.date)
			}
		})
	}
}

func TestReleasePaymentUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Ledger.ReleasePayment(f.ctx, uuid.New(), time.Time{})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
