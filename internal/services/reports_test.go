package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAdminReport(t *testing.T) {
	f := newFixture(t)
	first := f.partner(t, "9800000001")
	second := f.partner(t, "9800000002")
	course := f.course(t, "2000.00")

	a := f.convertedLead(t, first.ID, course.ID, "9000000001")
	b := f.convertedLead(t, second.ID, course.ID, "9000000002")
	f.lead(t, second.ID, "9000000003")

	pa, err := f.svc.Ledger.CreatePayment(f.ctx, a.ID, decimal.NullDecimal{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Ledger.CreatePayment(f.ctx, b.ID, decimal.NullDecimal{Decimal: dec("120.50"), Valid: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Ledger.ReleasePayment(f.ctx, pa.ID, f.now); err != nil {
		t.Fatal(err)
	}

	report, err := f.svc.Reports.AdminReport(f.ctx)
	if err != nil {
		t.Fatalf("AdminReport() error = %v", err)
	}
	if report.TotalPartners != 2 || report.TotalLeads != 3 || report.ConvertedLeads != 2 {
		t.Errorf("counts = %+v", report)
	}
	if report.PendingPayments != 1 {
		t.Errorf("PendingPayments = %d, want 1", report.PendingPayments)
	}
	if !report.PaymentReleased.Equal(dec("500.00")) || !report.PaymentPending.Equal(dec("120.50")) {
		t.Errorf("released %s pending %s, want 500.00 / 120.50", report.PaymentReleased, report.PaymentPending)
	}
}

func TestPartnerReport(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	other := f.partner(t, "9800000002")
	course := f.course(t, "2000.00")

	lead := f.convertedLead(t, partner.ID, course.ID, "9000000001")
	f.lead(t, partner.ID, "9000000002")
	f.convertedLead(t, other.ID, course.ID, "9000000003")
	if _, err := f.svc.Ledger.CreatePayment(f.ctx, lead.ID, decimal.NullDecimal{}); err != nil {
		t.Fatal(err)
	}

	report, err := f.svc.Reports.PartnerReport(f.ctx, partner.ID)
	if err != nil {
		t.Fatalf("PartnerReport() error = %v", err)
	}
	if report.TotalLeads != 2 || report.ConvertedLeads != 1 {
		t.Errorf("counts = %d / %d, want 2 / 1", report.TotalLeads, report.ConvertedLeads)
	}
	if !report.Revenue.Equal(dec("500.00")) {
		t.Errorf("Revenue = %s, want 500.00", report.Revenue)
	}
	if !report.PaymentPending.Equal(dec("500.00")) || !report.PaymentReleased.IsZero() {
		t.Errorf("pending %s released %s", report.PaymentPending, report.PaymentReleased)
	}
}

func TestReportPropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	boom := errors.New("db down")
	f.store.FailOn("SumPayments", boom)

	if _, err := f.svc.Reports.AdminReport(f.ctx); !errors.Is(err, boom) {
		t.Errorf("AdminReport() error = %v, want %v", err, boom)
	}
	if _, err := f.svc.Reports.PartnerReport(f.ctx, partner.ID); !errors.Is(err, boom) {
		t.Errorf("PartnerReport() error = %v, want %v", err, boom)
	}
}
