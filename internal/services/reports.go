package services

import (
	"context"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type AdminReport struct {
	TotalPartners   int             `json:"total_partners"`
	TotalLeads      int             `json:"total_leads"`
	ConvertedLeads  int             `json:"converted"`
	PendingPayments int             `json:"pending_payments"`
	PaymentPending  decimal.Decimal `json:"payment_pending"`
	PaymentReleased decimal.Decimal `json:"payment_released"`
}

type PartnerReport struct {
	TotalLeads      int             `json:"total_leads"`
	ConvertedLeads  int             `json:"converted"`
	PaymentReleased decimal.Decimal `json:"payment_released"`
	PaymentPending  decimal.Decimal `json:"payment_pending"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// ReportService builds the dashboard counters. The independent queries of a
// report run concurrently.
type ReportService struct {
	store  models.Store
	ledger *LedgerService
}

func NewReportService(store models.Store, ledger *LedgerService) *ReportService {
	return &ReportService{store: store, ledger: ledger}
}

func (s *ReportService) AdminReport(ctx context.Context) (*AdminReport, error) {
	var (
		report  AdminReport
		summary models.ReleaseSummary
		pending = false
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.TotalPartners, err = s.store.CountPartners(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.TotalLeads, err = s.store.CountLeads(gctx, models.LeadFilter{})
		return err
	})
	g.Go(func() (err error) {
		report.ConvertedLeads, err = s.store.CountLeads(gctx, models.LeadFilter{Status: models.LeadConverted})
		return err
	})
	g.Go(func() (err error) {
		report.PendingPayments, err = s.store.CountPayments(gctx, models.PaymentFilter{Released: &pending})
		return err
	})
	g.Go(func() (err error) {
		summary, err = s.ledger.ReleaseSummary(gctx, uuid.NullUUID{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.PaymentPending = summary.PendingTotal
	report.PaymentReleased = summary.ReleasedTotal
	return &report, nil
}

func (s *ReportService) PartnerReport(ctx context.Context, partnerID uuid.UUID) (*PartnerReport, error) {
	var (
		report  PartnerReport
		summary models.ReleaseSummary
		partner = uuid.NullUUID{UUID: partnerID, Valid: true}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.TotalLeads, err = s.store.CountLeads(gctx, models.LeadFilter{PartnerID: partner})
		return err
	})
	g.Go(func() (err error) {
		report.ConvertedLeads, err = s.store.CountLeads(gctx, models.LeadFilter{PartnerID: partner, Status: models.LeadConverted})
		return err
	})
	g.Go(func() (err error) {
		summary, err = s.ledger.ReleaseSummary(gctx, partner)
		return err
	})
	g.Go(func() (err error) {
		report.Revenue, err = s.ledger.PartnerRevenue(gctx, partnerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.PaymentReleased = summary.ReleasedTotal
	report.PaymentPending = summary.PendingTotal
	return &report, nil
}
