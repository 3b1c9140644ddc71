package services

import (
	"context"
	"errors"
	"time"

	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LedgerService derives partner revenue from converted leads and tracks the
// payouts recorded against them.
type LedgerService struct {
	store models.Store
	loc   *time.Location
	now   func() time.Time
}

// NewLedgerService uses loc to decide which calendar day a release date
// falls on.
func NewLedgerService(store models.Store, loc *time.Location) *LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerService{store: store, loc: loc, now: time.Now}
}

// PartnerRevenue is a quarter of the course price of every converted lead
// with a course, rounded per lead. It is computed on read and never stored.
func (s *LedgerService) PartnerRevenue(ctx context.Context, partnerID uuid.UUID) (decimal.Decimal, error) {
	leads, err := s.store.ListLeads(ctx, models.LeadFilter{
		PartnerID: uuid.NullUUID{UUID: partnerID, Valid: true},
		Status:    models.LeadConverted,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return models.TotalCommission(leads), nil
}

// ReleaseSummary totals released and pending payments, for one partner or
// for everyone when partnerID is not set.
func (s *LedgerService) ReleaseSummary(ctx context.Context, partnerID uuid.NullUUID) (models.ReleaseSummary, error) {
	released, pending := true, false
	var summary models.ReleaseSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.store.SumPayments(gctx, models.PaymentFilter{PartnerID: partnerID, Released: &released})
		summary.ReleasedTotal = total
		return err
	})
	g.Go(func() error {
		total, err := s.store.SumPayments(gctx, models.PaymentFilter{PartnerID: partnerID, Released: &pending})
		summary.PendingTotal = total
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ReleaseSummary{}, err
	}

	summary.ReleasedTotal = models.RoundMoney(summary.ReleasedTotal)
	summary.PendingTotal = models.RoundMoney(summary.PendingTotal)
	return summary, nil
}

// CreatePayment records an unreleased payout for a converted lead. The
// amount defaults to the lead's commission. Each lead gets at most one
// payment.
func (s *LedgerService) CreatePayment(ctx context.Context, leadID uuid.UUID, amount decimal.NullDecimal) (*models.Payment, error) {
	if amount.Valid && !amount.Decimal.IsPositive() {
		return nil, models.NewValidationError("amount", "amount must be greater than zero")
	}

	var payment *models.Payment
	err := s.store.InTx(ctx, func(q models.Queries) error {
		lead, err := q.GetLeadForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if lead.Status != models.LeadConverted || !lead.CourseID.Valid {
			return models.NewValidationError("lead", "payments can only be created for converted leads with a course")
		}

		if _, err := q.GetPaymentByLead(ctx, leadID); err == nil {
			return &models.ConflictError{Field: "payment for this lead"}
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		value := amount.Decimal
		if !amount.Valid {
			course, err := q.GetCourse(ctx, lead.CourseID.UUID)
			if err != nil {
				return err
			}
			value = models.Commission(course.Price)
		}

		payment = &models.Payment{
			ID:        uuid.New(),
			PartnerID: lead.PartnerID,
			LeadID:    uuid.NullUUID{UUID: leadID, Valid: true},
			Amount:    models.RoundMoney(value),
			CreatedAt: s.now().UTC(),
		}
		return q.CreatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"payment_id": payment.ID,
		"lead_id":    leadID,
		"amount":     payment.Amount.StringFixed(models.MoneyPlaces),
	}).Info("Payment created")
	return payment, nil
}

// ReleasePayment marks a payment as paid out. A zero releaseDate means now;
// otherwise the date may not be later than today.
func (s *LedgerService) ReleasePayment(ctx context.Context, paymentID uuid.UUID, releaseDate time.Time) (*models.Payment, error) {
	now := s.now()
	at := releaseDate
	if at.IsZero() {
		at = now
	} else if err := util.ValidateNotFutureDate(at, now, s.loc); err != nil {
		return nil, models.NewValidationError("release_date", "%s", err.Error())
	}

	var payment *models.Payment
	err := s.store.InTx(ctx, func(q models.Queries) error {
		var err error
		if payment, err = q.GetPaymentForUpdate(ctx, paymentID); err != nil {
			return err
		}
		if err := payment.Release(at); err != nil {
			return err
		}
		return q.UpdatePayment(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"payment_id": paymentID, "release_date": payment.ReleaseDate.Time}).Info("Payment released")
	return payment, nil
}

func (s *LedgerService) ListPayments(ctx context.Context, f models.PaymentFilter) ([]*models.PaymentListItem, error) {
	return s.store.ListPayments(ctx, f)
}
