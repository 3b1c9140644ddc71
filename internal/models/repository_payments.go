package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const paymentColumns = `p.id, p.partner_id, p.lead_id, p.amount, p.released, p.release_date, p.created_at`

func (p *pgQueries) GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*Payment, error) {
	payment := &Payment{}
	return payment, p.get(ctx, payment, "payment", `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1 FOR UPDATE`, id)
}

func (p *pgQueries) GetPaymentByLead(ctx context.Context, leadID uuid.UUID) (*Payment, error) {
	payment := &Payment{}
	return payment, p.get(ctx, payment, "payment", `SELECT `+paymentColumns+` FROM payments p WHERE p.lead_id = $1`, leadID)
}

func (p *pgQueries) CreatePayment(ctx context.Context, payment *Payment) error {
	return p.exec(ctx, "create payment", `
		INSERT INTO payments (id, partner_id, lead_id, amount, released, release_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, payment.ID, payment.PartnerID, payment.LeadID, payment.Amount, payment.Released, payment.ReleaseDate, payment.CreatedAt)
}

func (p *pgQueries) UpdatePayment(ctx context.Context, payment *Payment) error {
	return p.exec(ctx, "update payment", `
		UPDATE payments SET amount = $1, released = $2, release_date = $3 WHERE id = $4
	`, payment.Amount, payment.Released, payment.ReleaseDate, payment.ID)
}

func paymentWhere(f PaymentFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.PartnerID.Valid {
		w.add("p.partner_id = ?", f.PartnerID.UUID)
	}
	if f.Released != nil {
		w.add("p.released = ?", *f.Released)
	}
	return w
}

func (p *pgQueries) ListPayments(ctx context.Context, f PaymentFilter) ([]*PaymentListItem, error) {
	w := paymentWhere(f)
	query := `
		SELECT ` + paymentColumns + `,
			l.student_name AS student_name,
			pa.name AS partner_name
		FROM payments p
		LEFT JOIN leads l ON l.id = p.lead_id
		LEFT JOIN partners pa ON pa.id = p.partner_id
		WHERE 1=1` + w.clauses + `
		ORDER BY p.created_at DESC`

	var payments []*PaymentListItem
	if err := sqlx.SelectContext(ctx, p.q, &payments, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	return payments, nil
}

func (p *pgQueries) SumPayments(ctx context.Context, f PaymentFilter) (decimal.Decimal, error) {
	w := paymentWhere(f)
	var total decimal.Decimal
	err := sqlx.GetContext(ctx, p.q, &total, `SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE 1=1`+w.clauses, w.args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

func (p *pgQueries) CountPayments(ctx context.Context, f PaymentFilter) (int, error) {
	w := paymentWhere(f)
	return p.count(ctx, "payments", `SELECT COUNT(*) FROM payments p WHERE 1=1`+w.clauses, w.args...)
}
