package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const leadColumns = `l.id, l.partner_id, l.student_name, l.mobile, l.email, l.current_status, l.address,
	l.status, l.course_id, l.payment_term, l.remark, l.remark_updated_at, l.created_at, l.updated_at`

func (p *pgQueries) GetLead(ctx context.Context, id uuid.UUID) (*Lead, error) {
	lead := &Lead{}
	return lead, p.get(ctx, lead, "lead", `SELECT `+leadColumns+` FROM leads l WHERE l.id = $1`, id)
}

func (p *pgQueries) GetLeadForUpdate(ctx context.Context, id uuid.UUID) (*Lead, error) {
	lead := &Lead{}
	return lead, p.get(ctx, lead, "lead", `SELECT `+leadColumns+` FROM leads l WHERE l.id = $1 FOR UPDATE`, id)
}

func (p *pgQueries) LeadMobileExists(ctx context.Context, mobile string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, p.q, &exists, `SELECT EXISTS (SELECT 1 FROM leads WHERE mobile = $1)`, mobile); err != nil {
		return false, fmt.Errorf("failed to check lead mobile: %w", err)
	}
	return exists, nil
}

func (p *pgQueries) CreateLead(ctx context.Context, l *Lead) error {
	return p.exec(ctx, "create lead", `
		INSERT INTO leads (id, partner_id, student_name, mobile, email, current_status, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, l.ID, l.PartnerID, l.StudentName, l.Mobile, l.Email, l.CurrentStatus, l.Address, l.Status, l.CreatedAt, l.UpdatedAt)
}

func (p *pgQueries) UpdateLead(ctx context.Context, l *Lead) error {
	return p.exec(ctx, "update lead", `
		UPDATE leads SET
			status = $1, course_id = $2, payment_term = $3,
			remark = $4, remark_updated_at = $5, updated_at = $6
		WHERE id = $7
	`, l.Status, l.CourseID, l.PaymentTerm, l.Remark, l.RemarkUpdatedAt, l.UpdatedAt, l.ID)
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func leadWhere(f LeadFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.PartnerID.Valid {
		w.add("l.partner_id = ?", f.PartnerID.UUID)
	}
	if f.Status != "" {
		w.add("l.status = ?", f.Status)
	}
	if f.Search != "" {
		w.add(`(LOWER(l.student_name) LIKE LOWER(?) ESCAPE '\' OR l.mobile LIKE ? ESCAPE '\')`, "%"+likeEscaper.Replace(f.Search)+"%")
	}
	return w
}

func (p *pgQueries) ListLeads(ctx context.Context, f LeadFilter) ([]*LeadListItem, error) {
	w := leadWhere(f)
	query := `
		SELECT ` + leadColumns + `,
			pa.name AS partner_name,
			c.title AS course_title,
			c.price AS course_price
		FROM leads l
		LEFT JOIN partners pa ON pa.id = l.partner_id
		LEFT JOIN courses c ON c.id = l.course_id
		WHERE 1=1` + w.clauses + `
		ORDER BY l.created_at DESC`

	var leads []*LeadListItem
	if err := sqlx.SelectContext(ctx, p.q, &leads, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	return leads, nil
}

func (p *pgQueries) CountLeads(ctx context.Context, f LeadFilter) (int, error) {
	w := leadWhere(f)
	return p.count(ctx, "leads", `SELECT COUNT(*) FROM leads l WHERE 1=1`+w.clauses, w.args...)
}
