package models

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StatusUpdate is an admin's change request for a lead. Zero values mean
// "not provided".
type StatusUpdate struct {
	Status      LeadStatus
	CourseID    uuid.NullUUID
	PaymentTerm PaymentTerm
}

// CanTransition reports whether a lead may move from one status to another.
// Terminal statuses only accept themselves.
func CanTransition(from, to LeadStatus) bool {
	if !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	return !from.Terminal()
}

// ApplyStatusUpdate validates u against the lead and applies it. Nothing is
// modified when an error is returned.
//
// Course and payment term are only written when the resulting status is
// Converted; otherwise existing values stay as they are.
func (l *Lead) ApplyStatusUpdate(u StatusUpdate, now time.Time) error {
	next := l.Status
	if u.Status != "" {
		if !u.Status.Valid() {
			return NewValidationError("status", "invalid lead status %q", u.Status)
		}
		if !CanTransition(l.Status, u.Status) {
			return &StateTransitionError{Entity: "lead", From: string(l.Status), To: string(u.Status)}
		}
		next = u.Status
	}

	if next == LeadConverted && u.PaymentTerm != "" && !u.PaymentTerm.Valid() {
		return NewValidationError("payment_term", "invalid payment method %q", u.PaymentTerm)
	}

	changed := next != l.Status
	l.Status = next
	if next == LeadConverted {
		if u.CourseID.Valid {
			changed = changed || l.CourseID != u.CourseID
			l.CourseID = u.CourseID
		}
		if u.PaymentTerm != "" {
			term := sql.NullString{String: string(u.PaymentTerm), Valid: true}
			changed = changed || l.PaymentTerm != term
			l.PaymentTerm = term
		}
	}
	if changed {
		l.UpdatedAt = now
	}
	return nil
}

// SetRemark replaces the lead's remark and stamps it in UTC.
func (l *Lead) SetRemark(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return NewValidationError("remark", "remark is required")
	}
	now = now.UTC()
	l.Remark = sql.NullString{String: text, Valid: true}
	l.RemarkUpdatedAt = sql.NullTime{Time: now, Valid: true}
	l.UpdatedAt = now
	return nil
}

// Release marks the payment as paid out on the given instant.
func (p *Payment) Release(at time.Time) error {
	if p.Released {
		return &StateTransitionError{Entity: "payment", From: "released"}
	}
	p.Released = true
	p.ReleaseDate = sql.NullTime{Time: at.UTC(), Valid: true}
	return nil
}
