package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Admin struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Mobile       string    `db:"mobile"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Partner struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Mobile       string         `db:"mobile"`
	PasswordHash string         `db:"password_hash"`
	ShopName     sql.NullString `db:"shop_name"`
	Profession   sql.NullString `db:"profession"`
	Email        sql.NullString `db:"email"`
	Status       AccountStatus  `db:"status"`

	BankName          sql.NullString `db:"bank_name"`
	AccountHolderName sql.NullString `db:"account_holder_name"`
	AccountNumber     sql.NullString `db:"account_number"`
	IFSCCode          sql.NullString `db:"ifsc_code"`
	BankProof         sql.NullString `db:"bank_proof"`
	BankDetailsLocked bool           `db:"bank_details_locked"`

	AadharNumber      sql.NullString `db:"aadhar_number"`
	AadharDoc         sql.NullString `db:"aadhar_doc"`
	PANNumber         sql.NullString `db:"pan_number"`
	PANDoc            sql.NullString `db:"pan_doc"`
	DocumentsVerified bool           `db:"documents_verified"`

	CreatedAt time.Time `db:"created_at"`
}

// PartnerSummary is a partner row with its lead counters for the admin list.
type PartnerSummary struct {
	Partner
	TotalLeads     int `db:"total_leads"`
	ConvertedLeads int `db:"converted_leads"`
}

type Employee struct {
	ID           uuid.UUID      `db:"id"`
	Name         string         `db:"name"`
	Mobile       string         `db:"mobile"`
	Email        sql.NullString `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Status       AccountStatus  `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
}

type Course struct {
	ID          uuid.UUID       `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Discount    decimal.Decimal `db:"discount"`
	RealPrice   decimal.Decimal `db:"real_price"`
	Status      CourseStatus    `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
}

type Lead struct {
	ID              uuid.UUID      `db:"id"`
	PartnerID       uuid.UUID      `db:"partner_id"`
	StudentName     string         `db:"student_name"`
	Mobile          string         `db:"mobile"`
	Email           sql.NullString `db:"email"`
	CurrentStatus   sql.NullString `db:"current_status"`
	Address         sql.NullString `db:"address"`
	Status          LeadStatus     `db:"status"`
	CourseID        uuid.NullUUID  `db:"course_id"`
	PaymentTerm     sql.NullString `db:"payment_term"`
	Remark          sql.NullString `db:"remark"`
	RemarkUpdatedAt sql.NullTime   `db:"remark_updated_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// LeadListItem is a lead joined with its partner and course for list views.
type LeadListItem struct {
	Lead
	PartnerName sql.NullString      `db:"partner_name"`
	CourseTitle sql.NullString      `db:"course_title"`
	CoursePrice decimal.NullDecimal `db:"course_price"`
}

// Commission is the partner's share for this lead; zero unless the lead is
// converted with a course assigned.
func (l *LeadListItem) Commission() decimal.Decimal {
	if l.Status != LeadConverted || !l.CoursePrice.Valid {
		return decimal.Zero
	}
	return Commission(l.CoursePrice.Decimal)
}

type LeadFilter struct {
	PartnerID uuid.NullUUID
	Status    LeadStatus
	Search    string
}

type Payment struct {
	ID          uuid.UUID       `db:"id"`
	PartnerID   uuid.UUID       `db:"partner_id"`
	LeadID      uuid.NullUUID   `db:"lead_id"`
	Amount      decimal.Decimal `db:"amount"`
	Released    bool            `db:"released"`
	ReleaseDate sql.NullTime    `db:"release_date"`
	CreatedAt   time.Time       `db:"created_at"`
}

type PaymentListItem struct {
	Payment
	StudentName sql.NullString `db:"student_name"`
	PartnerName sql.NullString `db:"partner_name"`
}

type PaymentFilter struct {
	PartnerID uuid.NullUUID
	Released  *bool
}

// ReleaseSummary totals payment amounts by release state.
type ReleaseSummary struct {
	ReleasedTotal decimal.Decimal `json:"released_total"`
	PendingTotal  decimal.Decimal `json:"pending_total"`
}

// Principal is an authenticated caller as carried in the access token.
type Principal struct {
	ID   uuid.UUID
	Role Role
	Name string
}
