package models

type LeadStatus string

const (
	LeadPending      LeadStatus = "Pending"
	LeadInProcess    LeadStatus = "In-Process"
	LeadConverted    LeadStatus = "Converted"
	LeadNotConverted LeadStatus = "Not Converted"
)

// LeadStatuses lists every lead status in lifecycle order.
var LeadStatuses = []LeadStatus{LeadPending, LeadInProcess, LeadConverted, LeadNotConverted}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadPending, LeadInProcess, LeadConverted, LeadNotConverted:
		return true
	}
	return false
}

// Terminal reports whether the status is a one-way lock.
func (s LeadStatus) Terminal() bool {
	return s == LeadConverted || s == LeadNotConverted
}

type PaymentTerm string

const (
	PaymentCash   PaymentTerm = "Cash"
	PaymentOnline PaymentTerm = "Online"
	PaymentOther  PaymentTerm = "Other"
)

var PaymentTerms = []PaymentTerm{PaymentCash, PaymentOnline, PaymentOther}

func (p PaymentTerm) Valid() bool {
	return p == PaymentCash || p == PaymentOnline || p == PaymentOther
}

// AccountStatus applies to partners and employees.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
	AccountBlocked  AccountStatus = "blocked"
)

var AccountStatuses = []AccountStatus{AccountActive, AccountInactive, AccountBlocked}

func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountInactive || s == AccountBlocked
}

type CourseStatus string

const (
	CourseActive   CourseStatus = "active"
	CourseInactive CourseStatus = "inactive"
)

func (s CourseStatus) Valid() bool {
	return s == CourseActive || s == CourseInactive
}

// Role is the identity kind carried in access tokens.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePartner  Role = "partner"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePartner || r == RoleEmployee
}

// StatusDisplayInfo contains display information for a lead status
type StatusDisplayInfo struct {
	DisplayName string
	BgColor     string
	TextColor   string
	BorderColor string
}

// GetStatusDisplayInfo returns display information for a given status
func GetStatusDisplayInfo(status LeadStatus) StatusDisplayInfo {
	statusMap := map[LeadStatus]StatusDisplayInfo{
		LeadPending: {
			DisplayName: "Pending",
			BgColor:     "#E6E6E6",
			TextColor:   "#333",
			BorderColor: "#8C8C8C",
		},
		LeadInProcess: {
			DisplayName: "In Process",
			BgColor:     "#FFF4E6",
			TextColor:   "#8B6914",
			BorderColor: "#FFA500",
		},
		LeadConverted: {
			DisplayName: "Converted",
			BgColor:     "#E6FFE6",
			TextColor:   "#006600",
			BorderColor: "#28a745",
		},
		LeadNotConverted: {
			DisplayName: "Not Converted",
			BgColor:     "#FFE6E6",
			TextColor:   "#CC0000",
			BorderColor: "#dc3545",
		},
	}

	if info, ok := statusMap[status]; ok {
		return info
	}

	return StatusDisplayInfo{
		DisplayName: string(status),
		BgColor:     "#E6E6E6",
		TextColor:   "#333",
		BorderColor: "#8C8C8C",
	}
}
