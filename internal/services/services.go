// Package services runs the portal's operations. Each mutating call opens
// its own transaction on the store and either commits fully or leaves no
// trace.
package services

import (
	"time"

	"admission-partner-portal/internal/models"
)

type Services struct {
	Identity *IdentityService
	Catalog  *CatalogService
	Leads    *LeadService
	Ledger   *LedgerService
	Reports  *ReportService
}

func New(store models.Store, loc *time.Location) *Services {
	ledger := NewLedgerService(store, loc)
	return &Services{
		Identity: NewIdentityService(store),
		Catalog:  NewCatalogService(store),
		Leads:    NewLeadService(store),
		Ledger:   ledger,
		Reports:  NewReportService(store, ledger),
	}
}
