// Prints every partner's commission position: revenue earned from converted
// leads against payments released and pending.
//
// Usage:
//
//	go run ./cmd/ledger_report [--partner <mobile>]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/db"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func main() {
	mobile := flag.String("partner", "", "Only report the partner with this mobile number")
	flag.Parse()

	cfg := config.Load()
	cfg.SetupLogging()

	ctx := context.Background()
	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()

	svc := services.New(models.NewStore(conn), cfg.DisplayLocation())

	partners, err := svc.Identity.ListPartners(ctx)
	if err != nil {
		log.WithError(err).Fatal("Failed to list partners")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Partner\tMobile\tStatus\tLeads\tConverted\tRevenue\tReleased\tPending\tUnpaid\t")

	found := false
	for _, p := range partners {
		if *mobile != "" && p.Mobile != *mobile {
			continue
		}
		found = true

		revenue, err := svc.Ledger.PartnerRevenue(ctx, p.ID)
		if err != nil {
			log.WithError(err).WithField("partner_id", p.ID).Fatal("Failed to compute revenue")
		}
		summary, err := svc.Ledger.ReleaseSummary(ctx, uuid.NullUUID{UUID: p.ID, Valid: true})
		if err != nil {
			log.WithError(err).WithField("partner_id", p.ID).Fatal("Failed to sum payments")
		}
		// Revenue not yet covered by any payment record.
		unpaid := revenue.Sub(summary.ReleasedTotal).Sub(summary.PendingTotal)

		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t\n",
			p.Name, p.Mobile, p.Status, p.TotalLeads, p.ConvertedLeads,
			revenue.StringFixed(models.MoneyPlaces),
			summary.ReleasedTotal.StringFixed(models.MoneyPlaces),
			summary.PendingTotal.StringFixed(models.MoneyPlaces),
			unpaid.StringFixed(models.MoneyPlaces))
	}
	if err := tw.Flush(); err != nil {
		log.WithError(err).Fatal("Failed to write report")
	}

	if *mobile != "" && !found {
		fmt.Printf("No partner with mobile %s\n", *mobile)
		os.Exit(1)
	}
}
