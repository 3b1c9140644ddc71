// Seeder command for populating demo partners, courses and leads.
//
// SAFETY: This command ONLY runs when:
//   - APP_ENV=development
//   - --confirm flag is provided
//
// Usage:
//
//	APP_ENV=development go run ./cmd/seed --partners 3 --leads 10 --confirm
//
// Every seeded partner and employee gets the password "demo1234".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"admission-partner-portal/internal/config"
	"admission-partner-portal/internal/db"
	"admission-partner-portal/internal/models"
	"admission-partner-portal/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const demoPassword = "demo1234"

var demoCourses = []struct {
	Title    string
	Price    int64
	Discount int64
}{
	{"Bachelor of Computer Applications", 120000, 10},
	{"Master of Business Administration", 250000, 0},
	{"Diploma in Nursing", 80000, 5},
}

func main() {
	partnerCount := flag.Int("partners", 3, "Number of partners to seed")
	leadsPerPartner := flag.Int("leads", 10, "Number of leads per partner")
	confirm := flag.Bool("confirm", false, "Confirm seeding (required)")
	flag.Parse()

	cfg := config.Load()
	cfg.SetupLogging()

	if os.Getenv("APP_ENV") != "development" {
		log.Fatal("Seeder can only run with APP_ENV=development")
	}
	if !*confirm {
		log.Fatalf("--confirm flag is required. Usage: APP_ENV=development go run ./cmd/seed --partners %d --leads %d --confirm", *partnerCount, *leadsPerPartner)
	}

	ctx := context.Background()
	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer conn.Close()

	// Do NOT run migrations - assume DB is already set up
	svc := services.New(models.NewStore(conn), cfg.DisplayLocation())

	courses := make([]*models.Course, 0, len(demoCourses))
	for _, c := range demoCourses {
		course, err := svc.Catalog.CreateCourse(ctx, c.Title, "Seeded demo course", decimal.NewFromInt(c.Price))
		if err != nil {
			log.WithError(err).WithField("title", c.Title).Fatal("Failed to create course")
		}
		if c.Discount > 0 {
			if course, err = svc.Catalog.UpdateCourse(ctx, course.ID, decimal.NewFromInt(c.Discount), ""); err != nil {
				log.WithError(err).WithField("title", c.Title).Fatal("Failed to discount course")
			}
		}
		courses = append(courses, course)
	}
	log.Infof("Seeded %d courses", len(courses))

	if _, err := svc.Identity.CreateEmployee(ctx, services.AccountInput{
		Name: "Seed Employee", Mobile: "7000000001", Password: demoPassword,
	}); err != nil && !isConflict(err) {
		log.WithError(err).Fatal("Failed to create employee")
	}

	var leadsCreated, converted, payments int
	for p := 1; p <= *partnerCount; p++ {
		partner, err := svc.Identity.CreatePartner(ctx, services.AccountInput{
			Name:     fmt.Sprintf("Seed Partner %02d", p),
			Mobile:   fmt.Sprintf("80000000%02d", p),
			Password: demoPassword,
		})
		if err != nil {
			log.WithError(err).WithField("partner", p).Error("Failed to create partner")
			continue
		}

		for i := 1; i <= *leadsPerPartner; i++ {
			lead, err := svc.Leads.CreateLead(ctx, partner.ID, services.LeadInput{
				StudentName:   fmt.Sprintf("Seed Student %02d-%02d", p, i),
				Mobile:        fmt.Sprintf("9%02d00000%02d", p, i),
				CurrentStatus: "12th passed",
			})
			if err != nil {
				log.WithError(err).Error("Failed to create lead")
				continue
			}
			leadsCreated++

			// Every third lead converts, every fifth is dropped, the rest
			// stay in the pipeline.
			switch {
			case i%3 == 0:
				course := courses[i%len(courses)]
				if _, err := svc.Leads.UpdateStatus(ctx, lead.ID, models.StatusUpdate{
					Status:      models.LeadConverted,
					CourseID:    uuid.NullUUID{UUID: course.ID, Valid: true},
					PaymentTerm: models.PaymentTerms[i%len(models.PaymentTerms)],
				}); err != nil {
					log.WithError(err).Error("Failed to convert lead")
					continue
				}
				converted++
				if i%2 == 0 {
					if _, err := svc.Ledger.CreatePayment(ctx, lead.ID, decimal.NullDecimal{}); err != nil {
						log.WithError(err).Error("Failed to create payment")
						continue
					}
					payments++
				}
			case i%5 == 0:
				if _, err := svc.Leads.UpdateStatus(ctx, lead.ID, models.StatusUpdate{Status: models.LeadNotConverted}); err != nil {
					log.WithError(err).Error("Failed to close lead")
				}
			case i%2 == 0:
				if _, err := svc.Leads.UpdateStatus(ctx, lead.ID, models.StatusUpdate{Status: models.LeadInProcess}); err != nil {
					log.WithError(err).Error("Failed to move lead")
				}
			}
		}
	}

	log.WithFields(log.Fields{
		"partners":  *partnerCount,
		"leads":     leadsCreated,
		"converted": converted,
		"payments":  payments,
	}).Info("Seeding complete")
}

func isConflict(err error) bool {
	var conflictErr *models.ConflictError
	return errors.As(err, &conflictErr)
}
