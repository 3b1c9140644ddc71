package services

import (
	"errors"
	"testing"
	"time"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
)

func TestCreateLead(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")

	lead, err := f.svc.Leads.CreateLead(f.ctx, partner.ID, LeadInput{
		StudentName: "  Ravi Kumar ",
		Mobile:      " 9000000001 ",
		Email:       "Ravi@Example.com",
		Address:     "Pune",
	})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if lead.Status != models.LeadPending {
		t.Errorf("Status = %q, want Pending", lead.Status)
	}
	if lead.StudentName != "Ravi Kumar" || lead.Mobile != "9000000001" {
		t.Errorf("lead = %q / %q, want trimmed values", lead.StudentName, lead.Mobile)
	}
	if lead.Email.String != "ravi@example.com" {
		t.Errorf("Email = %q", lead.Email.String)
	}
	if lead.CourseID.Valid || lead.PaymentTerm.Valid {
		t.Errorf("new lead has course or payment term: %+v", lead)
	}

	stored, err := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLead() error = %v", err)
	}
	if stored.PartnerID != partner.ID {
		t.Errorf("PartnerID = %v, want %v", stored.PartnerID, partner.ID)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")

	tests := []struct {
		name  string
		in    LeadInput
		field string
	}{
		{name: "missing mobile", in: LeadInput{StudentName: "Asha"}, field: "mobile"},
		{name: "blank mobile", in: LeadInput{StudentName: "Asha", Mobile: "   "}, field: "mobile"},
		{name: "missing name", in: LeadInput{Mobile: "9000000002"}, field: "student_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Leads.CreateLead(f.ctx, partner.ID, tt.in)
			validationErr := assertErrorAs[*models.ValidationError](t, err)
			if validationErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", validationErr.Field, tt.field)
			}
		})
	}
}

func TestCreateLeadDuplicateMobile(t *testing.T) {
	f := newFixture(t)
	first := f.partner(t, "9800000001")
	second := f.partner(t, "9800000002")
	f.lead(t, first.ID, "9000000001")

	// Uniqueness is global, not per partner.
	_, err := f.svc.Leads.CreateLead(f.ctx, second.ID, LeadInput{StudentName: "Other", Mobile: "9000000001"})
	assertErrorAs[*models.ConflictError](t, err)

	n, err := f.store.CountLeads(f.ctx, models.LeadFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("lead count = %d, want 1", n)
	}
}

func TestCreateLeadInactivePartner(t *testing.T) {
	for _, status := range []models.AccountStatus{models.AccountBlocked, models.AccountInactive} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			partner := f.partner(t, "9800000001")
			if _, err := f.svc.Identity.SetPartnerStatus(f.ctx, partner.ID, status); err != nil {
				t.Fatalf("SetPartnerStatus() error = %v", err)
			}

			_, err := f.svc.Leads.CreateLead(f.ctx, partner.ID, LeadInput{StudentName: "Asha", Mobile: "9000000001"})
			assertErrorAs[*models.PermissionError](t, err)

			n, _ := f.store.CountLeads(f.ctx, models.LeadFilter{})
			if n != 0 {
				t.Errorf("lead count = %d, want 0", n)
			}
		})
	}
}

func TestCreateLeadUnknownPartner(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Leads.CreateLead(f.ctx, uuid.New(), LeadInput{StudentName: "Asha", Mobile: "9000000001"})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatusConvertsWithCourse(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")
	lead := f.lead(t, partner.ID, "9000000001")

	if _, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{Status: models.LeadInProcess}); err != nil {
		t.Fatalf("UpdateStatus(In Process) error = %v", err)
	}
	updated, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{
		Status:      models.LeadConverted,
		CourseID:    uuid.NullUUID{UUID: course.ID, Valid: true},
		PaymentTerm: models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("UpdateStatus(Converted) error = %v", err)
	}
	if updated.Status != models.LeadConverted || updated.CourseID.UUID != course.ID {
		t.Errorf("lead = %+v, want Converted with course", updated)
	}

	stored, _ := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if stored.PaymentTerm.String != string(models.PaymentCash) {
		t.Errorf("stored PaymentTerm = %q, want Cash", stored.PaymentTerm.String)
	}
}

func TestUpdateStatusTerminalIsFinal(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	course := f.course(t, "2000.00")
	lead := f.convertedLead(t, partner.ID, course.ID, "9000000001")

	_, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{Status: models.LeadPending})
	assertErrorAs[*models.StateTransitionError](t, err)

	stored, _ := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if *stored != *lead {
		t.Errorf("stored lead changed after rejected transition:\n got %+v\nwant %+v", stored, lead)
	}

	// Converted again is accepted.
	if _, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{Status: models.LeadConverted}); err != nil {
		t.Errorf("re-applying Converted error = %v", err)
	}
}

func TestUpdateStatusUnknownCourse(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	lead := f.lead(t, partner.ID, "9000000001")

	_, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{
		Status:   models.LeadConverted,
		CourseID: uuid.NullUUID{UUID: uuid.New(), Valid: true},
	})
	validationErr := assertErrorAs[*models.ValidationError](t, err)
	if validationErr.Field != "course_id" {
		t.Errorf("Field = %q, want course_id", validationErr.Field)
	}

	stored, _ := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if stored.Status != models.LeadPending {
		t.Errorf("Status = %q, want Pending", stored.Status)
	}
}

func TestUpdateStatusRollsBackOnWriteFailure(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	lead := f.lead(t, partner.ID, "9000000001")

	boom := errors.New("connection reset")
	f.store.FailOn("UpdateLead", boom)

	_, err := f.svc.Leads.UpdateStatus(f.ctx, lead.ID, models.StatusUpdate{Status: models.LeadInProcess})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	stored, _ := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if stored.Status != models.LeadPending {
		t.Errorf("Status = %q, want Pending", stored.Status)
	}
}

func TestUpdateStatusUnknownLead(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Leads.UpdateStatus(f.ctx, uuid.New(), models.StatusUpdate{Status: models.LeadInProcess})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAddRemark(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	employee := f.employee(t, "9700000001")
	lead := f.lead(t, partner.ID, "9000000001")

	updated, err := f.svc.Leads.AddRemark(f.ctx, employee.ID, lead.ID, "Called twice, no answer")
	if err != nil {
		t.Fatalf("AddRemark() error = %v", err)
	}
	if updated.Remark.String != "Called twice, no answer" {
		t.Errorf("Remark = %q", updated.Remark.String)
	}
	if !updated.RemarkUpdatedAt.Valid || !updated.RemarkUpdatedAt.Time.Equal(f.now) {
		t.Errorf("RemarkUpdatedAt = %+v, want %v", updated.RemarkUpdatedAt, f.now)
	}
	if updated.Status != models.LeadPending {
		t.Errorf("remark changed status to %q", updated.Status)
	}

	stored, _ := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if stored.Remark.String != "Called twice, no answer" {
		t.Errorf("stored Remark = %q", stored.Remark.String)
	}
}

func TestAddRemarkRejected(t *testing.T) {
	f := newFixture(t)
	partner := f.partner(t, "9800000001")
	active := f.employee(t, "9700000001")
	inactive := f.employee(t, "9700000002")
	if _, err := f.svc.Identity.SetEmployeeStatus(f.ctx, inactive.ID, models.AccountInactive); err != nil {
		t.Fatal(err)
	}
	lead := f.lead(t, partner.ID, "9000000001")

	_, err := f.svc.Leads.AddRemark(f.ctx, inactive.ID, lead.ID, "hello")
	assertErrorAs[*models.PermissionError](t, err)

	_, err = f.svc.Leads.AddRemark(f.ctx, active.ID, lead.ID, "  ")
	assertErrorAs[*models.ValidationError](t, err)

	_, err = f.svc.Leads.AddRemark(f.ctx, active.ID, uuid.New(), "hello")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown lead error = %v, want ErrNotFound", err)
	}

	stored, _ := f.svc.Leads.GetLead(f.ctx, lead.ID)
	if stored.Remark.Valid {
		t.Errorf("remark stored after rejected calls: %q", stored.Remark.String)
	}
}

func TestListLeadsFilters(t *testing.T) {
	f := newFixture(t)
	first := f.partner(t, "9800000001")
	second := f.partner(t, "9800000002")
	course := f.course(t, "1000.00")

	f.lead(t, first.ID, "9000000001")
	f.convertedLead(t, first.ID, course.ID, "9000000002")
	f.lead(t, second.ID, "9111111111")

	tests := []struct {
		name   string
		filter models.LeadFilter
		want   int
	}{
		{name: "all", filter: models.LeadFilter{}, want: 3},
		{name: "partner", filter: models.LeadFilter{PartnerID: uuid.NullUUID{UUID: first.ID, Valid: true}}, want: 2},
		{name: "status", filter: models.LeadFilter{Status: models.LeadConverted}, want: 1},
		{name: "search mobile", filter: models.LeadFilter{Search: "91111"}, want: 1},
		{name: "search name", filter: models.LeadFilter{Search: " student 90000 "}, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leads, err := f.svc.Leads.ListLeads(f.ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListLeads() error = %v", err)
			}
			if len(leads) != tt.want {
				t.Errorf("len = %d, want %d", len(leads), tt.want)
			}
		})
	}

	if _, err := f.svc.Leads.ListLeads(f.ctx, models.LeadFilter{Status: "Done"}); err == nil {
		t.Error("ListLeads() with unknown status should fail")
	}
}

func TestLeadTimestampsAreUTC(t *testing.T) {
	f := newFixture(t)
	ist := time.FixedZone("IST", 5*3600+1800)
	f.svc.Leads.now = func() time.Time { return f.now.In(ist) }
	partner := f.partner(t, "9800000001")

	lead := f.lead(t, partner.ID, "9000000001")
	if lead.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt location = %v, want UTC", lead.CreatedAt.Location())
	}
}
