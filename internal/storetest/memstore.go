// Package storetest provides an in-memory models.Store for tests. It keeps
// the same uniqueness rules as the schema and rolls back a failed InTx.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type tables struct {
	admins    map[uuid.UUID]models.Admin
	partners  map[uuid.UUID]models.Partner
	employees map[uuid.UUID]models.Employee
	courses   map[uuid.UUID]models.Course
	leads     map[uuid.UUID]models.Lead
	payments  map[uuid.UUID]models.Payment
}

func newTables() tables {
	return tables{
		admins:    map[uuid.UUID]models.Admin{},
		partners:  map[uuid.UUID]models.Partner{},
		employees: map[uuid.UUID]models.Employee{},
		courses:   map[uuid.UUID]models.Course{},
		leads:     map[uuid.UUID]models.Lead{},
		payments:  map[uuid.UUID]models.Payment{},
	}
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t tables) clone() tables {
	return tables{
		admins:    cloneMap(t.admins),
		partners:  cloneMap(t.partners),
		employees: cloneMap(t.employees),
		courses:   cloneMap(t.courses),
		leads:     cloneMap(t.leads),
		payments:  cloneMap(t.payments),
	}
}

// Store is safe for concurrent use. Transactions are serialized.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	t    tables
	fail map[string]error
}

var _ models.Store = (*Store)(nil)

func New() *Store {
	return &Store{t: newTables(), fail: map[string]error{}}
}

// FailOn makes every later call of the named method return err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

func (s *Store) injected(method string) error {
	return s.fail[method]
}

func (s *Store) InTx(ctx context.Context, fn func(q models.Queries) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, models.ErrNotFound)
}

// Admins

func (s *Store) GetAdminByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.t.admins[id]
	if !ok {
		return nil, notFound("admin")
	}
	return &a, nil
}

func (s *Store) GetAdminByMobile(ctx context.Context, mobile string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.t.admins {
		if a.Mobile == mobile {
			return &a, nil
		}
	}
	return nil, notFound("admin")
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.t.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, notFound("admin")
}

func (s *Store) CreateAdmin(ctx context.Context, a *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateAdmin"); err != nil {
		return err
	}
	for _, other := range s.t.admins {
		if other.Mobile == a.Mobile {
			return &models.ConflictError{Field: "mobile number"}
		}
		if other.Email == a.Email {
			return &models.ConflictError{Field: "email"}
		}
	}
	s.t.admins[a.ID] = *a
	return nil
}

// Partners

func (s *Store) GetPartnerByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.t.partners[id]
	if !ok {
		return nil, notFound("partner")
	}
	return &p, nil
}

func (s *Store) GetPartnerByMobile(ctx context.Context, mobile string) (*models.Partner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.t.partners {
		if p.Mobile == mobile {
			return &p, nil
		}
	}
	return nil, notFound("partner")
}

func (s *Store) CreatePartner(ctx context.Context, p *models.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreatePartner"); err != nil {
		return err
	}
	for _, other := range s.t.partners {
		if other.Mobile == p.Mobile {
			return &models.ConflictError{Field: "mobile number"}
		}
	}
	s.t.partners[p.ID] = *p
	return nil
}

func (s *Store) UpdatePartner(ctx context.Context, p *models.Partner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdatePartner"); err != nil {
		return err
	}
	if _, ok := s.t.partners[p.ID]; !ok {
		return notFound("update partner")
	}
	s.t.partners[p.ID] = *p
	return nil
}

func (s *Store) ListPartners(ctx context.Context) ([]*models.PartnerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.PartnerSummary, 0, len(s.t.partners))
	for _, p := range s.t.partners {
		summary := &models.PartnerSummary{Partner: p}
		for _, l := range s.t.leads {
			if l.PartnerID != p.ID {
				continue
			}
			summary.TotalLeads++
			if l.Status == models.LeadConverted {
				summary.ConvertedLeads++
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountPartners(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.t.partners), nil
}

// Employees

func (s *Store) GetEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.t.employees[id]
	if !ok {
		return nil, notFound("employee")
	}
	return &e, nil
}

func (s *Store) GetEmployeeByMobile(ctx context.Context, mobile string) (*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.t.employees {
		if e.Mobile == mobile {
			return &e, nil
		}
	}
	return nil, notFound("employee")
}

func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateEmployee"); err != nil {
		return err
	}
	for _, other := range s.t.employees {
		if other.Mobile == e.Mobile {
			return &models.ConflictError{Field: "mobile number"}
		}
	}
	s.t.employees[e.ID] = *e
	return nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateEmployee"); err != nil {
		return err
	}
	if _, ok := s.t.employees[e.ID]; !ok {
		return notFound("update employee")
	}
	s.t.employees[e.ID] = *e
	return nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]*models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Employee, 0, len(s.t.employees))
	for _, e := range s.t.employees {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Courses

func (s *Store) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.t.courses[id]
	if !ok {
		return nil, notFound("course")
	}
	return &c, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Course, 0, len(s.t.courses))
	for _, c := range s.t.courses {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateCourse"); err != nil {
		return err
	}
	s.t.courses[c.ID] = *c
	return nil
}

func (s *Store) UpdateCourse(ctx context.Context, c *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateCourse"); err != nil {
		return err
	}
	if _, ok := s.t.courses[c.ID]; !ok {
		return notFound("update course")
	}
	s.t.courses[c.ID] = *c
	return nil
}

// Leads

func (s *Store) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.t.leads[id]
	if !ok {
		return nil, notFound("lead")
	}
	return &l, nil
}

func (s *Store) GetLeadForUpdate(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return s.GetLead(ctx, id)
}

func (s *Store) LeadMobileExists(ctx context.Context, mobile string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.t.leads {
		if l.Mobile == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateLead(ctx context.Context, l *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateLead"); err != nil {
		return err
	}
	for _, other := range s.t.leads {
		if other.Mobile == l.Mobile {
			return &models.ConflictError{Field: "mobile number"}
		}
	}
	s.t.leads[l.ID] = *l
	return nil
}

func (s *Store) UpdateLead(ctx context.Context, l *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateLead"); err != nil {
		return err
	}
	if _, ok := s.t.leads[l.ID]; !ok {
		return notFound("update lead")
	}
	s.t.leads[l.ID] = *l
	return nil
}

func leadMatches(l models.Lead, f models.LeadFilter) bool {
	if f.PartnerID.Valid && l.PartnerID != f.PartnerID.UUID {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.StudentName), q) && !strings.Contains(l.Mobile, f.Search) {
			return false
		}
	}
	return true
}

func (s *Store) ListLeads(ctx context.Context, f models.LeadFilter) ([]*models.LeadListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListLeads"); err != nil {
		return nil, err
	}
	var out []*models.LeadListItem
	for _, l := range s.t.leads {
		if !leadMatches(l, f) {
			continue
		}
		item := &models.LeadListItem{Lead: l}
		if p, ok := s.t.partners[l.PartnerID]; ok {
			item.PartnerName.String, item.PartnerName.Valid = p.Name, true
		}
		if l.CourseID.Valid {
			if c, ok := s.t.courses[l.CourseID.UUID]; ok {
				item.CourseTitle.String, item.CourseTitle.Valid = c.Title, true
				item.CoursePrice = decimal.NullDecimal{Decimal: c.Price, Valid: true}
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) CountLeads(ctx context.Context, f models.LeadFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.t.leads {
		if leadMatches(l, f) {
			n++
		}
	}
	return n, nil
}

// Payments

func (s *Store) GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.t.payments[id]
	if !ok {
		return nil, notFound("payment")
	}
	return &p, nil
}

func (s *Store) GetPaymentByLead(ctx context.Context, leadID uuid.UUID) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.t.payments {
		if p.LeadID.Valid && p.LeadID.UUID == leadID {
			return &p, nil
		}
	}
	return nil, notFound("payment")
}

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreatePayment"); err != nil {
		return err
	}
	for _, other := range s.t.payments {
		if p.LeadID.Valid && other.LeadID == p.LeadID {
			return &models.ConflictError{Field: "payment for this lead"}
		}
	}
	s.t.payments[p.ID] = *p
	return nil
}

func (s *Store) UpdatePayment(ctx context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdatePayment"); err != nil {
		return err
	}
	if _, ok := s.t.payments[p.ID]; !ok {
		return notFound("update payment")
	}
	s.t.payments[p.ID] = *p
	return nil
}

func paymentMatches(p models.Payment, f models.PaymentFilter) bool {
	if f.PartnerID.Valid && p.PartnerID != f.PartnerID.UUID {
		return false
	}
	if f.Released != nil && p.Released != *f.Released {
		return false
	}
	return true
}

func (s *Store) ListPayments(ctx context.Context, f models.PaymentFilter) ([]*models.PaymentListItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PaymentListItem
	for _, p := range s.t.payments {
		if !paymentMatches(p, f) {
			continue
		}
		item := &models.PaymentListItem{Payment: p}
		if p.LeadID.Valid {
			if l, ok := s.t.leads[p.LeadID.UUID]; ok {
				item.StudentName.String, item.StudentName.Valid = l.StudentName, true
			}
		}
		if partner, ok := s.t.partners[p.PartnerID]; ok {
			item.PartnerName.String, item.PartnerName.Valid = partner.Name, true
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SumPayments(ctx context.Context, f models.PaymentFilter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("SumPayments"); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range s.t.payments {
		if paymentMatches(p, f) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (s *Store) CountPayments(ctx context.Context, f models.PaymentFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.t.payments {
		if paymentMatches(p, f) {
			n++
		}
	}
	return n, nil
}
