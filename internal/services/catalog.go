package services

import (
	"context"
	"strings"
	"time"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CatalogService struct {
	store models.Store
	now   func() time.Time
}

func NewCatalogService(store models.Store) *CatalogService {
	return &CatalogService{store: store, now: time.Now}
}

// CreateCourse adds an active course with no discount.
func (s *CatalogService) CreateCourse(ctx context.Context, title, description string, price decimal.Decimal) (*models.Course, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("title", "course title is required")
	}
	if !price.IsPositive() {
		return nil, models.NewValidationError("price", "price must be greater than zero")
	}

	price = models.RoundMoney(price)
	course := &models.Course{
		ID:          uuid.New(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Price:       price,
		Discount:    decimal.Zero,
		RealPrice:   price,
		Status:      models.CourseActive,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"course_id": course.ID, "price": price.StringFixed(models.MoneyPlaces)}).Info("Course created")
	return course, nil
}

// UpdateCourse applies a discount percentage and optionally a new status.
// An empty status keeps the current one.
func (s *CatalogService) UpdateCourse(ctx context.Context, id uuid.UUID, discount decimal.Decimal, status models.CourseStatus) (*models.Course, error) {
	if status != "" && !status.Valid() {
		return nil, models.NewValidationError("status", "invalid course status %q", status)
	}

	var course *models.Course
	err := s.store.InTx(ctx, func(q models.Queries) error {
		var err error
		if course, err = q.GetCourse(ctx, id); err != nil {
			return err
		}
		if err := course.ApplyDiscount(discount); err != nil {
			return err
		}
		if status != "" {
			course.Status = status
		}
		return q.UpdateCourse(ctx, course)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"course_id":  id,
		"discount":   course.Discount.String(),
		"real_price": course.RealPrice.StringFixed(models.MoneyPlaces),
	}).Info("Course updated")
	return course, nil
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.store.ListCourses(ctx)
}

func (s *CatalogService) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.store.GetCourse(ctx, id)
}
