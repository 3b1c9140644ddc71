package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const courseColumns = `id, title, description, price, discount, real_price, status, created_at`

func (p *pgQueries) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	c := &Course{}
	return c, p.get(ctx, c, "course", `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
}

func (p *pgQueries) ListCourses(ctx context.Context) ([]*Course, error) {
	var courses []*Course
	if err := sqlx.SelectContext(ctx, p.q, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	return courses, nil
}

func (p *pgQueries) CreateCourse(ctx context.Context, c *Course) error {
	return p.exec(ctx, "create course", `
		INSERT INTO courses (id, title, description, price, discount, real_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Title, c.Description, c.Price, c.Discount, c.RealPrice, c.Status, c.CreatedAt)
}

func (p *pgQueries) UpdateCourse(ctx context.Context, c *Course) error {
	return p.exec(ctx, "update course", `
		UPDATE courses SET title = $1, description = $2, price = $3, discount = $4, real_price = $5, status = $6
		WHERE id = $7
	`, c.Title, c.Description, c.Price, c.Discount, c.RealPrice, c.Status, c.ID)
}
