package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	*pgQueries
	db *sqlx.DB
}

type pgQueries struct {
	q sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *PGStore {
	return &PGStore{pgQueries: &pgQueries{q: db}, db: db}
}

func (s *PGStore) InTx(ctx context.Context, fn func(q Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgQueries{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		if conflict := IsUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *pgQueries) get(ctx context.Context, dest interface{}, what string, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, p.q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	return nil
}

func (p *pgQueries) exec(ctx context.Context, what string, query string, args ...interface{}) error {
	res, err := p.q.ExecContext(ctx, query, args...)
	if err != nil {
		if conflict := IsUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func (p *pgQueries) count(ctx context.Context, what string, query string, args ...interface{}) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, p.q, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", what, err)
	}
	return n, nil
}

// whereBuilder collects filter clauses. Each "?" in a clause is replaced by
// the numbered placeholder of its single argument.
type whereBuilder struct {
	clauses string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses += " AND " + strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args)))
}
