package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"landscaping/internal/domain"
)

// Store bundles the repositories over one gorm handle, either the pool or an open transaction.
type Store struct {
	db *gorm.DB

	Clients  *ClientRepository
	Crews    *CrewRepository
	Members  *MemberRepository
	Jobs     *JobRepository
	Tasks    *TaskRepository
	Quotes   *QuoteRepository
	Payments *PaymentRepository
	Reports  *ReportRepository
}

// NewStore creates a store over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Clients:  &ClientRepository{db: db},
		Crews:    &CrewRepository{db: db},
		Members:  &MemberRepository{db: db},
		Jobs:     &JobRepository{db: db},
		Tasks:    &TaskRepository{db: db},
		Quotes:   &QuoteRepository{db: db},
		Payments: &PaymentRepository{db: db},
		Reports:  &ReportRepository{db: db},
	}
}

// Atomic runs fn inside a single transaction. Every repository reachable from the Store passed
// to fn is bound to that transaction; returning an error rolls everything back.
func (s *Store) Atomic(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// forUpdate locks the selected rows until the transaction ends. SQLite ignores the clause;
// there the single-connection pool serializes writers instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translate maps storage errors onto domain error kinds.
func translate(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(entity, id)
	}
	if isConstraintError(err) {
		return &domain.ConflictError{Entity: entity, ID: id, Reason: domain.ReasonConstraint}
	}
	return fmt.Errorf("%s %d: %w", entity, id, err)
}

func isConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 foreign_key_violation, 23505 unique_violation
		return pgErr.Code == "23503" || pgErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key constraint failed") ||
		strings.Contains(msg, "unique constraint failed")
}
