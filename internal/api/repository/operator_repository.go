package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"ctchen222/LLM-Arena/internal/api/models"
)

// OperatorRepository defines the interface for operator data operations.
type OperatorRepository interface {
	CreateOperator(ctx context.Context, operator *models.Operator, password string) error
	GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error)
}

type sqliteOperatorRepository struct {
	db *sqlx.DB
}

// NewOperatorRepository creates a new SQLite-based OperatorRepository.
func NewOperatorRepository(db *sqlx.DB) OperatorRepository {
	return &sqliteOperatorRepository{db: db}
}

// CreateOperator hashes the password and inserts a new operator.
func (r *sqliteOperatorRepository) CreateOperator(ctx context.Context, operator *models.Operator, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	operator.PasswordHash = string(hashedPassword)

	query := `INSERT INTO operators (username, password_hash) VALUES (?, ?)`
	_, err = r.db.ExecContext(ctx, query, operator.Username, operator.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

// GetOperatorByUsername retrieves an operator by username.
func (r *sqliteOperatorRepository) GetOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	var operator models.Operator
	query := `SELECT id, username, password_hash FROM operators WHERE username = ?`
	err := r.db.GetContext(ctx, &operator, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No operator found is not an application error
		}
		return nil, fmt.Errorf("failed to get operator by username: %w", err)
	}
	return &operator, nil
}
