package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pathwise/pathwise/internal/model"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrProfileNotFound = errors.New("profile not found")
	ErrQuotaExceeded   = errors.New("daily generation quota exceeded")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ConsumeGenerationQuota(userID string, now time.Time) error
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, daily_generation_count, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, user.ID, user.Email, user.PasswordHash, user.DailyGenerationCount, user.CreatedAt)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

// ConsumeGenerationQuota claims one story generation for today in a
// single conditional UPDATE. A new calendar day resets the counter to 1;
// the same day increments it only while it is under the limit. The
// WHERE clause makes the check-and-increment atomic at the storage
// layer, so concurrent requests cannot both slip past the ceiling.
// Zero rows affected means the quota is spent.
func (r *userRepository) ConsumeGenerationQuota(userID string, now time.Time) error {
	day := now.Format("2006-01-02")

	query := `UPDATE users
	          SET daily_generation_count = CASE
	                  WHEN last_generation_day = $2 THEN daily_generation_count + 1
	                  ELSE 1
	              END,
	              last_generation_at = $3,
	              last_generation_day = $2
	          WHERE id = $1
	            AND (last_generation_day IS NULL
	                 OR last_generation_day <> $2
	                 OR daily_generation_count < $4)`

	result, err := r.db.Exec(query, userID, day, now, model.DailyGenerationLimit)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrQuotaExceeded
	}

	return nil
}

func (r *userRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
