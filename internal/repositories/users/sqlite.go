package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/salesdash-be/internal/database"
	"github.com/isdelr/salesdash-be/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = "id, company_name, username, email, password_hash, is_active, created_at, updated_at"

type SQLiteRepository struct {
	db database.DBTX
}

func NewSQLiteRepository(db database.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts user and assigns its ID. A conflict on the active-user
// unique indexes is reported as ErrDuplicateUsername or ErrDuplicateEmail.
func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query :=
		`INSERT INTO users (company_name, username, email, password_hash, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		user.CompanyName, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return 0, mapConstraintError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if n > 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		user.ID = id
	}
	return n, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *SQLiteRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *SQLiteRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *SQLiteRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE is_active = 1 ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) (int64, error) {
	return r.exec(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ? AND is_active = 1",
		passwordHash, updatedAt, id)
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, id int64, companyName, email string, updatedAt time.Time) (int64, error) {
	return r.exec(ctx,
		"UPDATE users SET company_name = ?, email = ?, updated_at = ? WHERE id = ? AND is_active = 1",
		companyName, email, updatedAt, id)
}

func (r *SQLiteRepository) Deactivate(ctx context.Context, id int64, updatedAt time.Time) (int64, error) {
	return r.exec(ctx,
		"UPDATE users SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1",
		updatedAt, id)
}

// --- helpers below ---

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner, u *models.User) error {
	return s.Scan(&u.ID, &u.CompanyName, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func (r *SQLiteRepository) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where + " AND is_active = 1"

	user := &models.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, arg), user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) exists(ctx context.Context, where string, arg any) (bool, error) {
	query := "SELECT COUNT(*) FROM users WHERE " + where + " AND is_active = 1"

	var n int64
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapConstraintError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// mapConstraintError turns a UNIQUE violation on the username or email
// index into the matching sentinel. SQLite names the column in the message,
// e.g. "UNIQUE constraint failed: users.email".
func mapConstraintError(err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && isUniqueViolation(serr) {
		msg := serr.Error()
		switch {
		case strings.Contains(msg, "users.username"):
			return ErrDuplicateUsername
		case strings.Contains(msg, "users.email"):
			return ErrDuplicateEmail
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// isUniqueViolation accepts both the extended result code and the primary
// SQLITE_CONSTRAINT code paired with the UNIQUE message.
func isUniqueViolation(serr *sqlite.Error) bool {
	code := serr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(serr.Error(), "UNIQUE constraint failed")
}
