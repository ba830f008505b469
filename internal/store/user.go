package store

import (
	"context"
	"errors"
	"fmt"

	"accountd/internal/database"
	"accountd/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, username, password_hash, first_name, last_name,
	 role, is_active, last_login, created_at, updated_at`

// uniqueViolation PostgreSQL unique_violation 錯誤碼
const uniqueViolation = "23505"

// mapUniqueViolation 依違反的唯一索引名稱轉為對應的重複錯誤
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return model.ErrEmailTaken
		case "users_username_key":
			return model.ErrUsernameTaken
		}
	}
	return err
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func GetUserByUsername(ctx context.Context, db database.DB, username string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("GetUserByUsername: %w", err)
	}
	return u, nil
}

// CreateUser 寫入新使用者；email / username 重複由唯一索引攔截並
// 轉為 model.ErrEmailTaken / model.ErrUsernameTaken
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	u.ID = uuid.NewString()
	row := db.QueryRow(ctx,
		`INSERT INTO users (id, email, username, password_hash, first_name, last_name, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Role,
		u.IsActive,
	)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// UpdateUserProfile 僅更新姓名與 Email（允許清單），並刷新 updated_at
func UpdateUserProfile(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`UPDATE users
		 SET email = $1, first_name = $2, last_name = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING `+userColumns,
		u.Email,
		u.FirstName,
		u.LastName,
		u.ID,
	)
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, err
		}
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("UpdateUserProfile: %w", err)
	}
	return updated, nil
}

func UpdateUserPassword(ctx context.Context, db database.DB, userID string, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, updated_at = now()
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	return nil
}

// RecordLogin 紀錄最近一次成功登入時間
func RecordLogin(ctx context.Context, db database.DB, userID string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET last_login = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("RecordLogin: %w", err)
	}
	return nil
}

// SetUserActive 啟用或停用帳號（軟停用，不做實體刪除）
func SetUserActive(ctx context.Context, db database.DB, userID string, active bool) error {
	tag, err := db.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2`,
		active,
		userID,
	)
	if err != nil {
		return fmt.Errorf("SetUserActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
