package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/model"
	"accountd/internal/store"
)

// 測試可覆寫的函式變數
var (
	getUserByEmail    = store.GetUserByEmail
	getUserByID       = store.GetUserByID
	createUser        = store.CreateUser
	updateUserProfile = store.UpdateUserProfile
	recordLogin       = store.RecordLogin
)

// MinPasswordLength 註冊密碼長度下限
const MinPasswordLength = 6

// ValidationError 表示呼叫端可修正的輸入錯誤
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// normalizeEmail 轉小寫並檢查格式；僅接受裸位址，
// name-addr 形式（如 "jane <jane@x.com>"）一律拒絕
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationErrorf("invalid email format")
	}
	return email, nil
}

// AuthenticateUser 依明文密碼驗證使用者；停用帳號與密碼錯誤一律回傳
// model.ErrInvalidCredentials，不洩漏失敗原因
func AuthenticateUser(ctx context.Context, user model.User, password string) error {
	if !user.IsActive {
		return model.ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return model.ErrInvalidCredentials
	}
	return nil
}

// RegisterParams 註冊輸入欄位
type RegisterParams struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
}

// RegisterUser 建立新帳號並簽發令牌
// 所有輸入檢查皆在任何寫入之前完成；email/username 重複由資料庫唯一索引把關
func RegisterUser(ctx context.Context, db database.DB, c cache.Cache, p RegisterParams) (*model.User, *TokenPair, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, nil, validationErrorf("name is required")
	}
	if len(p.Password) < MinPasswordLength {
		return nil, nil, validationErrorf("password must be at least %d characters", MinPasswordLength)
	}
	if p.ConfirmPassword != "" && p.ConfirmPassword != p.Password {
		return nil, nil, validationErrorf("passwords do not match")
	}

	email, err := normalizeEmail(p.Email)
	if err != nil {
		return nil, nil, err
	}

	// username 未提供時取 email local-part
	username := strings.TrimSpace(p.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, nil, err
	}

	first, last := model.SplitName(p.Name)
	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	user, err = createUser(ctx, db, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := IssueTokenPair(ctx, c, *user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// LoginUser 驗證憑證並簽發令牌；查無帳號、帳號停用、密碼錯誤一律回傳
// model.ErrInvalidCredentials
func LoginUser(ctx context.Context, db database.DB, c cache.Cache, email, password string) (*model.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := getUserByEmail(ctx, db, email)
	if err != nil {
		return nil, nil, model.ErrInvalidCredentials
	}
	if err := AuthenticateUser(ctx, *user, password); err != nil {
		return nil, nil, err
	}

	if err := recordLogin(ctx, db, user.ID); err != nil {
		return nil, nil, err
	}
	now := timeNow()
	user.LastLogin = &now

	pair, err := IssueTokenPair(ctx, c, *user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// UpdateProfileParams 個人資料更新欄位，空字串代表不更動
type UpdateProfileParams struct {
	Name  string
	Email string
}

// UpdateProfile 更新姓名與 Email；role 與密碼不在允許清單內
func UpdateProfile(ctx context.Context, db database.DB, userID string, p UpdateProfileParams) (*model.User, error) {
	user, err := getUserByID(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	if p.Name != "" {
		user.FirstName, user.LastName = model.SplitName(p.Name)
	}
	if p.Email != "" {
		email, err := normalizeEmail(p.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}

	return updateUserProfile(ctx, db, user)
}

// Logout 撤銷單一更新令牌，tokenString 為空時撤銷全部
func Logout(ctx context.Context, c cache.Cache, userID, tokenString string) error {
	if tokenString == "" {
		return RevokeAllRefreshTokens(ctx, c, userID)
	}
	claims, err := parseRefreshToken(tokenString)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return model.ErrInvalidToken
	}
	return RevokeRefreshToken(ctx, c, userID, claims.ID)
}

// RotateRefreshPair 驗證並輪替更新令牌：舊 jti 立即失效、簽發新的一組
// 重放已消耗的令牌回傳 model.ErrTokenRevoked
func RotateRefreshPair(ctx context.Context, db database.DB, c cache.Cache, tokenString string) (*TokenPair, error) {
	claims, err := VerifyRefreshToken(ctx, c, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := getUserByID(ctx, db, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}

	if err := RevokeRefreshToken(ctx, c, claims.UserID, claims.ID); err != nil {
		return nil, err
	}
	return IssueTokenPair(ctx, c, *user)
}
