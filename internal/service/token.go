package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"accountd/internal/cache"
	"accountd/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// 測試可覆寫的函式變數
var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
	newTokenID      = uuid.NewString
)

const (
	// AccessTokenTTL 存取令牌有效期
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL 更新令牌有效期
	RefreshTokenTTL = 7 * 24 * time.Hour

	// maxRefreshTokensPerUser 單一使用者可同時持有的 refresh token 上限
	maxRefreshTokensPerUser = 5
)

// CustomClaims 定義存取令牌 JWT 負載內容
type CustomClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims 定義更新令牌 JWT 負載內容，ID (jti) 為撤銷依據
type RefreshClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenPair 一組存取與更新令牌
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func refreshSetKey(userID string) string {
	return "refresh:" + userID
}

func accessSecret() (string, error) {
	secret := os.Getenv("JWT_ACCESS_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_ACCESS_SECRET not set")
	}
	return secret, nil
}

func refreshSecret() (string, error) {
	secret := os.Getenv("JWT_REFRESH_SECRET")
	if secret == "" {
		return "", fmt.Errorf("JWT_REFRESH_SECRET not set")
	}
	return secret, nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生存取令牌 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret, err := accessSecret()
	if err != nil {
		return "", err
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccessToken 驗證並解析存取令牌
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret, err := accessSecret()
	if err != nil {
		return nil, err
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}

// IssueRefreshToken 產生更新令牌並將其 jti 記入使用者的有效集合
// 更新令牌與存取令牌使用不同的簽章密鑰
func IssueRefreshToken(ctx context.Context, c cache.Cache, user model.User, ttl time.Duration) (string, error) {
	secret, err := refreshSecret()
	if err != nil {
		return "", err
	}

	now := timeNow()
	jti := newTokenID()
	claims := RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	key := refreshSetKey(user.ID)
	if err := c.SAdd(ctx, key, jti).Err(); err != nil {
		return "", err
	}
	// 集合壽命跟隨最後簽發的 token
	if err := c.Expire(ctx, key, ttl).Err(); err != nil {
		return "", err
	}
	return tokenString, nil
}

// parseRefreshToken 僅驗證簽章與效期，不查撤銷集合
func parseRefreshToken(tokenString string) (*RefreshClaims, error) {
	secret, err := refreshSecret()
	if err != nil {
		return nil, err
	}

	token, err := parseWithClaims(tokenString, &RefreshClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, model.ErrInvalidToken
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, model.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefreshToken 驗證更新令牌簽章、效期與撤銷狀態
// jti 不在使用者有效集合內時回傳 model.ErrTokenRevoked
func VerifyRefreshToken(ctx context.Context, c cache.Cache, tokenString string) (*RefreshClaims, error) {
	claims, err := parseRefreshToken(tokenString)
	if err != nil {
		return nil, err
	}

	ok, err := c.SIsMember(ctx, refreshSetKey(claims.UserID), claims.ID).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrTokenRevoked
	}
	return claims, nil
}

// RevokeRefreshToken 撤銷單一更新令牌
func RevokeRefreshToken(ctx context.Context, c cache.Cache, userID, jti string) error {
	return c.SRem(ctx, refreshSetKey(userID), jti).Err()
}

// RevokeAllRefreshTokens 撤銷使用者所有更新令牌
func RevokeAllRefreshTokens(ctx context.Context, c cache.Cache, userID string) error {
	return c.Del(ctx, refreshSetKey(userID)).Err()
}

// IssueTokenPair 簽發一組存取與更新令牌
func IssueTokenPair(ctx context.Context, c cache.Cache, user model.User) (*TokenPair, error) {
	accessToken, err := IssueAccessToken(user, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := IssueRefreshToken(ctx, c, user, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// TrimRefreshTokens 將使用者有效集合裁剪至上限內，超額的成員隨機淘汰
func TrimRefreshTokens(ctx context.Context, c cache.Cache, userID string) error {
	key := refreshSetKey(userID)
	n, err := c.SCard(ctx, key).Result()
	if err != nil {
		return err
	}
	if n <= maxRefreshTokensPerUser {
		return nil
	}
	return c.SPopN(ctx, key, n-maxRefreshTokensPerUser).Err()
}
