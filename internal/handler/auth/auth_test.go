package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/middleware"
	"accountd/internal/model"
	"accountd/internal/service"
	"accountd/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restoreAuthGlobals() {
	registerUser = service.RegisterUser
	loginUser = service.LoginUser
	rotateRefreshPair = service.RotateRefreshPair
	logoutUser = service.Logout
	trimRefreshTokens = service.TrimRefreshTokens
}

// helper to build echo context
func newAuthCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

// syncPool 同步執行提交的任務，便於斷言
type syncPool struct {
	mu        sync.Mutex
	submitted int
}

func (p *syncPool) Submit(t worker.Task) {
	p.mu.Lock()
	p.submitted++
	p.mu.Unlock()
	if t != nil {
		t()
	}
}

func (p *syncPool) Stop() {}

func TestRegisterHandler(t *testing.T) {
	t.Cleanup(restoreAuthGlobals)
	sampleUser := &model.User{ID: "u1", Email: "jane@x.com", Username: "jane", FirstName: "Jane", LastName: "Doe", Role: model.RoleUser, IsActive: true}
	samplePair := &service.TokenPair{AccessToken: "at", RefreshToken: "rt"}
	wp := &syncPool{}
	trimRefreshTokens = func(context.Context, cache.Cache, string) error { return nil }

	// bind error
	e := echo.New()
	e.Binder = errBinder{}
	ctx, rec := newAuthCtx(e, "")
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// validate error
	e = echo.New()
	e.Validator = errValidator{}
	ctx, rec = newAuthCtx(e, `{}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// service validation error
	e = echo.New()
	e.Validator = okValidator{}
	registerUser = func(context.Context, database.DB, cache.Cache, service.RegisterParams) (*model.User, *service.TokenPair, error) {
		return nil, nil, &service.ValidationError{Reason: "passwords do not match"}
	}
	ctx, rec = newAuthCtx(e, `{"name":"Jane","email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "passwords do not match")

	// duplicate email
	registerUser = func(context.Context, database.DB, cache.Cache, service.RegisterParams) (*model.User, *service.TokenPair, error) {
		return nil, nil, model.ErrEmailTaken
	}
	ctx, rec = newAuthCtx(e, `{"name":"Jane","email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusConflict, rec.Code)

	// duplicate username
	registerUser = func(context.Context, database.DB, cache.Cache, service.RegisterParams) (*model.User, *service.TokenPair, error) {
		return nil, nil, model.ErrUsernameTaken
	}
	ctx, rec = newAuthCtx(e, `{"name":"Jane","email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusConflict, rec.Code)

	// internal error
	registerUser = func(context.Context, database.DB, cache.Cache, service.RegisterParams) (*model.User, *service.TokenPair, error) {
		return nil, nil, errors.New("db down")
	}
	ctx, rec = newAuthCtx(e, `{"name":"Jane","email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success
	registerUser = func(_ context.Context, _ database.DB, _ cache.Cache, p service.RegisterParams) (*model.User, *service.TokenPair, error) {
		require.Equal(t, "jane@x.com", p.Email)
		return sampleUser, samplePair, nil
	}
	before := wp.submitted
	ctx, rec = newAuthCtx(e, `{"name":"Jane Doe","email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, RegisterHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), "access_token")
	require.Contains(t, rec.Body.String(), "refresh_token")
	require.NotContains(t, rec.Body.String(), "password")
	require.Equal(t, before+1, wp.submitted)
}

func TestLoginHandler(t *testing.T) {
	t.Cleanup(restoreAuthGlobals)
	sampleUser := &model.User{ID: "u1", Email: "jane@x.com", Username: "jane", Role: model.RoleUser, IsActive: true}
	samplePair := &service.TokenPair{AccessToken: "at", RefreshToken: "rt"}
	wp := &syncPool{}
	trimRefreshTokens = func(context.Context, cache.Cache, string) error { return nil }

	// bind error
	e := echo.New()
	e.Binder = errBinder{}
	ctx, rec := newAuthCtx(e, "")
	require.NoError(t, LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// validate error
	e = echo.New()
	e.Validator = errValidator{}
	ctx, rec = newAuthCtx(e, `{}`)
	require.NoError(t, LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid credentials：錯誤訊息不可洩漏失敗原因
	e = echo.New()
	e.Validator = okValidator{}
	loginUser = func(context.Context, database.DB, cache.Cache, string, string) (*model.User, *service.TokenPair, error) {
		return nil, nil, model.ErrInvalidCredentials
	}
	ctx, rec = newAuthCtx(e, `{"email":"jane@x.com","password":"bad"}`)
	require.NoError(t, LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid credentials")

	// internal error
	loginUser = func(context.Context, database.DB, cache.Cache, string, string) (*model.User, *service.TokenPair, error) {
		return nil, nil, errors.New("db down")
	}
	ctx, rec = newAuthCtx(e, `{"email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success
	loginUser = func(_ context.Context, _ database.DB, _ cache.Cache, email, password string) (*model.User, *service.TokenPair, error) {
		require.Equal(t, "jane@x.com", email)
		require.Equal(t, "secret1", password)
		return sampleUser, samplePair, nil
	}
	before := wp.submitted
	ctx, rec = newAuthCtx(e, `{"email":"jane@x.com","password":"secret1"}`)
	require.NoError(t, LoginHandler(&database.FakeDB{}, &cache.FakeCache{}, wp)(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "access_token")
	require.Equal(t, before+1, wp.submitted)
}

func TestRefreshHandler(t *testing.T) {
	t.Cleanup(restoreAuthGlobals)
	samplePair := &service.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}

	// bind error
	e := echo.New()
	e.Binder = errBinder{}
	ctx, rec := newAuthCtx(e, "")
	require.NoError(t, RefreshHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid token
	e = echo.New()
	e.Validator = okValidator{}
	rotateRefreshPair = func(context.Context, database.DB, cache.Cache, string) (*service.TokenPair, error) {
		return nil, model.ErrInvalidToken
	}
	ctx, rec = newAuthCtx(e, `{"refresh_token":"bad"}`)
	require.NoError(t, RefreshHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// revoked token（重放）
	rotateRefreshPair = func(context.Context, database.DB, cache.Cache, string) (*service.TokenPair, error) {
		return nil, model.ErrTokenRevoked
	}
	ctx, rec = newAuthCtx(e, `{"refresh_token":"used"}`)
	require.NoError(t, RefreshHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "revoked")

	// user gone or deactivated
	rotateRefreshPair = func(context.Context, database.DB, cache.Cache, string) (*service.TokenPair, error) {
		return nil, model.ErrInvalidCredentials
	}
	ctx, rec = newAuthCtx(e, `{"refresh_token":"tok"}`)
	require.NoError(t, RefreshHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// internal error
	rotateRefreshPair = func(context.Context, database.DB, cache.Cache, string) (*service.TokenPair, error) {
		return nil, errors.New("redis down")
	}
	ctx, rec = newAuthCtx(e, `{"refresh_token":"tok"}`)
	require.NoError(t, RefreshHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success
	rotateRefreshPair = func(_ context.Context, _ database.DB, _ cache.Cache, tok string) (*service.TokenPair, error) {
		require.Equal(t, "tok", tok)
		return samplePair, nil
	}
	ctx, rec = newAuthCtx(e, `{"refresh_token":"tok"}`)
	require.NoError(t, RefreshHandler(&database.FakeDB{}, &cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "at2")
	require.Contains(t, rec.Body.String(), "rt2")
}

func TestLogoutHandler(t *testing.T) {
	t.Cleanup(restoreAuthGlobals)
	claims := &service.CustomClaims{UserID: "u1", Role: string(model.RoleUser)}

	// missing claims
	e := echo.New()
	ctx, rec := newAuthCtx(e, `{}`)
	require.NoError(t, LogoutHandler(&cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// bind error
	e = echo.New()
	e.Binder = errBinder{}
	ctx, rec = newAuthCtx(e, "")
	ctx.Set(middleware.ContextUserKey, claims)
	require.NoError(t, LogoutHandler(&cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid token
	e = echo.New()
	logoutUser = func(context.Context, cache.Cache, string, string) error { return model.ErrInvalidToken }
	ctx, rec = newAuthCtx(e, `{"refresh_token":"someone-elses"}`)
	ctx.Set(middleware.ContextUserKey, claims)
	require.NoError(t, LogoutHandler(&cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// internal error
	logoutUser = func(context.Context, cache.Cache, string, string) error { return errors.New("redis down") }
	ctx, rec = newAuthCtx(e, `{}`)
	ctx.Set(middleware.ContextUserKey, claims)
	require.NoError(t, LogoutHandler(&cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// success：未帶 token 時撤銷全部
	revokedAll := false
	logoutUser = func(_ context.Context, _ cache.Cache, userID, tok string) error {
		require.Equal(t, "u1", userID)
		require.Empty(t, tok)
		revokedAll = true
		return nil
	}
	ctx, rec = newAuthCtx(e, `{}`)
	ctx.Set(middleware.ContextUserKey, claims)
	require.NoError(t, LogoutHandler(&cache.FakeCache{})(ctx))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, revokedAll)
}
