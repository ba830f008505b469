package router

import (
	"net/http"
	"testing"

	"accountd/internal/cache"
	"accountd/internal/database"
	"accountd/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestSetupRoutes(t *testing.T) {
	e := echo.New()
	wp := worker.NewPool(1)
	defer wp.Stop()
	Setup(e, &database.FakeDB{}, &cache.FakeCache{}, wp)

	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}

	expected := []string{
		http.MethodGet + " /api/ping",
		http.MethodPost + " /api/auth/register",
		http.MethodPost + " /api/auth/login",
		http.MethodPost + " /api/auth/refresh",
		http.MethodPost + " /api/auth/logout",
		http.MethodGet + " /api/users/me",
		http.MethodPut + " /api/users/me",
		http.MethodGet + " /api/users/:user_id",
		http.MethodPatch + " /api/users/:user_id/active",
	}

	require.Equal(t, len(expected), len(got))
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}
}
