package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type stubRows struct{}

func (stubRows) Close()                                       {}
func (stubRows) Err() error                                   { return nil }
func (stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (stubRows) Next() bool                                   { return false }
func (stubRows) Scan(dest ...any) error                       { return nil }
func (stubRows) Values() ([]any, error)                       { return nil, nil }
func (stubRows) RawValues() [][]byte                          { return nil }
func (stubRows) Conn() *pgx.Conn                              { return nil }

func TestFakeDB(t *testing.T) {
	t.Run("panics when fn unset", func(t *testing.T) {
		db := &FakeDB{}
		require.Panics(t, func() { db.Exec(context.Background(), "", nil) })
		require.Panics(t, func() { db.Query(context.Background(), "") })
		require.Panics(t, func() { db.QueryRow(context.Background(), "") })
		require.Panics(t, func() { db.Ping(context.Background()) })
		// Close 未設定時為 no-op
		db.Close()
	})

	t.Run("delegates to fns", func(t *testing.T) {
		called := map[string]bool{}
		db := &FakeDB{
			ExecFn: func(ctx context.Context, s string, args ...any) (pgconn.CommandTag, error) {
				called["exec"] = true
				return pgconn.CommandTag{}, errors.New("e")
			},
			QueryFn: func(ctx context.Context, s string, args ...any) (pgx.Rows, error) {
				called["query"] = true
				return stubRows{}, nil
			},
			QueryRowFn: func(ctx context.Context, s string, args ...any) pgx.Row {
				called["queryRow"] = true
				return pgx.Row(stubRows{})
			},
			PingFn:  func(ctx context.Context) error { called["ping"] = true; return nil },
			CloseFn: func() { called["close"] = true },
		}

		_, err := db.Exec(context.Background(), "sql")
		require.Error(t, err)
		_, err = db.Query(context.Background(), "sql")
		require.NoError(t, err)
		_ = db.QueryRow(context.Background(), "sql")
		require.NoError(t, db.Ping(context.Background()))
		db.Close()
		for _, k := range []string{"exec", "query", "queryRow", "ping", "close"} {
			require.True(t, called[k], k)
		}
	})
}
