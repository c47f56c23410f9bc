package repositories

import (
	"context"
	"database/sql"
	"path-route-service/internal/platform/db"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	assert.NoError(t, InitSchema(context.Background(), conn))
}

func TestInitSchemaNilDB(t *testing.T) {
	assert.Error(t, InitSchema(context.Background(), nil))
}

func TestSaveAndLoadPathsKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewSqlitePathRepository(newTestDB(t))

	paths := []string{"Paris,Lyon", "  ", "Lyon,Marseille,Nice", " Berlin,Hamburg "}
	require.NoError(t, repo.SavePaths(ctx, paths))

	got, err := repo.LoadPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris,Lyon", "Lyon,Marseille,Nice", "Berlin,Hamburg"}, got)
}

func TestSavePathsReplacesPreviousList(t *testing.T) {
	ctx := context.Background()
	repo := NewSqlitePathRepository(newTestDB(t))

	require.NoError(t, repo.SavePaths(ctx, []string{"A,B", "C,D", "E,F"}))
	require.NoError(t, repo.SavePaths(ctx, []string{"X,Y"}))

	got, err := repo.LoadPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"X,Y"}, got)

	require.NoError(t, repo.SavePaths(ctx, nil))
	got, err = repo.LoadPaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParameters(t *testing.T) {
	ctx := context.Background()
	repo := NewSqlitePathRepository(newTestDB(t))

	v, err := repo.GetParameter(ctx, "places")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, repo.SetParameter(ctx, "places", "Paris\nLyon"))
	require.NoError(t, repo.SetParameter(ctx, "places", "Paris\nLyon\nNice"))

	v, err = repo.GetParameter(ctx, "places")
	require.NoError(t, err)
	assert.Equal(t, "Paris\nLyon\nNice", v)

	assert.Error(t, repo.SetParameter(ctx, " ", "x"))
}

func TestNilDB(t *testing.T) {
	ctx := context.Background()
	repo := NewSqlitePathRepository(nil)

	_, err := repo.LoadPaths(ctx)
	assert.ErrorIs(t, err, errNilDB)
	assert.ErrorIs(t, repo.SavePaths(ctx, []string{"A,B"}), errNilDB)
}
