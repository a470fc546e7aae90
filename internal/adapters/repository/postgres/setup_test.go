package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/countryvotes/internal/testutil"
)

// newTestDB starts a fresh migrated database that is torn down with the test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := testutil.NewPostgres(t)
	require.NoError(t, Migrate(context.Background(), db, Up))
	return db
}
