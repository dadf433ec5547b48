package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(files, "sql/*.sql")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sql/000001_init.up.sql", "sql/000001_init.down.sql"}, names)
}

func TestInitMigrationCreatesOpenUsageIndex(t *testing.T) {
	up, err := fs.ReadFile(files, "sql/000001_init.up.sql")
	require.NoError(t, err)

	schema := string(up)
	for _, table := range []string{"adhoc_tickets", "season_tickets", "usage_records"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.True(t, strings.Contains(schema, "WHERE exit_at IS NULL"))
}

func TestInitMigrationScopesSeasonTicketsByCarpark(t *testing.T) {
	up, err := fs.ReadFile(files, "sql/000001_init.up.sql")
	require.NoError(t, err)

	schema := string(up)
	assert.Contains(t, schema, "PRIMARY KEY (carpark_id, id)")
	assert.Contains(t, schema, "FOREIGN KEY (carpark_id, ticket_id)")
	assert.Contains(t, schema, "REFERENCES season_tickets (carpark_id, id) ON DELETE CASCADE")
	assert.Contains(t, schema, "ON usage_records (carpark_id, ticket_id) WHERE exit_at IS NULL")
	assert.NotContains(t, schema, "id          VARCHAR(128) PRIMARY KEY")
}
