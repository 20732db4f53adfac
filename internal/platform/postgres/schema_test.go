package postgres

import (
	"regexp"
	"strings"
	"testing"

	"github.com/arcana-app/arcana-api/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableColumns extracts the column names declared in one CREATE TABLE block
// of the migration DDL.
func tableColumns(t *testing.T, ddl, table string) []string {
	t.Helper()

	block := regexp.MustCompile(`(?s)CREATE TABLE ` + table + ` \((.*?)\);`).FindStringSubmatch(ddl)
	require.NotNil(t, block, "missing CREATE TABLE %s", table)

	var columns []string
	for _, line := range strings.Split(block[1], "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 0 {
			continue
		}
		name := strings.ToLower(fields[0])
		if name == "primary" || name == "unique" || name == "constraint" || name == "check" {
			continue
		}
		columns = append(columns, name)
	}
	return columns
}

// TestMigrationCoversStoreColumns pins the embedded DDL to the columns the
// store SQL reads and writes. A store statement referencing a column the
// migration does not create fails here instead of at runtime.
func TestMigrationCoversStoreColumns(t *testing.T) {
	t.Parallel() // Enable parallel execution

	raw, err := migrations.FS.ReadFile("00001_create_engine_tables.sql")
	require.NoError(t, err)
	ddl := string(raw)

	testCases := []struct {
		table   string
		columns []string
	}{
		{
			table:   "progression_entries",
			columns: []string{"user_id", "deck_id", "card_number", "level", "next_due_at", "created_at", "updated_at"},
		},
		{
			table:   "mastery_records",
			columns: []string{"user_id", "deck_id", "card_number", "mastered_at"},
		},
		{
			table:   "owned_cards",
			columns: []string{"user_id", "deck_id", "card_number", "rarity", "copies", "acquired_at"},
		},
		{
			table:   "reward_streaks",
			columns: []string{"user_id", "kind", "consecutive_days", "last_open_at"},
		},
		{
			table:   "currency_accounts",
			columns: []string{"user_id", "balance", "updated_at"},
		},
		{
			table:   "booster_opens",
			columns: []string{"user_id", "idempotency_key", "kind", "result", "opened_at"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.table, func(t *testing.T) {
			t.Parallel()
			got := tableColumns(t, ddl, tc.table)
			for _, column := range tc.columns {
				assert.Contains(t, got, column,
					"%s is missing column %s referenced by the store", tc.table, column)
			}
		})
	}
}
