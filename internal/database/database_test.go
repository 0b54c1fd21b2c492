package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaping/internal/domain"
)

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"landscaping.db", "file:landscaping.db?_pragma=foreign_keys(1)&_time_format=sqlite"},
		{":memory:", "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite"},
		{"file:x?mode=memory&cache=shared", "file:x?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite"},
		{"file:y?_pragma=foreign_keys(1)&_time_format=sqlite", "file:y?_pragma=foreign_keys(1)&_time_format=sqlite"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.in), tt.in)
	}
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("landscaping.db"))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect("file:migrate_test?mode=memory&cache=shared", Options{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasColumn(&domain.Job{}, "on_my_way_sent_at"))
	assert.True(t, db.Migrator().HasColumn(&domain.Quote{}, "job_id"))

	// a second run only adds what is missing
	require.NoError(t, Migrate(db))
}
