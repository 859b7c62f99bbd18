package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	migrations "github.com/dropDatabas3/clientdesk/migrations/postgres"
)

func TestParseMigrations_Embedded(t *testing.T) {
	t.Parallel()

	m := NewMigrator(migrations.FS, migrations.Dir)
	migs, err := m.ParseMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migs)

	// Ordenadas y con versiones estrictamente crecientes.
	last := 0
	for _, mig := range migs {
		require.Greater(t, mig.Version, last)
		require.NotEmpty(t, mig.Name)
		require.NotEmpty(t, mig.SQL)
		last = mig.Version
	}

	require.Equal(t, 1, migs[0].Version)
	require.Equal(t, "init", migs[0].Name)
}

func TestMigrationFilePattern(t *testing.T) {
	t.Parallel()

	cases := []struct {
		file string
		ok   bool
	}{
		{"0001_init.sql", true},
		{"0002_add_indexes.sql", true},
		{"12_corto.sql", true},
		{"notas.txt", false},
		{"init.sql", false},
		{"0001_init.sql.bak", false},
	}
	for _, tc := range cases {
		got := migrationFilePattern.MatchString(tc.file)
		require.Equal(t, tc.ok, got, tc.file)
	}
}
