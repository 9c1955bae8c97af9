package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPending_SortsAndFilters(t *testing.T) {
	files := fstest.MapFS{
		"sql/002_indexes.sql":  {Data: []byte("SELECT 1;")},
		"sql/001_sessions.sql": {Data: []byte("SELECT 1;")},
		"sql/README.md":        {Data: []byte("docs")},
	}

	names, err := Pending(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_sessions.sql", "002_indexes.sql"}, names)
}

func TestPending_Embedded(t *testing.T) {
	names, err := Pending(embedded)
	require.NoError(t, err)
	assert.Contains(t, names, "001_sessions.sql")
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_sessions.sql"))
	assert.Equal(t, "010", Version("sql/010_more.sql"))
}
