package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RecordContract(t *testing.T) {
	runRecordStoreContract(t, newTestSQLiteStore(t))
}

func TestSQLiteStore_TimerContract(t *testing.T) {
	runTimerRegistryContract(t, newTestSQLiteStore(t))
}
