package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	root := t.TempDir()

	entries, err := Read(root)
	require.NoError(t, err)
	assert.Nil(t, entries)

	first := Entry{
		Timestamp: time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		Actor:     "clerk",
		Action:    "import",
		Details:   "january.xlsx (Central)",
		BatchID:   "2024-01-001",
	}
	require.NoError(t, Append(root, []Entry{first}))
	require.NoError(t, Append(root, []Entry{{
		Timestamp: time.Date(2024, 1, 15, 9, 31, 0, 0, time.UTC),
		Actor:     "clerk",
		Action:    "report",
		Details:   "monthly balances 2024-01",
	}}))

	entries, err = Read(root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, "report", entries[1].Action)
}

func TestUnmarshalEntry_BadRow(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "short"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"not-a-time", "a", "b", "c", "d"})
	assert.Error(t, err)
}
