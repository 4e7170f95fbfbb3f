package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diwan-dev/diwan/internal/model"
)

func TestWriteRows(t *testing.T) {
	entries := []model.LedgerEntry{
		acctEntry(1, model.FlowDebit, "100", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		acctEntry(1, model.FlowCredit, "40", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	res, err := ComputeBalances(entries, Monthly(2024, 1), Options{GroupBy: GroupByOffice})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteRows(&sb, res.Rows))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Contains(t, lines[1], "100.00")
	assert.Contains(t, lines[1], "60.00")
}
