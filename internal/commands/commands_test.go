package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/diwan-dev/diwan/internal/auditlog"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runCommand(t, "init", dir, "--directorate", "Central")
	require.NoError(t, err)
	return dir
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func TestInit_CreatesWorkspace(t *testing.T) {
	dir := initWorkspace(t)

	for _, d := range []string{"import", filepath.Join("import", "processed"), "logs", "exports"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir())
	}

	data, err := os.ReadFile(filepath.Join(dir, "diwan.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "directorate: Central")

	_, err = os.Stat(filepath.Join(dir, "diwan.db"))
	assert.NoError(t, err, "database should be created")
}

func TestInit_RequiresDirectorate(t *testing.T) {
	_, err := runCommand(t, "init", t.TempDir())
	require.Error(t, err)
}

func TestImport_NoFiles(t *testing.T) {
	dir := initWorkspace(t)
	out, err := runCommand(t, "import", "--config", filepath.Join(dir, "diwan.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "No files to import")
}

func TestImport_UnknownFormat(t *testing.T) {
	dir := initWorkspace(t)
	_, err := runCommand(t, "import",
		"--config", filepath.Join(dir, "diwan.yaml"), "--format", "pdf")
	require.Error(t, err)
}

func TestImportAndReport(t *testing.T) {
	dir := initWorkspace(t)
	cfgPath := filepath.Join(dir, "diwan.yaml")

	writeWorkbook(t, filepath.Join(dir, "import", "january.xlsx"), [][]any{
		{"Identifier", "Name", "Amount"},
		{"1_2_03_05", "Stamp duties", 100},
		{"2_1_01_01", "Salaries", 250},
		{"1_2_03_06", "Fees", "n/a"}, // non-numeric, skipped
	})

	out, err := runCommand(t, "import",
		"--config", cfgPath, "--month", "1", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, "batch 2024-01-001")
	assert.Contains(t, out, "2 entries, 1 skipped")

	// File moved to processed.
	_, err = os.Stat(filepath.Join(dir, "import", "processed", "january.xlsx"))
	assert.NoError(t, err)

	// Audit trail written.
	entries, err := auditlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "import", entries[0].Action)
	assert.Equal(t, "2024-01-001", entries[0].BatchID)

	// CSV export of the hierarchy report.
	csvPath := filepath.Join(dir, "exports", "balances.csv")
	_, err = runCommand(t, "report",
		"--config", cfgPath, "--year", "2024", "--month", "1",
		"--group-by", "hierarchy", "--csv", csvPath)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header plus four levels for each of the two leaves.
	require.Len(t, lines, 9)
	assert.Contains(t, lines[1], "1_2,")
	assert.Contains(t, string(data), "Stamp duties")
	assert.Contains(t, string(data), "Salaries")
}

func TestReport_TableOutput(t *testing.T) {
	dir := initWorkspace(t)
	cfgPath := filepath.Join(dir, "diwan.yaml")

	writeWorkbook(t, filepath.Join(dir, "import", "feb.xlsx"), [][]any{
		{"Account", "Debit", "Credit"},
		{"Cash", 500, ""},
	})
	_, err := runCommand(t, "import",
		"--config", cfgPath, "--format", "accounts", "--month", "2", "--year", "2024")
	require.NoError(t, err)

	out, err := runCommand(t, "report",
		"--config", cfgPath, "--year", "2024", "--month", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Default Office")
	assert.Contains(t, out, "500.00")
}

func TestReport_BadFlags(t *testing.T) {
	dir := initWorkspace(t)
	cfgPath := filepath.Join(dir, "diwan.yaml")

	_, err := runCommand(t, "report", "--config", cfgPath, "--year", "2024", "--group-by", "account")
	require.Error(t, err)

	_, err = runCommand(t, "report", "--config", cfgPath, "--year", "2024", "--class", "capital")
	require.Error(t, err)

	_, err = runCommand(t, "report", "--config", cfgPath, "--year", "2024", "--period", "weekly")
	require.Error(t, err)
}
