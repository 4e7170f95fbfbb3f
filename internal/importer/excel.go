package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/diwan-dev/diwan/internal/model"
)

// identifierPattern matches underscore-delimited numeric identifiers
// like "1_2_03_05". Anything else in the first column is treated as a
// label or header row and ignored.
var identifierPattern = regexp.MustCompile(`^\d+(_\d+)+$`)

const (
	colIdentifier = 0
	colName       = 1
	colAmount     = 2

	colAccount = 0
	colDebit   = 1
	colCredit  = 2
)

// HierarchyParser reads the revenue/use sheet: one row per type-level
// identifier with its display name and period amount.
type HierarchyParser struct{}

// Format returns the parser name.
func (p *HierarchyParser) Format() string { return "hierarchy" }

// Parse reads the first sheet of an Excel workbook. Rows whose first
// column is not a hierarchy identifier are ignored; rows with a
// non-numeric amount are counted as skipped, not fatal.
func (p *HierarchyParser) Parse(r io.Reader) (*ParseResult, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return nil, err
	}

	res := &ParseResult{}
	for _, row := range rows {
		identifier := cell(row, colIdentifier)
		if !identifierPattern.MatchString(identifier) {
			continue
		}
		amount, err := decimal.NewFromString(cell(row, colAmount))
		if err != nil {
			res.Skipped++
			continue
		}
		res.Hierarchy = append(res.Hierarchy, model.HierarchyRow{
			Identifier: identifier,
			Name:       cell(row, colName),
			Amount:     amount,
		})
	}
	return res, nil
}

// AccountsParser reads the financial-accounts sheet: one row per account
// name with independent debit and credit totals. The first row is the
// header.
type AccountsParser struct{}

// Format returns the parser name.
func (p *AccountsParser) Format() string { return "accounts" }

// Parse reads the first sheet of an Excel workbook.
func (p *AccountsParser) Parse(r io.Reader) (*ParseResult, error) {
	rows, err := sheetRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		rows = rows[1:] // header
	}

	res := &ParseResult{}
	for _, row := range rows {
		name := strings.TrimSpace(cell(row, colAccount))
		if name == "" {
			continue
		}
		debit, derr := sideAmount(cell(row, colDebit))
		credit, cerr := sideAmount(cell(row, colCredit))
		if derr != nil || cerr != nil {
			res.Skipped++
			continue
		}
		res.Accounts = append(res.Accounts, model.AccountRow{
			Name:   name,
			Debit:  debit,
			Credit: credit,
		})
	}
	return res, nil
}

// sideAmount parses one debit/credit cell; an empty cell is zero.
func sideAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// sheetRows opens a workbook and returns the rows of its first sheet.
func sheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// cell returns the trimmed cell at index i, or "" when the row is short.
// excelize trims trailing empty cells from each row.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
