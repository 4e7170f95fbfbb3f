package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Header is the CSV header for exported balance reports.
const Header = "key,label,level,opening_debit,opening_credit,period_debit,period_credit,total_debit,total_credit,closing_debit,closing_credit"

const numFields = 11

// WriteRows writes a balance report to w as CSV, header included. This
// feeds the printable-report layer and spreadsheet re-export.
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[0] = row.Key
	rec[1] = row.Label
	rec[2] = string(row.Level)
	rec[3] = row.Opening.Debit.StringFixed(2)
	rec[4] = row.Opening.Credit.StringFixed(2)
	rec[5] = row.Movement.Debit.StringFixed(2)
	rec[6] = row.Movement.Credit.StringFixed(2)
	rec[7] = row.Total.Debit.StringFixed(2)
	rec[8] = row.Total.Credit.StringFixed(2)
	rec[9] = row.Closing.Debit.StringFixed(2)
	rec[10] = row.Closing.Credit.StringFixed(2)
	return rec
}
