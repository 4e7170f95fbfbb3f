package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Flow marks which side of the ledger an entry amount lands on.
// Hierarchy-tagged entries carry a plain period value; flat account
// entries are split into debit and credit rows at ingestion time.
type Flow string

const (
	FlowDebit  Flow = "debit"
	FlowCredit Flow = "credit"
	FlowValue  Flow = "value"
)

// LedgerEntry is one immutable ledger row. Corrections are recorded as
// new entries, never as updates.
type LedgerEntry struct {
	ID            int64
	OfficeID      int64
	DirectorateID int64
	LeafKey       string // hierarchy type id, or empty for account entries
	Account       string // account name, or empty for hierarchy entries
	Flow          Flow
	Amount        decimal.Decimal
	Date          time.Time // first day of the reporting month for imports
	BatchID       string
}

// MonthStart normalizes a date to the first calendar day of its month.
// Imported entries are monthly-bucketed; the opening-balance snapshot for
// a period is the set of entries dated exactly on this day.
func MonthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
