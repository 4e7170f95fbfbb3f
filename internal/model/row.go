package model

import "github.com/shopspring/decimal"

// HierarchyRow is a parsed spreadsheet row from the revenue/use sheet:
// a type-level identifier like "1_2_03_05", its display name, and the
// period amount.
type HierarchyRow struct {
	Identifier string
	Name       string
	Amount     decimal.Decimal
}

// AccountRow is a parsed spreadsheet row from the financial-accounts
// sheet: independent debit and credit running totals for a named account.
type AccountRow struct {
	Name   string
	Debit  decimal.Decimal
	Credit decimal.Decimal
}
