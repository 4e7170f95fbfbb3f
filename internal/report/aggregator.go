// Package report computes the four-column running balances (opening,
// period movement, total, closing) behind the printable office and
// revenue/use reports. Aggregation is a pure function of the entry set
// and the requested filters; nothing here holds state between calls.
package report

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/diwan-dev/diwan/internal/hierarchy"
	"github.com/diwan-dev/diwan/internal/model"
)

// GroupBy selects the report shape.
type GroupBy int

const (
	// GroupByOffice produces one row per office (flat account report).
	GroupByOffice GroupBy = iota
	// GroupByHierarchy produces rows for every chapter, section, item and
	// type touched by the entries, with ancestor rollups.
	GroupByHierarchy
)

// Options filter and shape one aggregation call.
type Options struct {
	GroupBy       GroupBy
	OfficeID      int64             // 0 = all offices
	DirectorateID int64             // 0 = all directorates
	Account       string            // "" = all accounts (office report only)
	Class         model.Class       // revenue/use filter (hierarchy report only)
	Labels        map[string]string // optional display names per group key
}

// Columns is one debit/credit pair.
type Columns struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (c Columns) add(o Columns) Columns {
	return Columns{Debit: c.Debit.Add(o.Debit), Credit: c.Credit.Add(o.Credit)}
}

// Row is one computed balance row. Never stored; recomputed per request.
type Row struct {
	Key      string
	Label    string
	Level    model.Level // set for hierarchy rows, empty for office rows
	Opening  Columns
	Movement Columns
	Total    Columns
	Closing  Columns
}

// Result carries the report rows plus the count of entries dropped for
// data-quality reasons (negative amount, unknown flow, underivable key).
type Result struct {
	Rows    []Row
	Skipped int
}

// ComputeBalances aggregates entries over the period window.
//
// Opening is the sum of entries dated exactly on the first day of the
// first month; movement is everything else inside the window; total is
// their sum; closing is the net single-sided balance. Entries outside
// the window are silently excluded so callers may pass a superset.
func ComputeBalances(entries []model.LedgerEntry, period PeriodWindow, opts Options) (Result, error) {
	if len(period.Months) == 0 {
		return Result{}, ErrEmptyPeriod
	}

	switch opts.GroupBy {
	case GroupByHierarchy:
		return aggregateHierarchy(entries, period, opts)
	default:
		return aggregateOffices(entries, period, opts)
	}
}

// bucket accumulates opening and movement for one group key.
type bucket struct {
	opening  Columns
	movement Columns
}

// accumulate adds one in-window entry to the opening or movement half.
// Entries dated exactly on the window start are the opening snapshot;
// everything else inside the window is period movement.
func (b *bucket) accumulate(e model.LedgerEntry, period PeriodWindow) {
	cols := Columns{}
	switch e.Flow {
	case model.FlowCredit:
		cols.Credit = e.Amount
	default:
		// FlowDebit and FlowValue both land on the debit side; hierarchy
		// period values are single-amount entries.
		cols.Debit = e.Amount
	}
	if e.Date.Equal(period.Start()) {
		b.opening = b.opening.add(cols)
	} else {
		b.movement = b.movement.add(cols)
	}
}

// usable filters one entry against the shared options and the window,
// returning (include, skip). skip marks a data-quality drop.
func usable(e model.LedgerEntry, period PeriodWindow, opts Options) (bool, bool) {
	if opts.OfficeID != 0 && e.OfficeID != opts.OfficeID {
		return false, false
	}
	if opts.DirectorateID != 0 && e.DirectorateID != opts.DirectorateID {
		return false, false
	}
	if !period.Contains(e.Date) {
		return false, false
	}
	if e.Amount.IsNegative() {
		return false, true
	}
	switch e.Flow {
	case model.FlowDebit, model.FlowCredit, model.FlowValue:
	default:
		return false, true
	}
	return true, false
}

func finishRow(key, label string, level model.Level, b *bucket) Row {
	total := b.opening.add(b.movement)
	closing := Columns{Debit: decimal.Zero, Credit: decimal.Zero}
	net := total.Debit.Sub(total.Credit)
	switch {
	case net.IsPositive():
		closing.Debit = net
	case net.IsNegative():
		closing.Credit = net.Neg()
	}
	return Row{
		Key:      key,
		Label:    label,
		Level:    level,
		Opening:  b.opening,
		Movement: b.movement,
		Total:    total,
		Closing:  closing,
	}
}

func aggregateOffices(entries []model.LedgerEntry, period PeriodWindow, opts Options) (Result, error) {
	buckets := make(map[int64]*bucket)
	skipped := 0

	for _, e := range entries {
		if opts.Account != "" && e.Account != opts.Account {
			continue
		}
		include, skip := usable(e, period, opts)
		if skip {
			skipped++
		}
		if !include {
			continue
		}
		b, ok := buckets[e.OfficeID]
		if !ok {
			b = &bucket{}
			buckets[e.OfficeID] = b
		}
		b.accumulate(e, period)
	}

	rows := make([]Row, 0, len(buckets))
	for officeID, b := range buckets {
		key := officeKey(officeID)
		label := opts.Labels[key]
		if label == "" {
			label = key
		}
		rows = append(rows, finishRow(key, label, "", b))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return Result{Rows: rows, Skipped: skipped}, nil
}

func officeKey(id int64) string {
	return "office:" + strconv.FormatInt(id, 10)
}

func aggregateHierarchy(entries []model.LedgerEntry, period PeriodWindow, opts Options) (Result, error) {
	type node struct {
		level  model.Level
		parent string
		b      bucket
	}
	nodes := make(map[string]*node)
	skipped := 0

	ensure := func(key string, level model.Level, parent string) *node {
		n, ok := nodes[key]
		if !ok {
			n = &node{level: level, parent: parent}
			nodes[key] = n
		}
		return n
	}

	for _, e := range entries {
		if e.LeafKey == "" {
			// Account-style entry: not part of the hierarchy report.
			continue
		}
		include, skip := usable(e, period, opts)
		if skip {
			skipped++
		}
		if !include {
			continue
		}
		ks, err := hierarchy.DeriveKeys(e.LeafKey)
		if err != nil {
			skipped++
			continue
		}
		if opts.Class != model.ClassUnknown && model.ClassOf(ks.Chapter) != opts.Class {
			continue
		}

		// Every ancestor accumulates the leaf amount: rollups fall out of
		// the bucket structure rather than a second pass.
		ensure(ks.Chapter, model.LevelChapter, "").b.accumulate(e, period)
		if ks.Section != ks.Chapter {
			ensure(ks.Section, model.LevelSection, ks.Chapter).b.accumulate(e, period)
		}
		if ks.Item != ks.Section && ks.Item != ks.Chapter {
			ensure(ks.Item, model.LevelItem, ks.Section).b.accumulate(e, period)
		}
		if ks.Type != ks.Item {
			ensure(ks.Type, model.LevelType, ks.Item).b.accumulate(e, period)
		}
	}

	// Depth-first emission in ascending key order.
	children := make(map[string][]string)
	var roots []string
	for key, n := range nodes {
		if n.parent == "" {
			roots = append(roots, key)
		} else {
			children[n.parent] = append(children[n.parent], key)
		}
	}
	sort.Strings(roots)
	for _, kids := range children {
		sort.Strings(kids)
	}

	var rows []Row
	var emit func(key string)
	emit = func(key string) {
		n := nodes[key]
		label := opts.Labels[key]
		if label == "" {
			label = key
		}
		rows = append(rows, finishRow(key, label, n.level, &n.b))
		for _, kid := range children[key] {
			emit(kid)
		}
	}
	for _, root := range roots {
		emit(root)
	}

	return Result{Rows: rows, Skipped: skipped}, nil
}
