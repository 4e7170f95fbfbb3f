package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/diwan-dev/diwan/internal/model"
)

// ErrEmptyPeriod is returned when a report is requested over a window
// with no months in it.
var ErrEmptyPeriod = errors.New("report period contains no months")

// PeriodWindow is the time window of one report: a year plus an ordered
// subset of its months. Derived from the report-type selector, never
// persisted.
type PeriodWindow struct {
	Year   int
	Months []int
}

// Monthly returns a single-month window.
func Monthly(year, month int) PeriodWindow {
	return PeriodWindow{Year: year, Months: []int{month}}
}

// Quarterly returns the three-month window for quarter 1..4.
func Quarterly(year, quarter int) PeriodWindow {
	first := (quarter-1)*3 + 1
	return PeriodWindow{Year: year, Months: []int{first, first + 1, first + 2}}
}

// Annual returns the full twelve-month window.
func Annual(year int) PeriodWindow {
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return PeriodWindow{Year: year, Months: months}
}

// ParsePeriod builds a window from the report-type selector used by the
// API and CLI: "monthly" (needs month), "quarterly" (needs quarter),
// "annual".
func ParsePeriod(kind string, year, monthOrQuarter int) (PeriodWindow, error) {
	switch kind {
	case "monthly":
		if monthOrQuarter < 1 || monthOrQuarter > 12 {
			return PeriodWindow{}, fmt.Errorf("month %d out of range", monthOrQuarter)
		}
		return Monthly(year, monthOrQuarter), nil
	case "quarterly":
		if monthOrQuarter < 1 || monthOrQuarter > 4 {
			return PeriodWindow{}, fmt.Errorf("quarter %d out of range", monthOrQuarter)
		}
		return Quarterly(year, monthOrQuarter), nil
	case "annual":
		return Annual(year), nil
	}
	return PeriodWindow{}, fmt.Errorf("unknown period type %q", kind)
}

// Start returns the first calendar day of the first month in the window.
// Entries dated exactly on this day form the opening-balance snapshot.
func (p PeriodWindow) Start() time.Time {
	if len(p.Months) == 0 {
		return time.Time{}
	}
	return model.MonthStart(p.Year, p.Months[0])
}

// Contains reports whether t falls inside any month of the window.
func (p PeriodWindow) Contains(t time.Time) bool {
	if t.Year() != p.Year {
		return false
	}
	m := int(t.Month())
	for _, pm := range p.Months {
		if pm == m {
			return true
		}
	}
	return false
}
