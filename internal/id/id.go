// Package id formats and parses the human-readable batch numbers that
// accompany the uuid of every import.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatBatchNumber returns a batch number like "2024-01-003".
func FormatBatchNumber(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseBatchNumber parses "2024-01-003" into year, month, seq.
func ParseBatchNumber(number string) (year, month, seq int, err error) {
	parts := strings.SplitN(number, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid batch number format: %q", number)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in batch number %q: %w", number, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in batch number %q: %w", number, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in batch number %q: %w", number, err)
	}

	return year, month, seq, nil
}
