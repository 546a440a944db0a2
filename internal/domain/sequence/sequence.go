// Package sequence defines the contract for generating unique, monotonically
// increasing business codes (movement codes, invoice numbers) under
// concurrent writers.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Generator issues the next code for a prefix and scope. Implementations must
// serialize concurrent callers sharing the same prefix+scope and must run
// inside the caller's transaction: the generated code is only reserved once
// the owning insert commits, and a rollback may leave a gap, which is
// acceptable. If the serializing mechanism is unavailable the generator fails
// closed rather than risking a duplicate.
type Generator interface {
	Next(ctx context.Context, prefix, scope string) (string, error)
}

// Counter is the persisted high-water mark for one prefix+scope pair. Codes
// are unique per prefix+scope; numbers are monotonically non-decreasing but
// gaps after rollbacks are fine.
type Counter struct {
	Prefix     string `gorm:"type:varchar(16);primaryKey"`
	Scope      string `gorm:"type:varchar(16);primaryKey"`
	LastNumber int64  `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (Counter) TableName() string {
	return "sequence_counters"
}

// numberWidth is the minimum zero-padded width of the numeric suffix. The
// suffix widens naturally once the counter outgrows it.
const numberWidth = 3

// FormatCode renders a code as <prefix>-<scope>-<NNN>
func FormatCode(prefix, scope string, number int64) string {
	return fmt.Sprintf("%s-%s-%0*d", prefix, scope, numberWidth, number)
}

// ParseSuffix extracts the trailing numeric suffix of a code. Returns false
// for codes whose suffix is missing or non-numeric (malformed historic
// codes).
func ParseSuffix(code string) (int64, bool) {
	idx := strings.LastIndex(code, "-")
	if idx < 0 || idx == len(code)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(code[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MonthScope renders the calendar-month scope used for dated code series,
// e.g. 2026-08 -> "2608".
func MonthScope(t time.Time) string {
	return t.Format("0601")
}
