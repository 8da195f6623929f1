// Package report pivots raw per-student per-date attendance rows into the
// table model the report views render.
package report

import (
	"context"
	"errors"
)

var (
	// ErrInvalidPeriod rejects out-of-range years and unknown quarters.
	ErrInvalidPeriod = errors.New("invalid report period")
	// ErrFetchFailed wraps row-source failures; no partial report is returned.
	ErrFetchFailed = errors.New("report fetch failed")
)

// Presence is one cell of the report grid. A date with no recorded row is
// "none" when the date is still in the future and "absent" once it has
// passed.
type Presence string

const (
	Present Presence = "present"
	Absent  Presence = "absent"
	NoData  Presence = "none"
)

// Row is one raw attendance fact: a student either was or was not present
// on a service date. Date is an ISO calendar date (YYYY-MM-DD).
type Row struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Date      string `json:"date"`
	Present   bool   `json:"present"`
}

// RowSource fetches the raw rows for one year/quarter period.
type RowSource interface {
	FetchRows(ctx context.Context, year int, quarter Quarter) ([]Row, error)
}

// Record is one student's line in the report: an explicit date→presence
// map plus the count of present cells.
type Record struct {
	StudentID    string              `json:"student_id"`
	Name         string              `json:"name"`
	Class        string              `json:"class"`
	Cells        map[string]Presence `json:"cells"`
	TotalPresent int                 `json:"totalPresent"`
}

// Summary holds the report's headline counts. TotalAttendanceRecords is
// the raw row count ingested, so a student with both present and absent
// rows on distinct dates contributes more than once.
type Summary struct {
	TotalStudents          int `json:"totalStudents"`
	TotalDates             int `json:"totalDates"`
	TotalAttendanceRecords int `json:"totalAttendanceRecord"`
}

// Report is the aggregated view model for one period.
type Report struct {
	Dates   []string `json:"dates"`
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}
