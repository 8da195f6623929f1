package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Service produces attendance reports from a row source. It is stateless
// and safe to call concurrently; when the caller fires overlapping
// requests it owns discarding stale results.
type Service struct {
	src RowSource
	now func() time.Time
}

// NewService creates a report service.
func NewService(src RowSource) *Service {
	return &Service{src: src, now: time.Now}
}

// Report fetches and aggregates the rows for one period. A failing row
// source yields a single error and no partial report.
func (s *Service) Report(ctx context.Context, year int, quarter Quarter) (Report, error) {
	if year < 2020 || year > 9999 {
		return Report{}, fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	if _, err := ParseQuarter(string(quarter)); err != nil {
		return Report{}, err
	}
	rows, err := s.src.FetchRows(ctx, year, quarter)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return Aggregate(rows, s.now()), nil
}

// Aggregate pivots raw rows into the report grid. Dates are sorted
// ascending regardless of source order; students appear in first-seen
// order. A (student, date) pair with no row becomes NoData for dates
// after now and Absent otherwise.
func Aggregate(rows []Row, now time.Time) Report {
	today := now.UTC().Format("2006-01-02")

	var dates []string
	seenDate := make(map[string]bool)
	for _, row := range rows {
		if !seenDate[row.Date] {
			seenDate[row.Date] = true
			dates = append(dates, row.Date)
		}
	}
	// ISO dates sort lexicographically in calendar order
	sort.Strings(dates)

	type cell struct {
		present bool
	}
	marked := make(map[string]map[string]cell)
	var order []string
	meta := make(map[string]Row)
	for _, row := range rows {
		if _, ok := marked[row.StudentID]; !ok {
			marked[row.StudentID] = make(map[string]cell)
			order = append(order, row.StudentID)
			meta[row.StudentID] = row
		}
		marked[row.StudentID][row.Date] = cell{present: row.Present}
	}

	records := make([]Record, 0, len(order))
	for _, id := range order {
		first := meta[id]
		rec := Record{
			StudentID: id,
			Name:      strings.TrimSpace(first.Name),
			Class:     first.Class,
			Cells:     make(map[string]Presence, len(dates)),
		}
		for _, d := range dates {
			c, ok := marked[id][d]
			switch {
			case ok && c.present:
				rec.Cells[d] = Present
				rec.TotalPresent++
			case ok:
				rec.Cells[d] = Absent
			case d > today:
				rec.Cells[d] = NoData
			default:
				rec.Cells[d] = Absent
			}
		}
		records = append(records, rec)
	}

	if dates == nil {
		dates = []string{}
	}
	return Report{
		Dates:   dates,
		Records: records,
		Summary: Summary{
			TotalStudents:          len(records),
			TotalDates:             len(dates),
			TotalAttendanceRecords: len(rows),
		},
	}
}
