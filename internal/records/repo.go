// Package records serves the paginated raw-record views under /records.
package records

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AttendanceRecord is one raw attendance fact as listed in record views.
type AttendanceRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Class       string    `json:"class"`
	ServiceDate string    `json:"service_date"`
	Present     bool      `json:"present"`
	CreatedAt   time.Time `json:"created_at"`
}

// Counts are the dashboard headline numbers.
type Counts struct {
	Students          int `json:"students"`
	AttendanceRecords int `json:"attendance_records"`
}

// Repository reads record views from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListAttendance returns attendance rows with basic filters, newest first.
func (r *Repository) ListAttendance(ctx context.Context, class string, limit, offset int) ([]AttendanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT a.id, s.id, s.surname || ' ' || s.firstname, COALESCE(s.class_name, ''), a.service_date, a.present, a.created_at
		FROM sunday_school_attendance a
		JOIN sunday_school_students s ON s.id = a.student_id`
	args := []any{}
	if class != "" {
		query += " WHERE s.class_name = $1"
		args = append(args, class)
	}
	query += fmt.Sprintf(" ORDER BY a.service_date DESC, s.surname LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []AttendanceRecord
	for rows.Next() {
		var rec AttendanceRecord
		var day time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.StudentName, &rec.Class, &day, &rec.Present, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ServiceDate = day.Format("2006-01-02")
		res = append(res, rec)
	}
	return res, rows.Err()
}

// DashboardCounts returns the landing-page headline counts.
func (r *Repository) DashboardCounts(ctx context.Context) (Counts, error) {
	var c Counts
	row := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sunday_school_students WHERE active),
			(SELECT COUNT(*) FROM sunday_school_attendance)
	`)
	if err := row.Scan(&c.Students, &c.AttendanceRecords); err != nil {
		return Counts{}, err
	}
	return c, nil
}
