package report

import (
	"context"
	"database/sql"
	"time"
)

// Repository is the Postgres row source for attendance reports.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FetchRows returns the raw attendance rows for the quarter, one per
// recorded (student, date) fact, ordered by date then surname.
func (r *Repository) FetchRows(ctx context.Context, year int, quarter Quarter) ([]Row, error) {
	from, to := quarter.DateRange(year)
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.surname || ' ' || s.firstname, COALESCE(s.class_name, ''), a.service_date, a.present
		FROM sunday_school_attendance a
		JOIN sunday_school_students s ON s.id = a.student_id
		WHERE a.service_date >= $1 AND a.service_date <= $2
		ORDER BY a.service_date, s.surname, s.firstname
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Row
	for rows.Next() {
		var row Row
		var day time.Time
		if err := rows.Scan(&row.StudentID, &row.Name, &row.Class, &day, &row.Present); err != nil {
			return nil, err
		}
		row.Date = day.Format("2006-01-02")
		res = append(res, row)
	}
	return res, rows.Err()
}
