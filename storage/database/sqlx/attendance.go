package sqlxrepos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kmcollege/rollbook/core/attendance"
)

type recordRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	ClassID   string    `db:"class_id"`
	Date      string    `db:"date"`
	Hour      int       `db:"hour"`
	Status    string    `db:"status"`
	MarkedAt  time.Time `db:"marked_at"`
}

func (row recordRow) toRecord() attendance.Record {
	return attendance.Record(row)
}

type AttendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (repo *AttendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	// an overwrite keeps the original row id
	query := `
		INSERT INTO attendance_record (id, student_id, class_id, date, hour, status, marked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id, date, hour) DO UPDATE
		SET class_id = EXCLUDED.class_id, status = EXCLUDED.status, marked_at = EXCLUDED.marked_at
		RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, rec.ID, rec.StudentID, rec.ClassID, rec.Date, rec.Hour, rec.Status, rec.MarkedAt).Scan(&rec.ID)
	if err != nil {
		return attendance.Record{}, unavailable(err, "upserting attendance record")
	}
	return rec, nil
}

func (repo *AttendanceRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, unavailable(err, "querying attendance records")
	}
	recs := make([]attendance.Record, len(rows))
	for i, row := range rows {
		recs[i] = row.toRecord()
	}
	return recs, nil
}

func (repo *AttendanceRepository) QueryRecordsByStudent(ctx context.Context, studentID, from, to string) ([]attendance.Record, error) {
	query := `SELECT * FROM attendance_record WHERE student_id = $1`
	args := []interface{}{studentID}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date, hour"
	return repo.queryRecords(ctx, query, args...)
}

func (repo *AttendanceRepository) QueryRecordsByClassHour(ctx context.Context, classID, date string, hour int) ([]attendance.Record, error) {
	query := `SELECT * FROM attendance_record WHERE class_id = $1 AND date = $2 AND hour = $3`
	return repo.queryRecords(ctx, query, classID, date, hour)
}

func (repo *AttendanceRepository) QueryRecordsByClassDate(ctx context.Context, classID, date string) ([]attendance.Record, error) {
	query := `SELECT * FROM attendance_record WHERE class_id = $1 AND date = $2 ORDER BY hour`
	return repo.queryRecords(ctx, query, classID, date)
}

func (repo *AttendanceRepository) QueryDepartmentTotals(ctx context.Context) ([]attendance.DepartmentTotal, error) {
	query := `
		SELECT c.department,
		       COUNT(*) FILTER (WHERE ar.status = 'present') AS present,
		       COUNT(*) FILTER (WHERE ar.status = 'absent')  AS absent,
		       COUNT(*) FILTER (WHERE ar.status = 'on_duty') AS on_duty
		FROM attendance_record ar
		JOIN class c ON c.id = ar.class_id
		GROUP BY c.department
		ORDER BY c.department`
	var totals []attendance.DepartmentTotal
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable(err, "aggregating department totals")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var t attendance.DepartmentTotal
		if err = rows.Scan(&t.Department, &t.Present, &t.Absent, &t.OnDuty); err != nil {
			return nil, unavailable(err, "aggregating department totals")
		}
		totals = append(totals, t)
	}
	if err = rows.Err(); err != nil {
		return nil, unavailable(err, "aggregating department totals")
	}
	return totals, nil
}
