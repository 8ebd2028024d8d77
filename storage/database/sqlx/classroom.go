package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core/classroom"
)

type classRow struct {
	ID         string         `db:"id"`
	DegreeType string         `db:"degree_type"`
	Year       int            `db:"year"`
	Department string         `db:"department"`
	Shift      int            `db:"shift"`
	Medium     string         `db:"medium"`
	TutorID    sql.NullString `db:"tutor_id"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (row classRow) toClass() classroom.Class {
	return classroom.Class{
		ID:         row.ID,
		DegreeType: row.DegreeType,
		Year:       row.Year,
		Department: row.Department,
		Shift:      row.Shift,
		Medium:     row.Medium,
		TutorID:    row.TutorID.String,
		CreatedAt:  row.CreatedAt,
	}
}

type studentRow struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	RegisterNumber string    `db:"register_number"`
	DOB            string    `db:"dob"`
	ClassID        string    `db:"class_id"`
	CreatedAt      time.Time `db:"created_at"`
}

func (row studentRow) toStudent() classroom.Student {
	return classroom.Student(row)
}

type ClassroomRepository struct {
	db *sqlx.DB
}

var _ classroom.Repository = (*ClassroomRepository)(nil)

func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

func (repo *ClassroomRepository) CreateClass(ctx context.Context, cls classroom.Class) (classroom.Class, error) {
	query := `
		INSERT INTO class (id, degree_type, year, department, shift, medium, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, query, cls.ID, cls.DegreeType, cls.Year, cls.Department, cls.Shift, cls.Medium, cls.CreatedAt)
	if err != nil {
		return classroom.Class{}, unavailable(err, "creating class")
	}
	return cls, nil
}

func (repo *ClassroomRepository) getClass(ctx context.Context, query string, args ...interface{}) (classroom.Class, error) {
	var row classRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return classroom.Class{}, classroom.ErrClassNotFound
		}
		return classroom.Class{}, unavailable(err, "getting class")
	}
	return row.toClass(), nil
}

func (repo *ClassroomRepository) GetClassByID(ctx context.Context, id string) (classroom.Class, error) {
	return repo.getClass(ctx, `SELECT * FROM class WHERE id = $1`, id)
}

func (repo *ClassroomRepository) GetClassByTutor(ctx context.Context, tutorID string) (classroom.Class, error) {
	return repo.getClass(ctx, `SELECT * FROM class WHERE tutor_id = $1 LIMIT 1`, tutorID)
}

func (repo *ClassroomRepository) FilterClasses(ctx context.Context, filter classroom.QueryFilter) ([]classroom.Class, error) {
	query := `SELECT * FROM class WHERE true`
	var args []interface{}
	add := func(clause string, val interface{}) {
		args = append(args, val)
		query += fmt.Sprintf(" AND %s = $%d", clause, len(args))
	}
	if filter.Department != "" {
		add("department", filter.Department)
	}
	if filter.Year != 0 {
		add("year", filter.Year)
	}
	if filter.Shift != 0 {
		add("shift", filter.Shift)
	}
	if filter.Medium != "" {
		add("medium", filter.Medium)
	}
	query += " ORDER BY created_at"

	var rows []classRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, unavailable(err, "filtering classes")
	}
	classes := make([]classroom.Class, len(rows))
	for i, row := range rows {
		classes[i] = row.toClass()
	}
	return classes, nil
}

// SetClassTutor releases the tutor's previous class and assigns the new one
// in a single transaction; a tutor holds at most one class at a time.
func (repo *ClassroomRepository) SetClassTutor(ctx context.Context, classID, tutorID string) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return unavailable(err, "assigning tutor")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `UPDATE class SET tutor_id = NULL WHERE tutor_id = $1`, tutorID); err != nil {
		return unavailable(err, "releasing previous assignment")
	}
	res, err := tx.ExecContext(ctx, `UPDATE class SET tutor_id = $1 WHERE id = $2`, tutorID, classID)
	if err != nil {
		return unavailable(err, "assigning tutor")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return classroom.ErrClassNotFound
	}
	if err = tx.Commit(); err != nil {
		return unavailable(err, "assigning tutor")
	}
	return nil
}

func (repo *ClassroomRepository) CreateStudent(ctx context.Context, st classroom.Student) (classroom.Student, error) {
	query := `
		INSERT INTO student (id, name, register_number, dob, class_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, query, st.ID, st.Name, st.RegisterNumber, st.DOB, st.ClassID, st.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return classroom.Student{}, classroom.ErrDuplicateRegisterNumber
		}
		return classroom.Student{}, unavailable(err, "creating student")
	}
	return st, nil
}

func (repo *ClassroomRepository) getStudent(ctx context.Context, query string, args ...interface{}) (classroom.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return classroom.Student{}, classroom.ErrStudentNotFound
		}
		return classroom.Student{}, unavailable(err, "getting student")
	}
	return row.toStudent(), nil
}

func (repo *ClassroomRepository) GetStudentByID(ctx context.Context, id string) (classroom.Student, error) {
	return repo.getStudent(ctx, `SELECT * FROM student WHERE id = $1`, id)
}

func (repo *ClassroomRepository) GetStudentByRegisterNumber(ctx context.Context, reg string) (classroom.Student, error) {
	return repo.getStudent(ctx, `SELECT * FROM student WHERE register_number = $1`, reg)
}

func (repo *ClassroomRepository) QueryStudentsByClass(ctx context.Context, classID string) ([]classroom.Student, error) {
	var rows []studentRow
	query := `SELECT * FROM student WHERE class_id = $1 ORDER BY created_at`
	if err := repo.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, unavailable(err, "querying students")
	}
	students := make([]classroom.Student, len(rows))
	for i, row := range rows {
		students[i] = row.toStudent()
	}
	return students, nil
}
