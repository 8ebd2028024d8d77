package classroom

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kmcollege/rollbook/core"
)

// Degree types
const (
	DegreeUG = "UG"
	DegreePG = "PG"
)

// Mediums of instruction
const (
	MediumEnglish = "English"
	MediumTamil   = "Tamil"
)

// Class is a degree/year/department/shift/medium unit with zero or one
// assigned tutor and a set of enrolled students.
type Class struct {
	ID         string    `json:"id"`
	DegreeType string    `json:"degreeType"`
	Year       int       `json:"year"`
	Department string    `json:"department"`
	Shift      int       `json:"shift"`
	Medium     string    `json:"medium"`
	TutorID    string    `json:"tutorId,omitempty"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// Label renders the display name used by schedules and dropdowns.
func (c Class) Label() string {
	return fmt.Sprintf("%d %s %s (Shift %d) - %s", c.Year, c.DegreeType, c.Department, c.Shift, c.Medium)
}

// Student belongs to exactly one Class; RegisterNumber is the natural key and
// is unique system-wide.
type Student struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RegisterNumber string    `json:"registerNumber"`
	DOB            string    `json:"dob"` // YYYY-MM-DD
	ClassID        string    `json:"classId"`
	CreatedAt      time.Time `json:"created_at"` // UTC
}

// NewClass contains information needed to create a Class.
type NewClass struct {
	DegreeType string `json:"degreeType" validate:"required,oneof=UG PG"`
	Year       int    `json:"year" validate:"required,min=1,max=3"`
	Department string `json:"department" validate:"required"`
	Shift      int    `json:"shift" validate:"required,min=1,max=2"`
	Medium     string `json:"medium" validate:"required,oneof=English Tamil"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Department = core.CleanString(nc.Department)
	return validate.Struct(nc)
}

// NewStudent contains information needed to enroll a Student.
type NewStudent struct {
	Name           string `json:"name" validate:"required"`
	RegisterNumber string `json:"registerNumber" validate:"required,alphanum_"`
	DOB            string `json:"dob" validate:"required,date_"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RegisterNumber = core.CleanString(ns.RegisterNumber, true /* lower */)
	ns.DOB = core.CleanString(ns.DOB)
	return validate.Struct(ns)
}

// QueryFilter narrows a class search; all set fields are ANDed.
type QueryFilter struct {
	Department string `query:"department"`
	Year       int    `query:"year"`
	Shift      int    `query:"shift"`
	Medium     string `query:"medium"`
}

func (qf *QueryFilter) Clean() {
	qf.Department = core.CleanString(qf.Department)
	qf.Medium = core.CleanString(qf.Medium)
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Department == "" && qf.Year == 0 && qf.Shift == 0 && qf.Medium == ""
}

// Matches reports whether the class satisfies every set filter field.
func (qf *QueryFilter) Matches(c Class) bool {
	if qf.Department != "" && c.Department != qf.Department {
		return false
	}
	if qf.Year != 0 && c.Year != qf.Year {
		return false
	}
	if qf.Shift != 0 && c.Shift != qf.Shift {
		return false
	}
	if qf.Medium != "" && c.Medium != qf.Medium {
		return false
	}
	return true
}
