package attendance

import "time"

// Statuses. These literal values travel in API payloads and storage.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusOnDuty  = "on_duty"
)

// ValidStatus reports whether s is one of the three attendance statuses.
func ValidStatus(s string) bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusOnDuty
}

// Record is one status for one student at one period. The composite key
// (StudentID, Date, Hour) is unique; a later write with the same key
// supersedes the earlier one, no history is kept.
type Record struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	ClassID   string    `json:"classId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Hour      int       `json:"hour"`
	Status    string    `json:"status"`
	MarkedAt  time.Time `json:"marked_at"` // UTC
}

// BatchRow is one student's status within a batch submission.
type BatchRow struct {
	StudentID string `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// Rejection reason codes for batch rows.
const (
	ReasonStudentNotFound = "student_not_found"
	ReasonInvalidStatus   = "invalid_status"
	ReasonNotInClass      = "not_in_class"
	ReasonStorageError    = "storage_error"
)

type Rejection struct {
	StudentID string `json:"studentId"`
	Reason    string `json:"reason"`
}

// SubmitResult reports batch partial-success: one row's failure never aborts
// the rest.
type SubmitResult struct {
	Accepted int         `json:"accepted"`
	Rejected []Rejection `json:"rejected"`
}

// StudentWithStatus is a roster row joined with the ledger for one
// (date, hour); unmarked students default to present in this view only.
type StudentWithStatus struct {
	StudentID      string `json:"studentId"`
	Name           string `json:"name"`
	RegisterNumber string `json:"registerNumber"`
	Status         string `json:"status"`
	Marked         bool   `json:"marked"`
}

// StudentWithAttendance is a roster row with the full day's marks keyed
// "hour_N", the shape the marking screen consumes.
type StudentWithAttendance struct {
	StudentID      string            `json:"studentId"`
	Name           string            `json:"name"`
	RegisterNumber string            `json:"registerNumber"`
	Attendance     map[string]string `json:"attendance"`
}

// StudentStats summarises one student's marked history. On-duty counts as
// present-equivalent in the percentage but is reported separately.
type StudentStats struct {
	Percentage   float64 `json:"percentage"`
	TotalPresent int     `json:"totalPresent"`
	TotalAbsent  int     `json:"totalAbsent"`
	TotalOnDuty  int     `json:"totalOnDuty"`
}

type DepartmentStat struct {
	Department string  `json:"department"`
	Percentage float64 `json:"percentage"`
}

type CollegeStats struct {
	CollegePercentage float64          `json:"college_percentage"`
	DepartmentStats   []DepartmentStat `json:"department_stats"`
}

// DepartmentTotal is the storage-level aggregate the stats roll up from.
type DepartmentTotal struct {
	Department string
	Present    int
	Absent     int
	OnDuty     int
}
