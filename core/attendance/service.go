package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core/calendar"
	"github.com/kmcollege/rollbook/core/classroom"
)

var (
	// errors
	ErrNotATeachingDay = errors.New("attendance cannot be marked on a holiday")
	ErrInvalidHour     = errors.New("hour is outside the day's schedule")
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrNotInClass      = errors.New("student does not belong to this class")
)

type (
	Repository interface {
		// UpsertRecord writes by the (StudentID, Date, Hour) key;
		// an existing record for the same key is replaced atomically.
		UpsertRecord(ctx context.Context, rec Record) (Record, error)
		// QueryRecordsByStudent returns the student's records in (date, hour)
		// order; from/to bound the date range when non-empty (inclusive).
		QueryRecordsByStudent(ctx context.Context, studentID, from, to string) ([]Record, error)
		QueryRecordsByClassHour(ctx context.Context, classID, date string, hour int) ([]Record, error)
		QueryRecordsByClassDate(ctx context.Context, classID, date string) ([]Record, error)
		// QueryDepartmentTotals aggregates marked records per department.
		QueryDepartmentTotals(ctx context.Context) ([]DepartmentTotal, error)
	}

	Service struct {
		repo      Repository
		rosterSvc *classroom.Service
		calSvc    *calendar.Service
	}
)

func NewService(repo Repository, rosterSvc *classroom.Service, calSvc *calendar.Service) *Service {
	return &Service{repo: repo, rosterSvc: rosterSvc, calSvc: calSvc}
}

// checkPeriod resolves the date and rejects holidays and out-of-schedule hours.
func (svc *Service) checkPeriod(ctx context.Context, date string, hour int) error {
	rd, err := svc.calSvc.Resolve(ctx, date)
	if err != nil {
		return err
	}
	if !rd.Teaching {
		return ErrNotATeachingDay
	}
	if hour < 1 || hour > rd.Hours {
		return ErrInvalidHour
	}
	return nil
}

// Mark records one student's status for one period, overwriting any
// earlier mark for the same (student, date, hour).
func (svc *Service) Mark(ctx context.Context, classID, studentID, date string, hour int, status string) (Record, error) {
	if !ValidStatus(status) {
		return Record{}, ErrInvalidStatus
	}
	if err := svc.checkPeriod(ctx, date, hour); err != nil {
		return Record{}, err
	}
	st, err := svc.rosterSvc.GetStudent(ctx, studentID)
	if err != nil {
		return Record{}, err
	}
	if classID == "" {
		classID = st.ClassID
	}
	if st.ClassID != classID {
		return Record{}, ErrNotInClass
	}
	rec := Record{
		ID:        uuid.New().String(),
		StudentID: studentID,
		ClassID:   classID,
		Date:      date,
		Hour:      hour,
		Status:    status,
		MarkedAt:  time.Now().UTC(),
	}
	return svc.repo.UpsertRecord(ctx, rec)
}

// SubmitBatch marks a whole class for one period. Rows fail independently:
// a bad row is reported in the result and the rest still land. The error
// return is reserved for conditions that invalidate the entire batch
// (holiday, out-of-schedule hour, unknown class).
func (svc *Service) SubmitBatch(ctx context.Context, classID, date string, hour int, rows []BatchRow) (SubmitResult, error) {
	if err := svc.checkPeriod(ctx, date, hour); err != nil {
		return SubmitResult{}, err
	}
	if _, err := svc.rosterSvc.GetClass(ctx, classID); err != nil {
		return SubmitResult{}, err
	}

	res := SubmitResult{Rejected: []Rejection{}}
	for _, row := range rows {
		if !ValidStatus(row.Status) {
			res.Rejected = append(res.Rejected, Rejection{StudentID: row.StudentID, Reason: ReasonInvalidStatus})
			continue
		}
		st, err := svc.rosterSvc.GetStudent(ctx, row.StudentID)
		if err != nil {
			reason := ReasonStorageError
			if errors.Cause(err) == classroom.ErrStudentNotFound {
				reason = ReasonStudentNotFound
			}
			res.Rejected = append(res.Rejected, Rejection{StudentID: row.StudentID, Reason: reason})
			continue
		}
		if st.ClassID != classID {
			res.Rejected = append(res.Rejected, Rejection{StudentID: row.StudentID, Reason: ReasonNotInClass})
			continue
		}
		rec := Record{
			ID:        uuid.New().String(),
			StudentID: row.StudentID,
			ClassID:   classID,
			Date:      date,
			Hour:      hour,
			Status:    row.Status,
			MarkedAt:  time.Now().UTC(),
		}
		if _, err = svc.repo.UpsertRecord(ctx, rec); err != nil {
			res.Rejected = append(res.Rejected, Rejection{StudentID: row.StudentID, Reason: ReasonStorageError})
			continue
		}
		res.Accepted++
	}
	return res, nil
}

// RecordsForStudent lists a student's marked records, optionally bounded to
// [from, to]. Empty bounds mean the whole history.
func (svc *Service) RecordsForStudent(ctx context.Context, studentID, from, to string) ([]Record, error) {
	if _, err := svc.rosterSvc.GetStudent(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryRecordsByStudent(ctx, studentID, from, to)
}

// ClassStatusList joins the roster with the ledger for one period. Students
// with no record yet show as present; this default lives only in the view
// and writes nothing to storage.
func (svc *Service) ClassStatusList(ctx context.Context, classID, date string, hour int) ([]StudentWithStatus, error) {
	roster, err := svc.rosterSvc.StudentsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	recs, err := svc.repo.QueryRecordsByClassHour(ctx, classID, date, hour)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]string, len(recs))
	for _, rec := range recs {
		byStudent[rec.StudentID] = rec.Status
	}

	out := make([]StudentWithStatus, 0, len(roster))
	for _, st := range roster {
		row := StudentWithStatus{
			StudentID:      st.ID,
			Name:           st.Name,
			RegisterNumber: st.RegisterNumber,
			Status:         StatusPresent,
		}
		if status, ok := byStudent[st.ID]; ok {
			row.Status = status
			row.Marked = true
		}
		out = append(out, row)
	}
	return out, nil
}

// ClassAttendanceSheet returns the roster with every mark for the date keyed
// "hour_N", the sheet the marking screen renders.
func (svc *Service) ClassAttendanceSheet(ctx context.Context, classID, date string) ([]StudentWithAttendance, error) {
	roster, err := svc.rosterSvc.StudentsForClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	recs, err := svc.repo.QueryRecordsByClassDate(ctx, classID, date)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]map[string]string)
	for _, rec := range recs {
		hours, ok := byStudent[rec.StudentID]
		if !ok {
			hours = make(map[string]string)
			byStudent[rec.StudentID] = hours
		}
		hours[fmt.Sprintf("hour_%d", rec.Hour)] = rec.Status
	}

	out := make([]StudentWithAttendance, 0, len(roster))
	for _, st := range roster {
		row := StudentWithAttendance{
			StudentID:      st.ID,
			Name:           st.Name,
			RegisterNumber: st.RegisterNumber,
			Attendance:     byStudent[st.ID],
		}
		if row.Attendance == nil {
			row.Attendance = map[string]string{}
		}
		out = append(out, row)
	}
	return out, nil
}
