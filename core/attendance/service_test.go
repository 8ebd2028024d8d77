package attendance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/calendar"
	"github.com/kmcollege/rollbook/core/classroom"
	inmemrepos "github.com/kmcollege/rollbook/storage/inmem"
	testutil "github.com/kmcollege/rollbook/tests"
)

type fixture struct {
	svc     *attendance.Service
	roster  *inmemrepos.ClassroomRepository
	calRepo *inmemrepos.CalendarRepository
	cls     classroom.Class
	student classroom.Student
}

func setup(t *testing.T) *fixture {
	validate, _ := testutil.NewValidator()

	rosterRepo := inmemrepos.NewClassroomRepository()
	calRepo := inmemrepos.NewCalendarRepository()
	attRepo := inmemrepos.NewAttendanceRepository(rosterRepo)

	rosterSvc := classroom.NewService(rosterRepo, validate)
	calSvc := calendar.NewService(calRepo, validate)
	svc := attendance.NewService(attRepo, rosterSvc, calSvc)

	cls := testutil.CreateClass(t, rosterRepo, "UG", 2, "CS", 1, "English")
	st := testutil.CreateStudent(t, rosterRepo, cls.ID, "Anitha", "cs21", "2004-06-15")
	testutil.SetCalendarDay(t, calRepo, "2024-01-10", testutil.IntPtr(3), "")
	testutil.SetCalendarDay(t, calRepo, "2024-01-26", nil, "Republic Day")

	return &fixture{svc: svc, roster: rosterRepo, calRepo: calRepo, cls: cls, student: st}
}

func TestService_Mark(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", 2, attendance.StatusAbsent)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, rec.Status)

	// overwrite with the same key: exactly one record, last status wins
	_, err = f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", 2, attendance.StatusPresent)
	require.NoError(t, err)
	recs, err := f.svc.RecordsForStudent(ctx, f.student.ID, "", "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, attendance.StatusPresent, recs[0].Status)
	assert.Equal(t, rec.ID, recs[0].ID)

	// empty classID falls back to the student's own class
	rec, err = f.svc.Mark(ctx, "", f.student.ID, "2024-01-10", 3, attendance.StatusOnDuty)
	require.NoError(t, err)
	assert.Equal(t, f.cls.ID, rec.ClassID)
}

func TestService_Mark_rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other := testutil.CreateClass(t, f.roster, "UG", 1, "Physics", 1, "Tamil")

	tests := []struct {
		name      string
		classID   string
		studentID string
		date      string
		hour      int
		status    string
		wantErr   error
	}{
		{name: "holiday", classID: f.cls.ID, studentID: f.student.ID, date: "2024-01-26", hour: 1, status: attendance.StatusPresent, wantErr: attendance.ErrNotATeachingDay},
		{name: "hour above schedule", classID: f.cls.ID, studentID: f.student.ID, date: "2024-01-10", hour: 9, status: attendance.StatusPresent, wantErr: attendance.ErrInvalidHour},
		{name: "hour zero", classID: f.cls.ID, studentID: f.student.ID, date: "2024-01-10", hour: 0, status: attendance.StatusPresent, wantErr: attendance.ErrInvalidHour},
		{name: "bad status", classID: f.cls.ID, studentID: f.student.ID, date: "2024-01-10", hour: 1, status: "late", wantErr: attendance.ErrInvalidStatus},
		{name: "unknown student", classID: f.cls.ID, studentID: "nope", date: "2024-01-10", hour: 1, status: attendance.StatusPresent, wantErr: classroom.ErrStudentNotFound},
		{name: "wrong class", classID: other.ID, studentID: f.student.ID, date: "2024-01-10", hour: 1, status: attendance.StatusPresent, wantErr: attendance.ErrNotInClass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Mark(ctx, tt.classID, tt.studentID, tt.date, tt.hour, tt.status)
			assert.Equal(t, tt.wantErr, err)

			// nothing was written
			recs, err := f.svc.RecordsForStudent(ctx, f.student.ID, "", "")
			require.NoError(t, err)
			assert.Empty(t, recs)
		})
	}
}

func TestService_SubmitBatch(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	st2 := testutil.CreateStudent(t, f.roster, f.cls.ID, "Bala", "cs22", "2004-03-02")
	st3 := testutil.CreateStudent(t, f.roster, f.cls.ID, "Chitra", "cs23", "2004-11-20")

	rows := []attendance.BatchRow{
		{StudentID: f.student.ID, Status: attendance.StatusPresent},
		{StudentID: "nope", Status: attendance.StatusPresent},
		{StudentID: st2.ID, Status: attendance.StatusAbsent},
		{StudentID: st3.ID, Status: attendance.StatusOnDuty},
	}

	res, err := f.svc.SubmitBatch(ctx, f.cls.ID, "2024-01-10", 2, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Accepted)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, attendance.Rejection{StudentID: "nope", Reason: attendance.ReasonStudentNotFound}, res.Rejected[0])

	// the valid rows persisted regardless of the invalid one's position
	recs, err := f.svc.RecordsForStudent(ctx, st2.ID, "", "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, attendance.StatusAbsent, recs[0].Status)
}

func TestService_SubmitBatch_rowReasons(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	outsider := testutil.CreateClass(t, f.roster, "UG", 1, "Physics", 1, "Tamil")
	stranger := testutil.CreateStudent(t, f.roster, outsider.ID, "Dev", "ph01", "2005-02-01")

	rows := []attendance.BatchRow{
		{StudentID: f.student.ID, Status: "late"},
		{StudentID: stranger.ID, Status: attendance.StatusPresent},
	}
	res, err := f.svc.SubmitBatch(ctx, f.cls.ID, "2024-01-10", 1, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Accepted)
	assert.ElementsMatch(t, []attendance.Rejection{
		{StudentID: f.student.ID, Reason: attendance.ReasonInvalidStatus},
		{StudentID: stranger.ID, Reason: attendance.ReasonNotInClass},
	}, res.Rejected)
}

func TestService_SubmitBatch_wholeBatchFailures(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rows := []attendance.BatchRow{{StudentID: f.student.ID, Status: attendance.StatusPresent}}

	_, err := f.svc.SubmitBatch(ctx, f.cls.ID, "2024-01-26", 1, rows)
	assert.Equal(t, attendance.ErrNotATeachingDay, err)

	_, err = f.svc.SubmitBatch(ctx, f.cls.ID, "2024-01-10", 12, rows)
	assert.Equal(t, attendance.ErrInvalidHour, err)

	_, err = f.svc.SubmitBatch(ctx, "nope", "2024-01-10", 1, rows)
	assert.Equal(t, classroom.ErrClassNotFound, err)

	recs, err := f.svc.RecordsForStudent(ctx, f.student.ID, "", "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestService_RecordsForStudent_dateRange(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-08", "2024-01-10", "2024-01-15"} {
		_, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, date, 1, attendance.StatusPresent)
		require.NoError(t, err)
	}

	recs, err := f.svc.RecordsForStudent(ctx, f.student.ID, "2024-01-09", "2024-01-14")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2024-01-10", recs[0].Date)

	_, err = f.svc.RecordsForStudent(ctx, "nope", "", "")
	assert.Equal(t, classroom.ErrStudentNotFound, err)
}

func TestService_ClassStatusList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	st2 := testutil.CreateStudent(t, f.roster, f.cls.ID, "Bala", "cs22", "2004-03-02")

	_, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", 2, attendance.StatusAbsent)
	require.NoError(t, err)

	list, err := f.svc.ClassStatusList(ctx, f.cls.ID, "2024-01-10", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, attendance.StatusAbsent, list[0].Status)
	assert.True(t, list[0].Marked)

	// unmarked students default to present, without a ledger write
	assert.Equal(t, attendance.StatusPresent, list[1].Status)
	assert.False(t, list[1].Marked)
	recs, err := f.svc.RecordsForStudent(ctx, st2.ID, "", "")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestService_ClassAttendanceSheet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", 1, attendance.StatusPresent)
	require.NoError(t, err)
	_, err = f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", 2, attendance.StatusOnDuty)
	require.NoError(t, err)

	sheet, err := f.svc.ClassAttendanceSheet(ctx, f.cls.ID, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, sheet, 1)
	assert.Equal(t, map[string]string{
		"hour_1": attendance.StatusPresent,
		"hour_2": attendance.StatusOnDuty,
	}, sheet[0].Attendance)
}
