package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/kmcollege/rollbook/apps/api/echo"
	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/user"
	testutil "github.com/kmcollege/rollbook/tests"
)

func Test_studentMe(t *testing.T) {
	f := setup(t)

	cls := testutil.CreateClass(t, f.rosterRepo, "UG", 2, "CS", 1, "English")
	st := testutil.CreateStudent(t, f.rosterRepo, cls.ID, "Anitha", "cs21", "2004-06-15")
	staff := testutil.CreateUser(t, f.usrRepo, "Meena", "meena", "meena@kmc.edu", "", []string{user.RoleFaculty}, true)

	req, rec := newAuthRequest(http.MethodGet, "/api/student/me", getStudentToken(t, st))
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile echoapi.StudentProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, st.ID, profile.ID)
	assert.Equal(t, "cs21", profile.RegisterNumber)
	assert.Equal(t, cls.Label(), profile.ClassLabel)

	// staff have no student scope
	req, rec = newAuthRequest(http.MethodGet, "/api/student/me", getToken(t, staff))
	f.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func Test_studentMyAttendance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cls := testutil.CreateClass(t, f.rosterRepo, "UG", 2, "CS", 1, "English")
	st := testutil.CreateStudent(t, f.rosterRepo, cls.ID, "Anitha", "cs21", "2004-06-15")
	testutil.SetCalendarDay(t, f.calRepo, "2024-01-10", testutil.IntPtr(3), "")
	testutil.SetCalendarDay(t, f.calRepo, "2024-01-11", testutil.IntPtr(4), "")

	for _, mark := range []struct {
		date   string
		hour   int
		status string
	}{
		{"2024-01-10", 1, attendance.StatusPresent},
		{"2024-01-10", 2, attendance.StatusAbsent},
		{"2024-01-11", 1, attendance.StatusPresent},
		{"2024-01-11", 2, attendance.StatusOnDuty},
	} {
		_, err := f.attSvc.Mark(ctx, cls.ID, st.ID, mark.date, mark.hour, mark.status)
		require.NoError(t, err)
	}

	token := getStudentToken(t, st)

	req, rec := newAuthRequest(http.MethodGet, "/api/student/my-attendance", token)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp echoapi.MyAttendanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 4)
	assert.Equal(t, attendance.StudentStats{
		Percentage:   75.0,
		TotalPresent: 2,
		TotalAbsent:  1,
		TotalOnDuty:  1,
	}, resp.Stats)

	// a date range narrows the records but not the overall stats
	req, rec = newAuthRequest(http.MethodGet, "/api/student/my-attendance?from=2024-01-11&to=2024-01-11", token)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "2024-01-11", resp.Records[0].Date)
	assert.Equal(t, 75.0, resp.Stats.Percentage)
}

func Test_studentMyAttendance_noRecords(t *testing.T) {
	f := setup(t)

	cls := testutil.CreateClass(t, f.rosterRepo, "UG", 2, "CS", 1, "English")
	st := testutil.CreateStudent(t, f.rosterRepo, cls.ID, "Anitha", "cs21", "2004-06-15")

	req, rec := newAuthRequest(http.MethodGet, "/api/student/my-attendance", getStudentToken(t, st))
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp echoapi.MyAttendanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Records)
	assert.NotNil(t, resp.Records)
	assert.Equal(t, attendance.StudentStats{}, resp.Stats)
}
