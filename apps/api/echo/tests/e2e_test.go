package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/kmcollege/rollbook/apps/api/echo"
	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/calendar"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
	testutil "github.com/kmcollege/rollbook/tests"
)

// Test_fullTerm walks the whole product flow over HTTP: the admin sets up a
// class and a tutor, the tutor enrolls a student and configures the calendar,
// attendance gets submitted, and the student reads it back.
func Test_fullTerm(t *testing.T) {
	f := setup(t)

	admin := testutil.CreateUser(t, f.usrRepo, "Root", "root", "root@kmc.edu", "", []string{user.RoleSuperAdmin}, true)
	adminToken := getToken(t, admin)

	// admin creates the class
	body := marchallObj(t, classroom.NewClass{DegreeType: "UG", Year: 2, Department: "CS", Shift: 1, Medium: "English"})
	req, rec := newAuthRequest(http.MethodPost, "/api/admin/classes", adminToken, body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created echoapi.ClassCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// admin registers the tutor account
	body = marchallObj(t, user.NewUser{
		Name:       "Meena Tutor",
		Email:      "meena@kmc.edu",
		Department: "CS",
		Username:   "meena",
		Password:   "G00d#pass",
		Roles:      []string{user.RoleTutor},
	})
	req, rec = newAuthRequest(http.MethodPost, "/api/staff/register", adminToken, body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var staff echoapi.StaffCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &staff))

	// and assigns them to the class
	body = marchallObj(t, echoapi.AssignTutorRequest{TutorID: staff.UserID})
	req, rec = newAuthRequest(http.MethodPut, "/api/admin/classes/"+created.ClassID+"/assign-tutor", adminToken, body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// tutor logs in
	body = marchallObj(t, echoapi.LoginRequest{Identifier: "meena", Password: "G00d#pass"})
	req, rec = newRequest(http.MethodPost, "/api/login", body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var login echoapi.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, user.RoleTutor, login.Role)
	tutorToken := login.AccessToken

	// enrolls a student
	body = marchallObj(t, classroom.NewStudent{Name: "Anitha", RegisterNumber: "CS21", DOB: "2004-06-15"})
	req, rec = newAuthRequest(http.MethodPost, "/api/tutor/students", tutorToken, body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var enrolled echoapi.StudentCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enrolled))

	// configures a teaching day
	body = marchallObj(t, calendar.SetDay{Date: "2024-01-10", DayOrder: testutil.IntPtr(3)})
	req, rec = newAuthRequest(http.MethodPost, "/api/tutor/calendar", tutorToken, body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// and submits attendance for period 2
	body = marchallObj(t, echoapi.SubmitAttendanceRequest{
		ClassID: created.ClassID, Date: "2024-01-10", Hour: 2,
		Records: []attendance.BatchRow{{StudentID: enrolled.StudentID, Status: attendance.StatusPresent}},
	})
	req, rec = newAuthRequest(http.MethodPost, "/api/staff/submit-attendance", tutorToken, body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var res attendance.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, attendance.SubmitResult{Accepted: 1, Rejected: []attendance.Rejection{}}, res)

	// student logs in with register number and date of birth
	body = marchallObj(t, echoapi.LoginRequest{Identifier: "CS21", Password: "2004-06-15"})
	req, rec = newRequest(http.MethodPost, "/api/login", body)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, user.RoleStudent, login.Role)

	// and reads back their record
	req, rec = newAuthRequest(http.MethodGet, "/api/student/my-attendance", login.AccessToken)
	f.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine echoapi.MyAttendanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine.Records, 1)
	assert.Equal(t, "2024-01-10", mine.Records[0].Date)
	assert.Equal(t, 2, mine.Records[0].Hour)
	assert.Equal(t, attendance.StatusPresent, mine.Records[0].Status)
	assert.Equal(t, 100.0, mine.Stats.Percentage)
}
