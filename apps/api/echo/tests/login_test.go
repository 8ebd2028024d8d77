package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/kmcollege/rollbook/apps/api/echo"
	"github.com/kmcollege/rollbook/core/user"
	testutil "github.com/kmcollege/rollbook/tests"
)

func Test_login(t *testing.T) {
	f := setup(t)

	staff := testutil.CreateUser(t, f.usrRepo, "Meena", "meena", "meena@kmc.edu", "G00d#pass",
		[]string{user.RoleTutor, user.RoleFaculty}, true)
	inactive := testutil.CreateUser(t, f.usrRepo, "Gone", "gone", "gone@kmc.edu", "G00d#pass",
		[]string{user.RoleFaculty}, false)
	_ = inactive

	cls := testutil.CreateClass(t, f.rosterRepo, "UG", 2, "CS", 1, "English")
	st := testutil.CreateStudent(t, f.rosterRepo, cls.ID, "Anitha", "cs21", "2004-06-15")

	tests := []httpTest{
		{
			name:     "staff login returns token and primary role",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: staff.Username, Password: "G00d#pass"}),
			wantCode: http.StatusOK,
			extra:    user.RoleTutor,
		},
		{
			name:     "staff login with email",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: "MEENA@kmc.edu", Password: "G00d#pass"}),
			wantCode: http.StatusOK,
			extra:    user.RoleTutor,
		},
		{
			name:     "student login with register number and dob",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: st.RegisterNumber, Password: st.DOB}),
			wantCode: http.StatusOK,
			extra:    user.RoleStudent,
		},
		{
			name:     "wrong password",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: staff.Username, Password: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "wrong dob",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: st.RegisterNumber, Password: "2004-06-16"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "unknown identifier",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: "ghost", Password: "whatever"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid credentials"}),
		},
		{
			name:     "deactivated account",
			body:     marchallObj(t, echoapi.LoginRequest{Identifier: "gone", Password: "G00d#pass"}),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "missing fields",
			body:     marchallObj(t, echoapi.LoginRequest{}),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"identifier": "this field is required", "password": "this field is required"}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/login", tt.body)
			f.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if wantRole, ok := tt.extra.(string); ok {
				var resp echoapi.LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.AccessToken)
				assert.Equal(t, wantRole, resp.Role)
			}
		})
	}
}
