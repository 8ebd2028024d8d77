package classroom_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcollege/rollbook/core/classroom"
	inmemrepos "github.com/kmcollege/rollbook/storage/inmem"
	testutil "github.com/kmcollege/rollbook/tests"
)

func setup() (*classroom.Service, *inmemrepos.ClassroomRepository) {
	repo := inmemrepos.NewClassroomRepository()
	validate, _ := testutil.NewValidator()
	return classroom.NewService(repo, validate), repo
}

func TestService_CreateClass(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	tests := []struct {
		name    string
		data    classroom.NewClass
		wantErr bool
	}{
		{name: "valid", data: classroom.NewClass{DegreeType: "UG", Year: 2, Department: "CS", Shift: 1, Medium: "English"}},
		{name: "bad degree", data: classroom.NewClass{DegreeType: "PhD", Year: 1, Department: "CS", Shift: 1, Medium: "English"}, wantErr: true},
		{name: "year out of range", data: classroom.NewClass{DegreeType: "UG", Year: 4, Department: "CS", Shift: 1, Medium: "English"}, wantErr: true},
		{name: "shift out of range", data: classroom.NewClass{DegreeType: "UG", Year: 1, Department: "CS", Shift: 3, Medium: "English"}, wantErr: true},
		{name: "bad medium", data: classroom.NewClass{DegreeType: "UG", Year: 1, Department: "CS", Shift: 1, Medium: "French"}, wantErr: true},
		{name: "missing department", data: classroom.NewClass{DegreeType: "UG", Year: 1, Shift: 1, Medium: "English"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := svc.CreateClass(ctx, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cls.ID)
			assert.Equal(t, "2 UG CS (Shift 1) - English", cls.Label())
		})
	}
}

func TestService_Search(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	cs1 := testutil.CreateClass(t, repo, "UG", 1, "CS", 1, "English")
	cs2 := testutil.CreateClass(t, repo, "UG", 2, "CS", 1, "English")
	phy2 := testutil.CreateClass(t, repo, "UG", 2, "Physics", 2, "Tamil")

	// all filter fields are conjunctive
	classes, err := svc.Search(ctx, classroom.QueryFilter{Department: "CS", Year: 2})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, cs2.ID, classes[0].ID)

	// empty filter returns everything in creation order
	classes, err = svc.Search(ctx, classroom.QueryFilter{})
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, []string{cs1.ID, cs2.ID, phy2.ID}, []string{classes[0].ID, classes[1].ID, classes[2].ID})

	// no match
	classes, err = svc.Search(ctx, classroom.QueryFilter{Department: "History"})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestService_AssignTutor(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	cls := testutil.CreateClass(t, repo, "UG", 2, "CS", 1, "English")

	_, err := svc.ClassByTutor(ctx, "tutor-1")
	assert.Equal(t, classroom.ErrTutorNotAssigned, err)

	require.NoError(t, svc.AssignTutor(ctx, cls.ID, "tutor-1"))
	got, err := svc.ClassByTutor(ctx, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, cls.ID, got.ID)

	// last write wins; the previous tutor loses access
	require.NoError(t, svc.AssignTutor(ctx, cls.ID, "tutor-2"))
	_, err = svc.ClassByTutor(ctx, "tutor-1")
	assert.Equal(t, classroom.ErrTutorNotAssigned, err)

	assert.Equal(t, classroom.ErrClassNotFound, svc.AssignTutor(ctx, "nope", "tutor-1"))
}

func TestService_AssignTutor_reassignment(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	older := testutil.CreateClass(t, repo, "UG", 1, "CS", 1, "English")
	newer := testutil.CreateClass(t, repo, "UG", 2, "CS", 1, "English")

	require.NoError(t, svc.AssignTutor(ctx, newer.ID, "tutor-1"))

	// moving the tutor to an older class releases the newer one;
	// the last assignment wins regardless of class creation order
	require.NoError(t, svc.AssignTutor(ctx, older.ID, "tutor-1"))

	got, err := svc.ClassByTutor(ctx, "tutor-1")
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	released, err := svc.GetClass(ctx, newer.ID)
	require.NoError(t, err)
	assert.Empty(t, released.TutorID)
}

func TestService_AddStudent(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	cls := testutil.CreateClass(t, repo, "UG", 2, "CS", 1, "English")

	st, err := svc.AddStudent(ctx, cls.ID, classroom.NewStudent{Name: "Anitha", RegisterNumber: "CS21", DOB: "2004-06-15"})
	require.NoError(t, err)
	assert.Equal(t, "cs21", st.RegisterNumber) // stored lowercased
	assert.Equal(t, cls.ID, st.ClassID)

	// duplicate register number leaves the store unchanged
	_, err = svc.AddStudent(ctx, cls.ID, classroom.NewStudent{Name: "Other", RegisterNumber: "cs21", DOB: "2004-01-01"})
	assert.Equal(t, classroom.ErrDuplicateRegisterNumber, err)
	students, err := svc.StudentsForClass(ctx, cls.ID)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	// unknown class
	_, err = svc.AddStudent(ctx, "nope", classroom.NewStudent{Name: "X", RegisterNumber: "cs99", DOB: "2004-01-01"})
	assert.Equal(t, classroom.ErrClassNotFound, err)

	// invalid payloads
	_, err = svc.AddStudent(ctx, cls.ID, classroom.NewStudent{Name: "X", RegisterNumber: "cs-21!", DOB: "2004-01-01"})
	assert.Error(t, err)
	_, err = svc.AddStudent(ctx, cls.ID, classroom.NewStudent{Name: "X", RegisterNumber: "cs22", DOB: "15-06-2004"})
	assert.Error(t, err)
}

func TestService_GetStudentByRegisterNumber(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	cls := testutil.CreateClass(t, repo, "UG", 2, "CS", 1, "English")
	st := testutil.CreateStudent(t, repo, cls.ID, "Anitha", "cs21", "2004-06-15")

	got, err := svc.GetStudentByRegisterNumber(ctx, "cs21")
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)

	_, err = svc.GetStudentByRegisterNumber(ctx, "nope")
	assert.Equal(t, classroom.ErrStudentNotFound, err)
}
