package attendance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcollege/rollbook/core/attendance"
	testutil "github.com/kmcollege/rollbook/tests"
)

func TestService_StatsForStudent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// 8 present + 1 absent + 1 on_duty across two days
	for hour := 1; hour <= 8; hour++ {
		_, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", hour, attendance.StatusPresent)
		require.NoError(t, err)
	}
	_, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-11", 1, attendance.StatusAbsent)
	require.NoError(t, err)
	_, err = f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-11", 2, attendance.StatusOnDuty)
	require.NoError(t, err)

	stats, err := f.svc.StatsForStudent(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StudentStats{
		Percentage:   90.0, // on_duty counts as present-equivalent
		TotalPresent: 8,
		TotalAbsent:  1,
		TotalOnDuty:  1,
	}, stats)
}

func TestService_StatsForStudent_noRecords(t *testing.T) {
	f := setup(t)

	stats, err := f.svc.StatsForStudent(context.Background(), f.student.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StudentStats{}, stats)
}

func TestService_StatsForCollege(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// CS: one student, 3/4 marked hours present-equivalent
	for hour, status := range map[int]string{
		1: attendance.StatusPresent,
		2: attendance.StatusPresent,
		3: attendance.StatusOnDuty,
		4: attendance.StatusAbsent,
	} {
		_, err := f.svc.Mark(ctx, f.cls.ID, f.student.ID, "2024-01-10", hour, status)
		require.NoError(t, err)
	}

	// Physics: two students, 1/2 marked hours present
	phy := testutil.CreateClass(t, f.roster, "UG", 1, "Physics", 1, "Tamil")
	p1 := testutil.CreateStudent(t, f.roster, phy.ID, "Dev", "ph01", "2005-02-01")
	p2 := testutil.CreateStudent(t, f.roster, phy.ID, "Ezhil", "ph02", "2005-04-12")
	_, err := f.svc.Mark(ctx, phy.ID, p1.ID, "2024-01-10", 1, attendance.StatusPresent)
	require.NoError(t, err)
	_, err = f.svc.Mark(ctx, phy.ID, p2.ID, "2024-01-10", 1, attendance.StatusAbsent)
	require.NoError(t, err)

	stats, err := f.svc.StatsForCollege(ctx)
	require.NoError(t, err)

	assert.Equal(t, []attendance.DepartmentStat{
		{Department: "CS", Percentage: 75.0},
		{Department: "Physics", Percentage: 50.0},
	}, stats.DepartmentStats)

	// hours-weighted: (3+1) present-equivalent over 6 marked hours,
	// not the average of the department percentages
	assert.Equal(t, 66.67, stats.CollegePercentage)
}

func TestService_StatsForCollege_empty(t *testing.T) {
	f := setup(t)

	stats, err := f.svc.StatsForCollege(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.CollegePercentage)
	assert.Empty(t, stats.DepartmentStats)
}
