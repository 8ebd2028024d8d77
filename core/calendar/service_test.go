package calendar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcollege/rollbook/core/calendar"
	inmemrepos "github.com/kmcollege/rollbook/storage/inmem"
	testutil "github.com/kmcollege/rollbook/tests"
)

func setup() (*calendar.Service, calendar.Repository) {
	repo := inmemrepos.NewCalendarRepository()
	validate, _ := testutil.NewValidator()
	return calendar.NewService(repo, validate), repo
}

func TestService_SetDay(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	tests := []struct {
		name    string
		data    calendar.SetDay
		wantErr bool
	}{
		{name: "teaching day", data: calendar.SetDay{Date: "2024-01-10", DayOrder: testutil.IntPtr(3)}},
		{name: "holiday", data: calendar.SetDay{Date: "2024-01-26", EventTitle: "Republic Day"}},
		{name: "missing date", data: calendar.SetDay{DayOrder: testutil.IntPtr(1)}, wantErr: true},
		{name: "bad format", data: calendar.SetDay{Date: "10/01/2024"}, wantErr: true},
		{name: "not a real date", data: calendar.SetDay{Date: "2024-13-45"}, wantErr: true},
		{name: "day order out of range", data: calendar.SetDay{Date: "2024-01-11", DayOrder: testutil.IntPtr(7)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SetDay(ctx, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_SetDay_upsertReplaces(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	_, err := svc.SetDay(ctx, calendar.SetDay{Date: "2024-01-10", DayOrder: testutil.IntPtr(3)})
	require.NoError(t, err)

	// second write for the same date replaces the first
	_, err = svc.SetDay(ctx, calendar.SetDay{Date: "2024-01-10", EventTitle: "Pongal"})
	require.NoError(t, err)

	day, err := svc.GetDay(ctx, "2024-01-10")
	require.NoError(t, err)
	assert.True(t, day.IsHoliday())
	assert.Equal(t, "Pongal", day.EventTitle)
}

func TestService_Resolve(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	testutil.SetCalendarDay(t, repo, "2024-01-10", testutil.IntPtr(6), "")
	testutil.SetCalendarDay(t, repo, "2024-01-26", nil, "Republic Day")

	tests := []struct {
		name         string
		date         string
		wantTeaching bool
		wantOrder    int
		wantHours    int
	}{
		{name: "configured short day", date: "2024-01-10", wantTeaching: true, wantOrder: 6, wantHours: 5},
		{name: "configured holiday", date: "2024-01-26"},
		{name: "unconfigured date defaults to teaching", date: "2024-01-11", wantTeaching: true, wantOrder: calendar.DefaultDayOrder, wantHours: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := svc.Resolve(ctx, tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTeaching, day.Teaching)
			assert.Equal(t, tt.wantOrder, day.DayOrder)
			assert.Equal(t, tt.wantHours, day.Hours)
		})
	}
}

func TestService_IsTeachingDay(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	testutil.SetCalendarDay(t, repo, "2024-01-26", nil, "Republic Day")

	teaching, err := svc.IsTeachingDay(ctx, "2024-01-26")
	require.NoError(t, err)
	assert.False(t, teaching)

	teaching, err = svc.IsTeachingDay(ctx, "2024-01-11")
	require.NoError(t, err)
	assert.True(t, teaching)
}

func TestHoursForOrder(t *testing.T) {
	for order := 1; order <= 5; order++ {
		assert.Equal(t, 8, calendar.HoursForOrder(order))
	}
	assert.Equal(t, 5, calendar.HoursForOrder(6))
}
