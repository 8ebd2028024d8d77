package inmemrepos

import (
	"context"
	"sync"

	"github.com/kmcollege/rollbook/core/calendar"
)

type CalendarRepository struct {
	mu   sync.RWMutex
	days map[string]calendar.Day
}

var _ calendar.Repository = (*CalendarRepository)(nil)

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{days: make(map[string]calendar.Day)}
}

func (repo *CalendarRepository) UpsertDay(ctx context.Context, day calendar.Day) (calendar.Day, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.days[day.Date] = day
	return day, nil
}

func (repo *CalendarRepository) GetDay(ctx context.Context, date string) (calendar.Day, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if day, ok := repo.days[date]; ok {
		return day, nil
	}
	return calendar.Day{}, calendar.ErrNotConfigured
}
