package calendar

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	// ErrNotConfigured signals a date with no calendar entry at all.
	ErrNotConfigured = errors.New("no calendar entry for this date")
)

// DefaultDayOrder applies to dates with no calendar entry: they are treated
// as ordinary teaching days. Holidays must be configured explicitly.
const DefaultDayOrder = 1

// hoursByDayOrder maps a day order to the number of periods that run.
// Orders 1-5 are full days; order 6 is the short (Saturday) pattern.
var hoursByDayOrder = map[int]int{1: 8, 2: 8, 3: 8, 4: 8, 5: 8, 6: 5}

// HoursForOrder returns the number of periods for a day order.
func HoursForOrder(order int) int {
	return hoursByDayOrder[order]
}

type (
	Repository interface {
		// UpsertDay replaces any existing entry for the same date.
		UpsertDay(ctx context.Context, day Day) (Day, error)
		GetDay(ctx context.Context, date string) (Day, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) SetDay(ctx context.Context, sd SetDay) (Day, error) {
	if err := sd.Validate(svc.validate); err != nil {
		return Day{}, err
	}
	day := Day{
		Date:       sd.Date,
		DayOrder:   sd.DayOrder,
		EventTitle: sd.EventTitle,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpsertDay(ctx, day)
}

func (svc *Service) GetDay(ctx context.Context, date string) (Day, error) {
	return svc.repo.GetDay(ctx, date)
}

// IsTeachingDay is false only when a configured entry exists with no day order.
func (svc *Service) IsTeachingDay(ctx context.Context, date string) (bool, error) {
	rd, err := svc.Resolve(ctx, date)
	if err != nil {
		return false, err
	}
	return rd.Teaching, nil
}

// Resolve applies the unconfigured-date fallback: no entry means a teaching
// day with DefaultDayOrder.
func (svc *Service) Resolve(ctx context.Context, date string) (ResolvedDay, error) {
	day, err := svc.repo.GetDay(ctx, date)
	if err != nil {
		if errors.Cause(err) == ErrNotConfigured {
			return ResolvedDay{
				Date:     date,
				Teaching: true,
				DayOrder: DefaultDayOrder,
				Hours:    HoursForOrder(DefaultDayOrder),
			}, nil
		}
		return ResolvedDay{}, err
	}
	if day.IsHoliday() {
		return ResolvedDay{Date: date, EventTitle: day.EventTitle}, nil
	}
	return ResolvedDay{
		Date:       date,
		Teaching:   true,
		DayOrder:   *day.DayOrder,
		Hours:      HoursForOrder(*day.DayOrder),
		EventTitle: day.EventTitle,
	}, nil
}
