package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core/calendar"
)

type dayRow struct {
	Date       string        `db:"date"`
	DayOrder   sql.NullInt64 `db:"day_order"`
	EventTitle string        `db:"event_title"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

func newDayRow(day calendar.Day) dayRow {
	row := dayRow{
		Date:       day.Date,
		EventTitle: day.EventTitle,
		UpdatedAt:  day.UpdatedAt,
	}
	if day.DayOrder != nil {
		row.DayOrder = sql.NullInt64{Int64: int64(*day.DayOrder), Valid: true}
	}
	return row
}

func (row dayRow) toDay() calendar.Day {
	day := calendar.Day{
		Date:       row.Date,
		EventTitle: row.EventTitle,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.DayOrder.Valid {
		order := int(row.DayOrder.Int64)
		day.DayOrder = &order
	}
	return day
}

type CalendarRepository struct {
	db *sqlx.DB
}

var _ calendar.Repository = (*CalendarRepository)(nil)

func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (repo *CalendarRepository) UpsertDay(ctx context.Context, day calendar.Day) (calendar.Day, error) {
	query := `
		INSERT INTO calendar_day (date, day_order, event_title, updated_at)
		VALUES (:date, :day_order, :event_title, :updated_at)
		ON CONFLICT (date) DO UPDATE
		SET day_order = EXCLUDED.day_order, event_title = EXCLUDED.event_title, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, query, newDayRow(day)); err != nil {
		return calendar.Day{}, unavailable(err, "upserting calendar day")
	}
	return day, nil
}

func (repo *CalendarRepository) GetDay(ctx context.Context, date string) (calendar.Day, error) {
	var row dayRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM calendar_day WHERE date = $1`, date); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return calendar.Day{}, calendar.ErrNotConfigured
		}
		return calendar.Day{}, unavailable(err, "getting calendar day")
	}
	return row.toDay(), nil
}
