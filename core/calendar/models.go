package calendar

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kmcollege/rollbook/core"
)

// Day is one configured calendar date. A nil DayOrder marks the date a
// holiday regardless of EventTitle.
type Day struct {
	Date       string    `json:"date"` // YYYY-MM-DD
	DayOrder   *int      `json:"day_order,omitempty"`
	EventTitle string    `json:"event_title,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

func (d Day) IsHoliday() bool {
	return d.DayOrder == nil
}

// SetDay is the upsert payload; a second write for the same date replaces
// the first.
type SetDay struct {
	Date       string `json:"date" validate:"required,date_"`
	DayOrder   *int   `json:"day_order" validate:"omitempty,min=1,max=6"`
	EventTitle string `json:"event_title"`
}

func (sd *SetDay) Validate(validate *validator.Validate) error {
	sd.Date = core.CleanString(sd.Date)
	sd.EventTitle = core.CleanString(sd.EventTitle)
	if err := validate.Struct(sd); err != nil {
		return err
	}
	if _, err := time.Parse(core.DateLayout, sd.Date); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date"})
	}
	return nil
}

// ResolvedDay is what the rest of the system sees for a date once the
// fallback policy for unconfigured dates has been applied.
type ResolvedDay struct {
	Date       string `json:"date"`
	Teaching   bool   `json:"teaching"`
	DayOrder   int    `json:"day_order,omitempty"` // 0 on holidays
	Hours      int    `json:"hours,omitempty"`     // number of periods; 0 on holidays
	EventTitle string `json:"event_title,omitempty"`
}
