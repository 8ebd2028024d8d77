package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core/calendar"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

type tutorApi struct {
	rosterSvc   *classroom.Service
	calendarSvc *calendar.Service
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := tutorApi{
		rosterSvc:   opts.ClassroomSvc,
		calendarSvc: opts.CalendarSvc,
	}

	tg := g.Group("/tutor", jwt, roleMiddleware(user.RoleTutor))
	tg.POST("/calendar", api.setCalendarDay)
	tg.POST("/students", api.addStudent)
}

// ownClass resolves the caller's assigned class; a tutor with no class is
// authorized for none of the tutor operations.
func (api *tutorApi) ownClass(ctx echo.Context) (classroom.Class, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return classroom.Class{}, errors.Wrap(err, "getting context claims")
	}
	cls, err := api.rosterSvc.ClassByTutor(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return classroom.Class{}, domainError(errors.Wrap(err, "finding tutor class"))
	}
	return cls, nil
}

// Handlers

func (api *tutorApi) setCalendarDay(ctx echo.Context) error {
	if _, err := api.ownClass(ctx); err != nil {
		return err
	}

	var data calendar.SetDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetDay")
	}

	day, err := api.calendarSvc.SetDay(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "setting calendar day")
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *tutorApi) addStudent(ctx echo.Context) error {
	cls, err := api.ownClass(ctx)
	if err != nil {
		return err
	}

	var data classroom.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	st, err := api.rosterSvc.AddStudent(ctx.Request().Context(), cls.ID, data)
	if err != nil {
		return domainError(errors.Wrap(err, "adding student"))
	}
	return ctx.JSON(http.StatusCreated, StudentCreatedResponse{StudentID: st.ID})
}

type StudentCreatedResponse struct {
	StudentID string `json:"studentId"`
}
