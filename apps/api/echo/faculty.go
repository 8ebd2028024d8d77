package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core"
	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/calendar"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

type facultyApi struct {
	rosterSvc     *classroom.Service
	calendarSvc   *calendar.Service
	attendanceSvc *attendance.Service
	validate      *validator.Validate
}

func registerFacultyAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := facultyApi{
		rosterSvc:     opts.ClassroomSvc,
		calendarSvc:   opts.CalendarSvc,
		attendanceSvc: opts.AttendanceSvc,
		validate:      opts.Validate,
	}

	teaching := roleMiddleware(user.RoleFaculty, user.RoleTutor)

	fg := g.Group("/faculty", jwt, teaching)
	fg.GET("/my-schedule", api.mySchedule)
	fg.GET("/class-list/:classId", api.classList)
	fg.POST("/mark-attendance", api.markAttendance)

	sg := g.Group("/staff", jwt, teaching)
	sg.GET("/class-students/:classId", api.classStudents)
	sg.POST("/submit-attendance", api.submitAttendance)
}

func today() string {
	return time.Now().UTC().Format(core.DateLayout)
}

// Handlers

// mySchedule lists the classes the caller may mark this date, per period.
// An assigned tutor sees their own class; everyone else on the teaching
// staff browses all classes.
func (api *facultyApi) mySchedule(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	day, err := api.calendarSvc.Resolve(rctx, today())
	if err != nil {
		return errors.Wrap(err, "resolving calendar day")
	}

	resp := ScheduleResponse{Today: day, Schedule: []ScheduleEntry{}}
	if !day.Teaching {
		return ctx.JSON(http.StatusOK, resp)
	}

	var classes []classroom.Class
	if claims.hasRole(user.RoleTutor) {
		cls, err := api.rosterSvc.ClassByTutor(rctx, claims.Subject)
		switch errors.Cause(err) {
		case nil:
			classes = []classroom.Class{cls}
		case classroom.ErrTutorNotAssigned: // fall through to browsing
		default:
			return errors.Wrap(err, "finding tutor class")
		}
	}
	if classes == nil {
		if classes, err = api.rosterSvc.Search(rctx, classroom.QueryFilter{}); err != nil {
			return errors.Wrap(err, "searching classes")
		}
	}

	summaries := make([]ClassSummary, len(classes))
	for i, cls := range classes {
		summaries[i] = ClassSummary{ClassID: cls.ID, Label: cls.Label()}
	}
	for hour := 1; hour <= day.Hours; hour++ {
		resp.Schedule = append(resp.Schedule, ScheduleEntry{Hour: hour, Classes: summaries})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *facultyApi) classList(ctx echo.Context) error {
	date := core.CleanString(ctx.QueryParam("date"))
	if date == "" {
		date = today()
	}

	sheet, err := api.attendanceSvc.ClassAttendanceSheet(ctx.Request().Context(), ctx.Param("classId"), date)
	if err != nil {
		return domainError(errors.Wrap(err, "building attendance sheet"))
	}
	return ctx.JSON(http.StatusOK, sheet)
}

func (api *facultyApi) markAttendance(ctx echo.Context) error {
	var data MarkAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendanceRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Date == "" {
		data.Date = today()
	}

	rec, err := api.attendanceSvc.Mark(ctx.Request().Context(), data.ClassID, data.StudentID, data.Date, data.Hour, data.Status)
	if err != nil {
		return domainError(errors.Wrap(err, "marking attendance"))
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *facultyApi) classStudents(ctx echo.Context) error {
	var query ClassStudentsQuery
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to ClassStudentsQuery")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}
	if query.Date == "" {
		query.Date = today()
	}

	students, err := api.attendanceSvc.ClassStatusList(ctx.Request().Context(), ctx.Param("classId"), query.Date, query.Hour)
	if err != nil {
		return domainError(errors.Wrap(err, "listing class students"))
	}
	if students == nil {
		students = []attendance.StudentWithStatus{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *facultyApi) submitAttendance(ctx echo.Context) error {
	var data SubmitAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAttendanceRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if data.Date == "" {
		data.Date = today()
	}

	res, err := api.attendanceSvc.SubmitBatch(ctx.Request().Context(), data.ClassID, data.Date, data.Hour, data.Records)
	if err != nil {
		return domainError(errors.Wrap(err, "submitting attendance batch"))
	}
	return ctx.JSON(http.StatusOK, res)
}

type (
	ScheduleResponse struct {
		Today    calendar.ResolvedDay `json:"today"`
		Schedule []ScheduleEntry      `json:"schedule"`
	}

	ScheduleEntry struct {
		Hour    int            `json:"hour"`
		Classes []ClassSummary `json:"classes"`
	}

	ClassSummary struct {
		ClassID string `json:"classId"`
		Label   string `json:"label"`
	}

	MarkAttendanceRequest struct {
		StudentID string `json:"studentId" validate:"required"`
		ClassID   string `json:"classId"`
		Date      string `json:"date" validate:"omitempty,date_"`
		Hour      int    `json:"hour" validate:"required,min=1"`
		Status    string `json:"status" validate:"required"`
	}

	ClassStudentsQuery struct {
		Date string `query:"date" validate:"omitempty,date_"`
		Hour int    `query:"hour" validate:"required,min=1"`
	}

	SubmitAttendanceRequest struct {
		ClassID string                `json:"classId" validate:"required"`
		Date    string                `json:"date" validate:"omitempty,date_"`
		Hour    int                   `json:"hour" validate:"required,min=1"`
		Records []attendance.BatchRow `json:"records" validate:"required,dive"`
	}
)

func (mr *MarkAttendanceRequest) Validate(validate *validator.Validate) error {
	mr.Date = core.CleanString(mr.Date)
	return validate.Struct(mr)
}

func (cq *ClassStudentsQuery) Validate(validate *validator.Validate) error {
	cq.Date = core.CleanString(cq.Date)
	return validate.Struct(cq)
}

func (sr *SubmitAttendanceRequest) Validate(validate *validator.Validate) error {
	sr.Date = core.CleanString(sr.Date)
	return validate.Struct(sr)
}
