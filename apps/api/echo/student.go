package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core"
	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

type studentApi struct {
	rosterSvc     *classroom.Service
	attendanceSvc *attendance.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentApi{
		rosterSvc:     opts.ClassroomSvc,
		attendanceSvc: opts.AttendanceSvc,
	}

	// all reads are scoped to the caller's own id from the token
	sg := g.Group("/student", jwt, roleMiddleware(user.RoleStudent))
	sg.GET("/me", api.me)
	sg.GET("/my-attendance", api.myAttendance)
}

// Handlers

func (api *studentApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	st, err := api.rosterSvc.GetStudent(rctx, claims.Subject)
	if err != nil {
		return domainError(errors.Wrap(err, "finding student"))
	}

	profile := StudentProfile{Student: st}
	if cls, err := api.rosterSvc.GetClass(rctx, st.ClassID); err == nil {
		profile.ClassLabel = cls.Label()
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *studentApi) myAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rctx := ctx.Request().Context()
	from := core.CleanString(ctx.QueryParam("from"))
	to := core.CleanString(ctx.QueryParam("to"))

	records, err := api.attendanceSvc.RecordsForStudent(rctx, claims.Subject, from, to)
	if err != nil {
		return domainError(errors.Wrap(err, "listing attendance records"))
	}
	if records == nil {
		records = []attendance.Record{}
	}
	stats, err := api.attendanceSvc.StatsForStudent(rctx, claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing student stats")
	}

	return ctx.JSON(http.StatusOK, MyAttendanceResponse{Stats: stats, Records: records})
}

type (
	StudentProfile struct {
		classroom.Student
		ClassLabel string `json:"classLabel,omitempty"`
	}

	MyAttendanceResponse struct {
		Stats   attendance.StudentStats `json:"stats"`
		Records []attendance.Record     `json:"records"`
	}
)
