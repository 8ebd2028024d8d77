package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

type adminApi struct {
	userSvc       *user.Service
	rosterSvc     *classroom.Service
	attendanceSvc *attendance.Service
	validate      *validator.Validate
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := adminApi{
		userSvc:       opts.UserSvc,
		rosterSvc:     opts.ClassroomSvc,
		attendanceSvc: opts.AttendanceSvc,
		validate:      opts.Validate,
	}

	superadmin := roleMiddleware(user.RoleSuperAdmin)
	staff := roleMiddleware(user.StaffRoles...)

	ag := g.Group("/admin", jwt)
	ag.GET("/stats", api.stats, superadmin)
	ag.GET("/classes", api.queryClasses, staff)
	ag.POST("/classes", api.createClass, superadmin)
	ag.PUT("/classes/:id/assign-tutor", api.assignTutor, superadmin)
	ag.GET("/staff", api.queryStaff, superadmin)

	sg := g.Group("/staff", jwt)
	sg.POST("/register", api.createStaff, superadmin)
}

// Handlers

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.attendanceSvc.StatsForCollege(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing college stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *adminApi) queryClasses(ctx echo.Context) error {
	filter := new(classroom.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	classes, err := api.rosterSvc.Search(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "searching classes")
	}
	if classes == nil {
		classes = []classroom.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *adminApi) createClass(ctx echo.Context) error {
	var data classroom.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}

	cls, err := api.rosterSvc.CreateClass(ctx.Request().Context(), data)
	if err != nil {
		return domainError(errors.Wrap(err, "creating class"))
	}
	return ctx.JSON(http.StatusCreated, ClassCreatedResponse{ClassID: cls.ID})
}

func (api *adminApi) assignTutor(ctx echo.Context) error {
	var data AssignTutorRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignTutorRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	// the tutor principal must exist; holding the tutor role is not checked,
	// assignment implicitly grants tutor scope for this class
	if _, err := api.userSvc.GetByID(ctx.Request().Context(), data.TutorID); err != nil {
		return domainError(errors.Wrap(err, "finding tutor"))
	}
	if err := api.rosterSvc.AssignTutor(ctx.Request().Context(), ctx.Param("id"), data.TutorID); err != nil {
		return domainError(errors.Wrap(err, "assigning tutor"))
	}
	return ctx.NoContent(http.StatusOK)
}

func (api *adminApi) createStaff(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.userSvc); err != nil {
		return err
	}

	usr, err := api.userSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, StaffCreatedResponse{UserID: usr.ID})
}

func (api *adminApi) queryStaff(ctx echo.Context) error {
	users, err := api.userSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

type (
	ClassCreatedResponse struct {
		ClassID string `json:"classId"`
	}

	AssignTutorRequest struct {
		TutorID string `json:"tutorId" validate:"required"`
	}

	StaffCreatedResponse struct {
		UserID string `json:"userId"`
	}
)

func (ar *AssignTutorRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ar)
}
