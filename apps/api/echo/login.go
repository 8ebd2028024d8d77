package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

type authApi struct {
	userSvc   *user.Service
	rosterSvc *classroom.Service
	validate  *validator.Validate
}

func registerAuthAPI(g *echo.Group, opts *Options) {
	api := authApi{
		userSvc:   opts.UserSvc,
		rosterSvc: opts.ClassroomSvc,
		validate:  opts.Validate,
	}

	g.POST("/login", api.login)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Identifier, data.Password, api.userSvc, api.rosterSvc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{AccessToken: token, Role: claims.PrimaryRole()})
}

type (
	LoginRequest struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Identifier = core.CleanString(lr.Identifier, true /* lower */)
	return validate.Struct(lr)
}
