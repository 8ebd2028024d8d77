package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

// appJWTConfig is the default JWT auth middleware config.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "userToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
// Roles are embedded at issuance: a role change by a superadmin only takes
// effect on the principal's next login.
type Claims struct {
	jwt.StandardClaims
	Name      string   `json:"name,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	IsStudent bool     `json:"is_student,omitempty"` // -> STUDENT DASHBOARD
	IsStaff   bool     `json:"is_staff,omitempty"`   // -> STAFF/ADMIN DASHBOARD
}

func (c Claims) hasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c Claims) PrimaryRole() string { return user.PrimaryRole(c.Roles) }

func newStandardClaims(subject string) jwt.StandardClaims {
	now := time.Now()
	return jwt.StandardClaims{
		Issuer:    core.Conf.AppName,
		Subject:   subject,
		ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
		IssuedAt:  now.Unix(),
	}
}

func GetUserClaims(usr user.User) *Claims {
	return &Claims{
		StandardClaims: newStandardClaims(usr.ID),
		Name:           usr.Name,
		Roles:          usr.Roles,
		IsStaff:        true,
	}
}

func GetStudentClaims(st classroom.Student) *Claims {
	return &Claims{
		StandardClaims: newStandardClaims(st.ID),
		Name:           st.Name,
		Roles:          []string{user.RoleStudent},
		IsStudent:      true,
	}
}

// authenticate resolves the identifier along the dual path: a staff username
// or email checked against the password hash, else a student register number
// checked against the date of birth.
func authenticate(ctx context.Context, identifier, secret string, userSvc *user.Service, rosterSvc *classroom.Service) (*Claims, error) {
	usr, err := userSvc.GetByUsernameOrEmail(ctx, identifier)
	if err == nil {
		if err = usr.CheckPassword(secret); err != nil {
			return nil, errAuthenticationFailed
		}
		if !usr.IsActive {
			return nil, errAccountDeactivated
		}
		if usr, err = userSvc.SetLastLogin(ctx, usr); err != nil {
			return nil, errors.Wrap(err, "setting lastLogin")
		}
		return GetUserClaims(usr), nil
	}
	if errors.Cause(err) != user.ErrNotFound {
		return nil, errors.Wrap(err, "finding user by username or email")
	}

	st, err := rosterSvc.GetStudentByRegisterNumber(ctx, core.CleanString(identifier, true /* lower */))
	if err != nil {
		if errors.Cause(err) == classroom.ErrStudentNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding student by register number")
	}
	if st.DOB != secret {
		return nil, errAuthenticationFailed
	}
	return GetStudentClaims(st), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
