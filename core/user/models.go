package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kmcollege/rollbook/core"
)

// Roles. These literal values travel in JWT claims and API payloads.
const (
	RoleStudent    = "student"
	RoleFaculty    = "faculty"
	RoleTutor      = "tutor"
	RoleSuperAdmin = "superadmin"
)

var (
	// StaffRoles are the roles a superadmin may grant when provisioning staff.
	StaffRoles = []string{RoleFaculty, RoleTutor, RoleSuperAdmin}

	rolePriorities = map[string]int{
		RoleSuperAdmin: 30,
		RoleTutor:      20,
		RoleFaculty:    10,
		RoleStudent:    1,
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

// PrimaryRole returns the highest-priority role; the frontend routes on it
// after login.
func PrimaryRole(roles []string) string {
	var max int
	primary := RoleStudent
	for _, role := range roles {
		if p := RolePriority(role); p > max {
			max = p
			primary = role
		}
	}
	return primary
}

// User is a staff principal (faculty, tutor and/or superadmin).
// Students are not Users; they live in the classroom roster and authenticate
// with register number + date of birth.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department"`
	Username     string    `json:"username"`
	Roles        []string  `json:"roles"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) hasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u *User) IsSuperAdmin() bool { return u.hasRole(RoleSuperAdmin) }
func (u *User) IsTutor() bool      { return u.hasRole(RoleTutor) }
func (u *User) IsFaculty() bool    { return u.hasRole(RoleFaculty) }

// NewUser contains information needed to provision a staff account.
type NewUser struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Department string   `json:"department" validate:"required"`
	Username   string   `json:"username" validate:"required,min=4,alphanum_"`
	Password   string   `json:"password" validate:"required"`
	Roles      []string `json:"roles" validate:"required,staffroles"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Department = core.CleanString(nu.Department)

	if err := svc.validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username, nu.Email)
}
