package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kmcollege/rollbook/core"
	"github.com/kmcollege/rollbook/core/user"
)

const superAdminUsername = "superadmin"

// createSuperAdmin bootstraps the superadmin account, or repairs it (role,
// active flag, password) when it already exists.
func (cli *commandLine) createSuperAdmin(email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsername(ctx, superAdminUsername)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.New().String(),
			Name:      "Super Admin",
			Email:     email,
			Username:  superAdminUsername,
			Roles:     []string{user.RoleSuperAdmin},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	usr.Roles = []string{user.RoleSuperAdmin}
	usr.IsActive = true
	if email != "" {
		usr.Email = email
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
