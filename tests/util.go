package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kmcollege/rollbook/core"
	"github.com/kmcollege/rollbook/core/calendar"
	"github.com/kmcollege/rollbook/core/classroom"
	"github.com/kmcollege/rollbook/core/user"
)

// NewValidator returns a fully initialized validator and translator pair.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClass(
	t *testing.T,
	repo classroom.Repository,
	degreeType string,
	year int,
	department string,
	shift int,
	medium string,
) classroom.Class {
	t.Helper()

	cls := classroom.Class{
		ID:         uuid.New().String(),
		DegreeType: degreeType,
		Year:       year,
		Department: department,
		Shift:      shift,
		Medium:     medium,
		CreatedAt:  time.Now().UTC(),
	}
	cls, err := repo.CreateClass(context.Background(), cls)
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateStudent(
	t *testing.T,
	repo classroom.Repository,
	classID, name, registerNumber, dob string,
) classroom.Student {
	t.Helper()

	st := classroom.Student{
		ID:             uuid.New().String(),
		Name:           name,
		RegisterNumber: registerNumber,
		DOB:            dob,
		ClassID:        classID,
		CreatedAt:      time.Now().UTC(),
	}
	st, err := repo.CreateStudent(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func SetCalendarDay(
	t *testing.T,
	repo calendar.Repository,
	date string,
	dayOrder *int,
	eventTitle string,
) calendar.Day {
	t.Helper()

	day, err := repo.UpsertDay(context.Background(), calendar.Day{
		Date:       date,
		DayOrder:   dayOrder,
		EventTitle: eventTitle,
		UpdatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SetCalendarDay() failed: %v", err)
	}
	return day
}

func IntPtr(i int) *int { return &i }
