package classroom

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrClassNotFound           = errors.New("class not found")
	ErrStudentNotFound         = errors.New("student not found")
	ErrTutorNotAssigned        = errors.New("no class assigned to this tutor")
	ErrDuplicateRegisterNumber = errors.New("a student with this register number already exists")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		// FilterClasses applies AND on set QueryFilter fields;
		// an empty filter returns all classes in creation order.
		FilterClasses(ctx context.Context, filter QueryFilter) ([]Class, error)
		// SetClassTutor updates the tutor reference as a single write;
		// the previous tutor loses access atomically with the new one gaining it.
		SetClassTutor(ctx context.Context, classID, tutorID string) error
		GetClassByTutor(ctx context.Context, tutorID string) (Class, error)

		CreateStudent(ctx context.Context, st Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByRegisterNumber(ctx context.Context, reg string) (Student, error)
		QueryStudentsByClass(ctx context.Context, classID string) ([]Student, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	cls := Class{
		ID:         uuid.New().String(),
		DegreeType: nc.DegreeType,
		Year:       nc.Year,
		Department: nc.Department,
		Shift:      nc.Shift,
		Medium:     nc.Medium,
		CreatedAt:  time.Now().UTC(),
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

// AssignTutor overwrites any existing tutor assignment; last write wins.
func (svc *Service) AssignTutor(ctx context.Context, classID, tutorID string) error {
	return svc.repo.SetClassTutor(ctx, classID, tutorID)
}

func (svc *Service) Search(ctx context.Context, filter QueryFilter) ([]Class, error) {
	filter.Clean()
	return svc.repo.FilterClasses(ctx, filter)
}

// ClassByTutor returns the class currently assigned to the tutor;
// ErrTutorNotAssigned when there is none.
func (svc *Service) ClassByTutor(ctx context.Context, tutorID string) (Class, error) {
	cls, err := svc.repo.GetClassByTutor(ctx, tutorID)
	if err != nil {
		if errors.Cause(err) == ErrClassNotFound {
			return Class{}, ErrTutorNotAssigned
		}
		return Class{}, err
	}
	return cls, nil
}

func (svc *Service) AddStudent(ctx context.Context, classID string, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if _, err := svc.repo.GetClassByID(ctx, classID); err != nil {
		return Student{}, err
	}
	st := Student{
		ID:             uuid.New().String(),
		Name:           ns.Name,
		RegisterNumber: ns.RegisterNumber,
		DOB:            ns.DOB,
		ClassID:        classID,
		CreatedAt:      time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, st)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetStudentByRegisterNumber(ctx context.Context, reg string) (Student, error) {
	return svc.repo.GetStudentByRegisterNumber(ctx, reg)
}

func (svc *Service) StudentsForClass(ctx context.Context, classID string) ([]Student, error) {
	if _, err := svc.repo.GetClassByID(ctx, classID); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudentsByClass(ctx, classID)
}
