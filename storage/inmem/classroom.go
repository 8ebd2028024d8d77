package inmemrepos

import (
	"context"
	"sync"

	"github.com/kmcollege/rollbook/core/classroom"
)

type ClassroomRepository struct {
	mu           sync.RWMutex
	classes      map[string]classroom.Class
	classOrder   []string
	students     map[string]classroom.Student
	studentOrder []string
}

var _ classroom.Repository = (*ClassroomRepository)(nil)

func NewClassroomRepository() *ClassroomRepository {
	return &ClassroomRepository{
		classes:  make(map[string]classroom.Class),
		students: make(map[string]classroom.Student),
	}
}

func (repo *ClassroomRepository) CreateClass(ctx context.Context, cls classroom.Class) (classroom.Class, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.classes[cls.ID] = cls
	repo.classOrder = append(repo.classOrder, cls.ID)
	return cls, nil
}

func (repo *ClassroomRepository) GetClassByID(ctx context.Context, id string) (classroom.Class, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if cls, ok := repo.classes[id]; ok {
		return cls, nil
	}
	return classroom.Class{}, classroom.ErrClassNotFound
}

func (repo *ClassroomRepository) FilterClasses(ctx context.Context, filter classroom.QueryFilter) ([]classroom.Class, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	classes := make([]classroom.Class, 0, len(repo.classOrder))
	for _, id := range repo.classOrder {
		if cls := repo.classes[id]; filter.Matches(cls) {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

// SetClassTutor releases the tutor's previous class before assigning the new
// one; a tutor holds at most one class at a time.
func (repo *ClassroomRepository) SetClassTutor(ctx context.Context, classID, tutorID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	cls, ok := repo.classes[classID]
	if !ok {
		return classroom.ErrClassNotFound
	}
	for id, prev := range repo.classes {
		if prev.TutorID == tutorID {
			prev.TutorID = ""
			repo.classes[id] = prev
		}
	}
	cls.TutorID = tutorID
	repo.classes[classID] = cls
	return nil
}

func (repo *ClassroomRepository) GetClassByTutor(ctx context.Context, tutorID string) (classroom.Class, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, id := range repo.classOrder {
		if cls := repo.classes[id]; cls.TutorID == tutorID {
			return cls, nil
		}
	}
	return classroom.Class{}, classroom.ErrClassNotFound
}

func (repo *ClassroomRepository) CreateStudent(ctx context.Context, st classroom.Student) (classroom.Student, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.students {
		if existing.RegisterNumber == st.RegisterNumber {
			return classroom.Student{}, classroom.ErrDuplicateRegisterNumber
		}
	}
	repo.students[st.ID] = st
	repo.studentOrder = append(repo.studentOrder, st.ID)
	return st, nil
}

func (repo *ClassroomRepository) GetStudentByID(ctx context.Context, id string) (classroom.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	if st, ok := repo.students[id]; ok {
		return st, nil
	}
	return classroom.Student{}, classroom.ErrStudentNotFound
}

func (repo *ClassroomRepository) GetStudentByRegisterNumber(ctx context.Context, reg string) (classroom.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, st := range repo.students {
		if st.RegisterNumber == reg {
			return st, nil
		}
	}
	return classroom.Student{}, classroom.ErrStudentNotFound
}

func (repo *ClassroomRepository) QueryStudentsByClass(ctx context.Context, classID string) ([]classroom.Student, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var students []classroom.Student
	for _, id := range repo.studentOrder {
		if st := repo.students[id]; st.ClassID == classID {
			students = append(students, st)
		}
	}
	return students, nil
}
