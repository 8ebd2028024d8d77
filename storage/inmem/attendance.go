package inmemrepos

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kmcollege/rollbook/core/attendance"
	"github.com/kmcollege/rollbook/core/classroom"
)

type AttendanceRepository struct {
	mu sync.RWMutex
	// keyed by (studentID, date, hour) so overwrites are natural
	records map[string]attendance.Record

	// classes resolves departments for the aggregate query
	classes *ClassroomRepository
}

var _ attendance.Repository = (*AttendanceRepository)(nil)

func NewAttendanceRepository(classes *ClassroomRepository) *AttendanceRepository {
	return &AttendanceRepository{
		records: make(map[string]attendance.Record),
		classes: classes,
	}
}

func recordKey(studentID, date string, hour int) string {
	return fmt.Sprintf("%s|%s|%d", studentID, date, hour)
}

func (repo *AttendanceRepository) UpsertRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	key := recordKey(rec.StudentID, rec.Date, rec.Hour)
	if existing, ok := repo.records[key]; ok {
		rec.ID = existing.ID
	}
	repo.records[key] = rec
	return rec, nil
}

func (repo *AttendanceRepository) filter(keep func(attendance.Record) bool) []attendance.Record {
	var recs []attendance.Record
	for _, rec := range repo.records {
		if keep(rec) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Date != recs[j].Date {
			return recs[i].Date < recs[j].Date
		}
		return recs[i].Hour < recs[j].Hour
	})
	return recs
}

func (repo *AttendanceRepository) QueryRecordsByStudent(ctx context.Context, studentID, from, to string) ([]attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.filter(func(rec attendance.Record) bool {
		if rec.StudentID != studentID {
			return false
		}
		if from != "" && rec.Date < from {
			return false
		}
		if to != "" && rec.Date > to {
			return false
		}
		return true
	}), nil
}

func (repo *AttendanceRepository) QueryRecordsByClassHour(ctx context.Context, classID, date string, hour int) ([]attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.filter(func(rec attendance.Record) bool {
		return rec.ClassID == classID && rec.Date == date && rec.Hour == hour
	}), nil
}

func (repo *AttendanceRepository) QueryRecordsByClassDate(ctx context.Context, classID, date string) ([]attendance.Record, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.filter(func(rec attendance.Record) bool {
		return rec.ClassID == classID && rec.Date == date
	}), nil
}

func (repo *AttendanceRepository) QueryDepartmentTotals(ctx context.Context) ([]attendance.DepartmentTotal, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	byDept := make(map[string]*attendance.DepartmentTotal)
	for _, rec := range repo.records {
		cls, err := repo.classes.GetClassByID(ctx, rec.ClassID)
		if err != nil {
			if err == classroom.ErrClassNotFound {
				continue
			}
			return nil, err
		}
		t, ok := byDept[cls.Department]
		if !ok {
			t = &attendance.DepartmentTotal{Department: cls.Department}
			byDept[cls.Department] = t
		}
		switch rec.Status {
		case attendance.StatusPresent:
			t.Present++
		case attendance.StatusAbsent:
			t.Absent++
		case attendance.StatusOnDuty:
			t.OnDuty++
		}
	}

	totals := make([]attendance.DepartmentTotal, 0, len(byDept))
	for _, t := range byDept {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Department < totals[j].Department })
	return totals, nil
}
