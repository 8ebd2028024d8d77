package attendance

import (
	"context"
	"math"
	"sort"
)

// percentage computes 100 * presentEquiv / total rounded to 2 decimals.
// On-duty marks count as present-equivalent. No marked rows means 0.
func percentage(present, onDuty, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := 100 * float64(present+onDuty) / float64(total)
	return math.Round(pct*100) / 100
}

// StatsForStudent summarises the student's whole marked history. Only marked
// records count; the roster default-present never reaches the denominator.
func (svc *Service) StatsForStudent(ctx context.Context, studentID string) (StudentStats, error) {
	recs, err := svc.RecordsForStudent(ctx, studentID, "", "")
	if err != nil {
		return StudentStats{}, err
	}
	var stats StudentStats
	for _, rec := range recs {
		switch rec.Status {
		case StatusPresent:
			stats.TotalPresent++
		case StatusAbsent:
			stats.TotalAbsent++
		case StatusOnDuty:
			stats.TotalOnDuty++
		}
	}
	stats.Percentage = percentage(stats.TotalPresent, stats.TotalOnDuty, len(recs))
	return stats, nil
}

// StatsForCollege rolls marked records up per department and college-wide.
// Both levels weight by marked hours, not by averaging student percentages,
// so a department with more marked periods counts proportionally more.
func (svc *Service) StatsForCollege(ctx context.Context) (CollegeStats, error) {
	totals, err := svc.repo.QueryDepartmentTotals(ctx)
	if err != nil {
		return CollegeStats{}, err
	}

	stats := CollegeStats{DepartmentStats: []DepartmentStat{}}
	var present, onDuty, marked int
	for _, t := range totals {
		deptMarked := t.Present + t.Absent + t.OnDuty
		stats.DepartmentStats = append(stats.DepartmentStats, DepartmentStat{
			Department: t.Department,
			Percentage: percentage(t.Present, t.OnDuty, deptMarked),
		})
		present += t.Present
		onDuty += t.OnDuty
		marked += deptMarked
	}
	sort.Slice(stats.DepartmentStats, func(i, j int) bool {
		return stats.DepartmentStats[i].Department < stats.DepartmentStats[j].Department
	})
	stats.CollegePercentage = percentage(present, onDuty, marked)
	return stats, nil
}
