package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/matching"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

func mustDicts(t *testing.T) *dictionary.Dictionaries {
	t.Helper()
	d, err := dictionary.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func jobWith(id string, reqs map[string]int, priority string) *project.Job {
	return &project.Job{
		ID:             id,
		ProjectName:    "Project " + id,
		HRRequirements: reqs,
		Priority:       priority,
	}
}

func employee(id, role, level string, benchDays int) *workforce.Employee {
	return &workforce.Employee{ID: id, Role: role, Level: level, BenchDays: benchDays}
}

func match(jobID, empID string, score float64) *matching.Match {
	return &matching.Match{JobID: jobID, EmployeeID: empID, Score: score}
}

func TestExpandSeats(t *testing.T) {
	dicts := mustDicts(t)

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 2, "Junior QA Engineer": 1}, "high"),
	}}

	seats, err := ExpandSeats(jobs, dicts)
	require.NoError(t, err)
	require.Len(t, seats, 3)

	// Higher ranks come first within a job.
	require.Equal(t, "Senior", seats[0].Level)
	require.Equal(t, "Senior", seats[1].Level)
	require.Equal(t, "Junior", seats[2].Level)
	require.Equal(t, 3, seats[0].Rank)
}

func TestExpandSeatsMalformedKey(t *testing.T) {
	dicts := mustDicts(t)
	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior": 1}, "low"),
	}}

	_, err := ExpandSeats(jobs, dicts)
	require.Error(t, err)
}

func TestSolveAssignsBestCandidates(t *testing.T) {
	dicts := mustDicts(t)
	opt := New(DefaultConfig(), dicts, zap.NewNop())

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 1}, "high"),
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		employee("E0001", "Developer", "Senior", 0),
		employee("E0002", "Developer", "Senior", 0),
	}}
	matches := &matching.Matches{Items: []*matching.Match{
		match("P0001", "E0001", 0.9),
		match("P0001", "E0002", 0.6),
	}}

	alloc, err := opt.Solve(jobs, employees, matches)
	require.NoError(t, err)

	require.Len(t, alloc.Assignments, 1)
	require.Equal(t, "E0001", alloc.Assignments[0].EmployeeID)
	require.Empty(t, alloc.UnfilledSeats)
	require.Equal(t, []string{"E0002"}, alloc.Benched)
	require.InDelta(t, 0.9, alloc.TotalScore, 1e-9)
}

func TestSolveBenchRelief(t *testing.T) {
	// Equal match scores: the employee with more bench days wins the seat.
	dicts := mustDicts(t)
	opt := New(DefaultConfig(), dicts, zap.NewNop())

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 1}, "medium"),
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		employee("E0001", "Developer", "Senior", 0),
		employee("E0002", "Developer", "Senior", 90),
	}}
	matches := &matching.Matches{Items: []*matching.Match{
		match("P0001", "E0001", 0.8),
		match("P0001", "E0002", 0.8),
	}}

	alloc, err := opt.Solve(jobs, employees, matches)
	require.NoError(t, err)
	require.Len(t, alloc.Assignments, 1)
	require.Equal(t, "E0002", alloc.Assignments[0].EmployeeID)

	require.Equal(t, 90, alloc.BenchDaysBefore)
	require.Equal(t, 0, alloc.BenchDaysAfter)
}

func TestSolveRoleAndRankConstraints(t *testing.T) {
	dicts := mustDicts(t)
	opt := New(DefaultConfig(), dicts, zap.NewNop())

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 1}, "high"),
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		employee("E0001", "QA Engineer", "Senior", 0),  // wrong role
		employee("E0002", "Developer", "Junior", 0),    // below required rank
		employee("E0003", "Developer", "Principal", 0), // rank 5, within the +2 slack
	}}
	matches := &matching.Matches{Items: []*matching.Match{
		match("P0001", "E0001", 0.9),
		match("P0001", "E0002", 0.9),
		match("P0001", "E0003", 0.9),
	}}

	alloc, err := opt.Solve(jobs, employees, matches)
	require.NoError(t, err)

	// Principal (rank 5) is within the +2 slack of a Senior (rank 3) seat.
	require.Len(t, alloc.Assignments, 1)
	require.Equal(t, "E0003", alloc.Assignments[0].EmployeeID)
}

func TestSolveUnfilledSeatsWhenNoCandidates(t *testing.T) {
	dicts := mustDicts(t)
	opt := New(DefaultConfig(), dicts, zap.NewNop())

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 2}, "critical"),
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		employee("E0001", "Developer", "Senior", 10),
	}}
	matches := &matching.Matches{Items: []*matching.Match{
		match("P0001", "E0001", 0.7),
	}}

	alloc, err := opt.Solve(jobs, employees, matches)
	require.NoError(t, err)

	require.Len(t, alloc.Assignments, 1)
	require.Len(t, alloc.UnfilledSeats, 1)
	require.Empty(t, alloc.Benched)
}

func TestSolvePriorityWinsContestedEmployee(t *testing.T) {
	// One qualified employee, two single-seat jobs: the critical project
	// must win.
	dicts := mustDicts(t)
	opt := New(DefaultConfig(), dicts, zap.NewNop())

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 1}, "low"),
		jobWith("P0002", map[string]int{"Senior Developer": 1}, "critical"),
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		employee("E0001", "Developer", "Senior", 0),
	}}
	matches := &matching.Matches{Items: []*matching.Match{
		match("P0001", "E0001", 0.8),
		match("P0002", "E0001", 0.8),
	}}

	alloc, err := opt.Solve(jobs, employees, matches)
	require.NoError(t, err)

	require.Len(t, alloc.Assignments, 1)
	require.Equal(t, "P0002", alloc.Assignments[0].JobID)
	require.Len(t, alloc.UnfilledSeats, 1)
	require.Equal(t, "P0001", alloc.UnfilledSeats[0].JobID)
}

func TestSolveEmployeeFillsAtMostOneSeat(t *testing.T) {
	dicts := mustDicts(t)
	opt := New(DefaultConfig(), dicts, zap.NewNop())

	jobs := &project.Jobs{Items: []*project.Job{
		jobWith("P0001", map[string]int{"Senior Developer": 1}, "high"),
		jobWith("P0002", map[string]int{"Senior Developer": 1}, "high"),
	}}
	employees := &workforce.Employees{Items: []*workforce.Employee{
		employee("E0001", "Developer", "Senior", 0),
		employee("E0002", "Developer", "Senior", 0),
	}}
	matches := &matching.Matches{Items: []*matching.Match{
		match("P0001", "E0001", 0.9),
		match("P0002", "E0001", 0.9),
		match("P0001", "E0002", 0.5),
		match("P0002", "E0002", 0.5),
	}}

	alloc, err := opt.Solve(jobs, employees, matches)
	require.NoError(t, err)
	require.Len(t, alloc.Assignments, 2)

	seen := map[string]bool{}
	for _, a := range alloc.Assignments {
		require.False(t, seen[a.EmployeeID], "employee %s assigned twice", a.EmployeeID)
		seen[a.EmployeeID] = true
	}
}
