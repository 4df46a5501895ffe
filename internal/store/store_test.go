package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentops/benchmatch/internal/optimizer"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testAllocation() *optimizer.Allocation {
	return &optimizer.Allocation{
		Assignments: []*optimizer.Assignment{
			{EmployeeID: "E0001", JobID: "P0001", Role: "Developer", Level: "Senior", Score: 0.91, Cost: 9.0},
			{EmployeeID: "E0002", JobID: "P0002", Role: "QA Engineer", Level: "Mid", Score: 0.74, Cost: 26.0},
		},
		UnfilledSeats:   []optimizer.Seat{{JobID: "P0002", Role: "Developer", Level: "Junior"}},
		Benched:         []string{"E0003"},
		TotalScore:      1.65,
		BenchDaysBefore: 120,
		BenchDaysAfter:  45,
	}
}

func TestSaveAndListRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.SaveRun(ctx, testAllocation(), 50, 10)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	require.Equal(t, id, run.ID)
	require.Equal(t, 50, run.Employees)
	require.Equal(t, 10, run.Jobs)
	require.Equal(t, 3, run.Seats)
	require.Equal(t, 2, run.Assigned)
	require.Equal(t, 1, run.Unfilled)
	require.Equal(t, 1, run.Benched)
	require.Equal(t, 120, run.BenchDaysBefore)
	require.Equal(t, 45, run.BenchDaysAfter)
	require.False(t, run.CreatedAt.IsZero())
}

func TestRunAssignments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.SaveRun(ctx, testAllocation(), 50, 10)
	require.NoError(t, err)

	assignments, err := db.RunAssignments(ctx, id)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, "E0001", assignments[0].EmployeeID)
	require.Equal(t, "P0001", assignments[0].JobID)
	require.InDelta(t, 0.91, assignments[0].Score, 1e-9)
}

func TestRunAssignmentsUnknownRun(t *testing.T) {
	db := openTestDB(t)

	_, err := db.RunAssignments(context.Background(), "missing")
	require.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestListRunsLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := db.SaveRun(ctx, testAllocation(), 10, 2)
		require.NoError(t, err)
	}

	runs, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
}
