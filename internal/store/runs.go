package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentops/benchmatch/internal/optimizer"
)

// Run is a persisted allocation with its headline numbers.
type Run struct {
	ID              string
	CreatedAt       time.Time
	Employees       int
	Jobs            int
	Seats           int
	Assigned        int
	Unfilled        int
	Benched         int
	TotalScore      float64
	BenchDaysBefore int
	BenchDaysAfter  int
}

// SaveRun stores the allocation and returns the new run id.
func (d *DB) SaveRun(ctx context.Context, alloc *optimizer.Allocation, employees, jobs int) (string, error) {
	tx, err := d.pool.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := uuid.NewString()
	seats := len(alloc.Assignments) + len(alloc.UnfilledSeats)

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, employees, jobs, seats, assigned, unfilled, benched,
	total_score, bench_days_before, bench_days_after)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		time.Now().UTC().Format(time.RFC3339),
		employees,
		jobs,
		seats,
		len(alloc.Assignments),
		len(alloc.UnfilledSeats),
		len(alloc.Benched),
		alloc.TotalScore,
		alloc.BenchDaysBefore,
		alloc.BenchDaysAfter,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, a := range alloc.Assignments {
		_, err = tx.ExecContext(ctx, `
INSERT INTO assignments (run_id, employee_id, job_id, role, level, score, cost)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, a.EmployeeID, a.JobID, a.Role, a.Level, a.Score, a.Cost)
		if err != nil {
			return "", fmt.Errorf("inserting assignment %s/%s: %w", a.JobID, a.EmployeeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns runs newest first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.pool.QueryContext(ctx, `
SELECT id, created_at, employees, jobs, seats, assigned, unfilled, benched,
	total_score, bench_days_before, bench_days_after
FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var created string
		err := rows.Scan(&r.ID, &created, &r.Employees, &r.Jobs, &r.Seats,
			&r.Assigned, &r.Unfilled, &r.Benched,
			&r.TotalScore, &r.BenchDaysBefore, &r.BenchDaysAfter)
		if err != nil {
			return nil, err
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", r.ID, err)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// RunAssignments returns the assignments of one run, ordered by job then
// employee.
func (d *DB) RunAssignments(ctx context.Context, runID string) ([]*optimizer.Assignment, error) {
	rows, err := d.pool.QueryContext(ctx, `
SELECT employee_id, job_id, role, level, score, cost
FROM assignments WHERE run_id = ? ORDER BY job_id, employee_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*optimizer.Assignment
	for rows.Next() {
		var a optimizer.Assignment
		err := rows.Scan(&a.EmployeeID, &a.JobID, &a.Role, &a.Level, &a.Score, &a.Cost)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if assignments == nil {
		return nil, sql.ErrNoRows
	}
	return assignments, nil
}
