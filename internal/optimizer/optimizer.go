// Package optimizer turns ranked matches into a concrete allocation: every
// project seat gets at most one employee, every employee fills at most one
// seat, and the assignment minimizes total cost where idle (benched)
// employees are cheaper to place than busy ones.
package optimizer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/matching"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

// infeasibleCost marks employee/seat pairs that must never be matched. Real
// pair costs stay far below half of it.
const infeasibleCost = 1e6

// maxRankSlack caps how many levels above the seat an employee may be.
const maxRankSlack = 2

type Config struct {
	// BenchWeight is the cost discount per bench day, rewarding assignments
	// that take people off the bench.
	BenchWeight float64 `mapstructure:"bench-weight"`
	// BenchCapDays caps the bench discount per employee.
	BenchCapDays int `mapstructure:"bench-cap-days"`
	// OverqualPenalty is the cost added per level above the seat's level.
	OverqualPenalty float64 `mapstructure:"overqualification-penalty"`
	// PriorityBonus discounts seats of important projects so they win
	// contested employees.
	PriorityBonus map[string]float64 `mapstructure:"priority-bonus"`
}

func DefaultConfig() Config {
	return Config{
		BenchWeight:     0.1,
		BenchCapDays:    120,
		OverqualPenalty: 3,
		PriorityBonus:   map[string]float64{"low": 0, "medium": 2, "high": 5, "critical": 10},
	}
}

// Seat is a single headcount slot expanded from a job's HR requirements.
type Seat struct {
	JobID    string `json:"job_id"`
	Role     string `json:"role"`
	Level    string `json:"level"`
	Rank     int    `json:"rank"`
	Priority string `json:"priority"`
}

type Assignment struct {
	EmployeeID string  `json:"employee_id"`
	JobID      string  `json:"job_id"`
	Role       string  `json:"role"`
	Level      string  `json:"level"`
	Score      float64 `json:"score"`
	Cost       float64 `json:"cost"`
}

type Allocation struct {
	Assignments     []*Assignment `json:"assignments"`
	UnfilledSeats   []Seat        `json:"unfilled_seats"`
	Benched         []string      `json:"benched"`
	TotalScore      float64       `json:"total_score"`
	MeanScore       float64       `json:"mean_score"`
	BenchDaysBefore int           `json:"bench_days_before"`
	BenchDaysAfter  int           `json:"bench_days_after"`
}

type Optimizer struct {
	cfg    Config
	dicts  *dictionary.Dictionaries
	logger *zap.Logger
}

func New(cfg Config, dicts *dictionary.Dictionaries, logger *zap.Logger) *Optimizer {
	if cfg.BenchCapDays <= 0 {
		cfg.BenchCapDays = DefaultConfig().BenchCapDays
	}
	if cfg.PriorityBonus == nil {
		cfg.PriorityBonus = DefaultConfig().PriorityBonus
	}
	return &Optimizer{cfg: cfg, dicts: dicts, logger: logger}
}

// ExpandSeats flattens every job's HR requirements into individual seats,
// ordered deterministically.
func ExpandSeats(jobs *project.Jobs, dicts *dictionary.Dictionaries) ([]Seat, error) {
	var seats []Seat
	for _, j := range jobs.Items {
		for key, count := range j.HRRequirements {
			levelName, role, err := project.SplitRequirementKey(key)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", j.ID, err)
			}
			level, ok := dicts.LevelByName(levelName)
			if !ok {
				return nil, fmt.Errorf("%s: unknown level %q", j.ID, levelName)
			}
			for i := 0; i < count; i++ {
				seats = append(seats, Seat{
					JobID:    j.ID,
					Role:     role,
					Level:    levelName,
					Rank:     level.Rank,
					Priority: j.Priority,
				})
			}
		}
	}

	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i].JobID != seats[j].JobID {
			return seats[i].JobID < seats[j].JobID
		}
		if seats[i].Rank != seats[j].Rank {
			return seats[i].Rank > seats[j].Rank
		}
		return seats[i].Role < seats[j].Role
	})
	return seats, nil
}

// Solve computes the allocation. matches must come from ranking the same jobs
// against the same employee pool.
func (o *Optimizer) Solve(jobs *project.Jobs, employees *workforce.Employees, matches *matching.Matches) (*Allocation, error) {
	seats, err := ExpandSeats(jobs, o.dicts)
	if err != nil {
		return nil, err
	}

	lookup := matches.Lookup()

	cols := employees.Len()
	if cols < len(seats) {
		cols = len(seats) // pad with virtual employees, those seats stay open
	}

	costs := make([][]float64, len(seats))
	for si, seat := range seats {
		row := make([]float64, cols)
		for ei := range row {
			row[ei] = infeasibleCost
		}
		for ei, e := range employees.Items {
			if cost, ok := o.pairCost(seat, e, lookup); ok {
				row[ei] = cost
			}
		}
		costs[si] = row
	}

	alloc := &Allocation{}
	for _, e := range employees.Items {
		alloc.BenchDaysBefore += e.BenchDays
	}

	assignedEmployees := make(map[string]bool)

	if len(seats) > 0 {
		rowToCol := hungarian(costs)
		for si, ei := range rowToCol {
			if ei >= employees.Len() || costs[si][ei] >= infeasibleCost/2 {
				alloc.UnfilledSeats = append(alloc.UnfilledSeats, seats[si])
				continue
			}

			e := employees.Items[ei]
			match := lookup[seats[si].JobID][e.ID]

			alloc.Assignments = append(alloc.Assignments, &Assignment{
				EmployeeID: e.ID,
				JobID:      seats[si].JobID,
				Role:       seats[si].Role,
				Level:      seats[si].Level,
				Score:      match.Score,
				Cost:       costs[si][ei],
			})
			assignedEmployees[e.ID] = true
			alloc.TotalScore += match.Score
		}
	}

	for _, e := range employees.Items {
		if !assignedEmployees[e.ID] {
			alloc.Benched = append(alloc.Benched, e.ID)
			alloc.BenchDaysAfter += e.BenchDays
		}
	}

	if len(alloc.Assignments) > 0 {
		alloc.MeanScore = alloc.TotalScore / float64(len(alloc.Assignments))
	}

	sort.SliceStable(alloc.Assignments, func(i, j int) bool {
		if alloc.Assignments[i].JobID != alloc.Assignments[j].JobID {
			return alloc.Assignments[i].JobID < alloc.Assignments[j].JobID
		}
		return alloc.Assignments[i].EmployeeID < alloc.Assignments[j].EmployeeID
	})

	if o.logger != nil {
		o.logger.Info("allocation solved",
			zap.Int("seats", len(seats)),
			zap.Int("assigned", len(alloc.Assignments)),
			zap.Int("unfilled", len(alloc.UnfilledSeats)),
			zap.Int("benched", len(alloc.Benched)),
			zap.Int("bench_days_before", alloc.BenchDaysBefore),
			zap.Int("bench_days_after", alloc.BenchDaysAfter),
		)
	}

	return alloc, nil
}

// pairCost returns the assignment cost for a feasible employee/seat pair.
func (o *Optimizer) pairCost(seat Seat, e *workforce.Employee, lookup map[string]map[string]*matching.Match) (float64, bool) {
	match, ok := lookup[seat.JobID][e.ID]
	if !ok {
		return 0, false
	}
	if e.Role != seat.Role {
		return 0, false
	}

	level, ok := o.dicts.LevelByName(e.Level)
	if !ok {
		return 0, false
	}
	if level.Rank < seat.Rank || level.Rank > seat.Rank+maxRankSlack {
		return 0, false
	}

	cost := (1 - match.Score) * 100

	bench := e.BenchDays
	if bench > o.cfg.BenchCapDays {
		bench = o.cfg.BenchCapDays
	}
	cost -= o.cfg.BenchWeight * float64(bench)

	cost += o.cfg.OverqualPenalty * float64(level.Rank-seat.Rank)
	cost -= o.cfg.PriorityBonus[seat.Priority]

	return cost, true
}
