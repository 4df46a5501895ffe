package matching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

// Filter prunes the candidate pool for a single job before scoring.
type Filter interface {
	Name() string
	Apply(job *project.Job, pool *workforce.Employees) (*workforce.Employees, Step, error)
}

// Step describes the result of one pruning step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// RunFilters executes the filters sequentially on a cloned pool, logging each
// step.
func RunFilters(filters []Filter, job *project.Job, pool *workforce.Employees, logger *zap.Logger) (*workforce.Employees, error) {
	candidates := pool.Clone()

	for _, f := range filters {
		next, step, err := f.Apply(job, candidates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}

		if logger != nil {
			logger.Debug("candidate filter step",
				zap.String("job_id", job.ID),
				zap.String("name", f.Name()),
				zap.Int("initial", step.Initial),
				zap.Int("dropped", step.Dropped),
				zap.Int("left", step.Left),
			)
		}

		candidates = next
	}

	return candidates, nil
}

// DefaultFilters returns the standard pruning chain.
func DefaultFilters(graceDays int) []Filter {
	return []Filter{
		&minExperienceFilter{},
		&locationFilter{},
		&availabilityFilter{graceDays: graceDays},
	}
}

type minExperienceFilter struct{}

func (f *minExperienceFilter) Name() string { return "min_experience" }

func (f *minExperienceFilter) Apply(job *project.Job, pool *workforce.Employees) (*workforce.Employees, Step, error) {
	initial := pool.Len()

	kept := pool.Items[:0]
	for _, e := range pool.Items {
		if e.YearsExperience >= job.MinExperience {
			kept = append(kept, e)
		}
	}
	pool.Items = kept

	return pool, Step{Initial: initial, Dropped: initial - pool.Len(), Left: pool.Len()}, nil
}

// locationFilter keeps employees in the job's city, or remote-capable ones
// when the job permits remote work.
type locationFilter struct{}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Apply(job *project.Job, pool *workforce.Employees) (*workforce.Employees, Step, error) {
	initial := pool.Len()

	kept := pool.Items[:0]
	for _, e := range pool.Items {
		switch {
		case e.Location == job.Location:
			kept = append(kept, e)
		case job.Location == dictionary.RemoteLocation && e.RemoteOK:
			kept = append(kept, e)
		case job.RemotePossible && e.RemoteOK:
			kept = append(kept, e)
		}
	}
	pool.Items = kept

	return pool, Step{Initial: initial, Dropped: initial - pool.Len(), Left: pool.Len()}, nil
}

// availabilityFilter keeps employees free no later than the job start plus a
// configurable grace period.
type availabilityFilter struct {
	graceDays int
}

func (f *availabilityFilter) Name() string { return "availability" }

func (f *availabilityFilter) Apply(job *project.Job, pool *workforce.Employees) (*workforce.Employees, Step, error) {
	initial := pool.Len()
	deadline := job.StartDate.AddDate(0, 0, f.graceDays)

	kept := pool.Items[:0]
	for _, e := range pool.Items {
		if !e.AvailableFrom.After(deadline) {
			kept = append(kept, e)
		}
	}
	pool.Items = kept

	return pool, Step{Initial: initial, Dropped: initial - pool.Len(), Left: pool.Len()}, nil
}

// availabilitySlackDays is shared with the scorer: positive when the employee
// is free before the project starts.
func availabilitySlackDays(job *project.Job, e *workforce.Employee) float64 {
	return job.StartDate.Sub(e.AvailableFrom).Hours() / 24
}
