// Package allocation renders and exports solved allocations.
package allocation

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/talentops/benchmatch/internal/optimizer"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

// ProjectReport summarizes one project's staffing outcome.
type ProjectReport struct {
	ProjectName string       `json:"project_name"`
	Priority    string       `json:"priority"`
	Seats       []SeatReport `json:"seats"`
}

type SeatReport struct {
	Role         string  `json:"role"`
	Level        string  `json:"level"`
	Filled       bool    `json:"filled"`
	EmployeeID   string  `json:"employee_id,omitempty"`
	EmployeeName string  `json:"employee_name,omitempty"`
	Score        float64 `json:"score,omitempty"`
}

// ReportByProject groups the allocation per job, filled seats first.
func ReportByProject(alloc *optimizer.Allocation, jobs *project.Jobs, employees *workforce.Employees) map[string]*ProjectReport {
	report := make(map[string]*ProjectReport)

	ensure := func(jobID string) *ProjectReport {
		if r, ok := report[jobID]; ok {
			return r
		}
		r := &ProjectReport{}
		if job := jobs.FindByID(jobID); job != nil {
			r.ProjectName = job.ProjectName
			r.Priority = job.Priority
		}
		report[jobID] = r
		return r
	}

	for _, a := range alloc.Assignments {
		seat := SeatReport{
			Role:       a.Role,
			Level:      a.Level,
			Filled:     true,
			EmployeeID: a.EmployeeID,
			Score:      a.Score,
		}
		if e := employees.FindByID(a.EmployeeID); e != nil {
			seat.EmployeeName = e.Name
		}
		r := ensure(a.JobID)
		r.Seats = append(r.Seats, seat)
	}

	for _, s := range alloc.UnfilledSeats {
		r := ensure(s.JobID)
		r.Seats = append(r.Seats, SeatReport{Role: s.Role, Level: s.Level})
	}

	return report
}

// DumpToTmpFile writes the allocation as indented JSON to a temp file and
// returns its name.
func DumpToTmpFile(alloc *optimizer.Allocation) (string, error) {
	file, err := os.CreateTemp("", "allocation_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(alloc); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// WriteCSV exports the assignments.
func WriteCSV(alloc *optimizer.Allocation, jobs *project.Jobs, employees *workforce.Employees, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"employee_id", "employee_name", "job_id", "project_name", "role", "level", "score"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, a := range alloc.Assignments {
		name := ""
		if e := employees.FindByID(a.EmployeeID); e != nil {
			name = e.Name
		}
		projectName := ""
		if j := jobs.FindByID(a.JobID); j != nil {
			projectName = j.ProjectName
		}

		record := []string{
			a.EmployeeID,
			name,
			a.JobID,
			projectName,
			a.Role,
			a.Level,
			strconv.FormatFloat(a.Score, 'f', 4, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
