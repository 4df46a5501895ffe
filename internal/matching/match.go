// Package matching ranks employees against projects (J2E) and against each
// other (E2E) using skill embeddings and the adjacent-skill graph.
package matching

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

type Matches struct {
	Items []*Match
}

type Match struct {
	JobID      string    `json:"job_id"`
	EmployeeID string    `json:"employee_id"`
	Score      float64   `json:"score"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Breakdown itemizes the weighted components behind a match score. All
// components are in [0,1].
type Breakdown struct {
	SkillSimilarity float64 `json:"skill_similarity"`
	Coverage        float64 `json:"coverage"`
	Experience      float64 `json:"experience"`
	Location        float64 `json:"location"`
	Availability    float64 `json:"availability"`
}

func (ms *Matches) Len() int {
	return len(ms.Items)
}

// ForJob returns the matches for a single job, preserving rank order.
func (ms *Matches) ForJob(jobID string) []*Match {
	var out []*Match
	for _, m := range ms.Items {
		if m.JobID == jobID {
			out = append(out, m)
		}
	}
	return out
}

// Lookup indexes matches by job and employee ID.
func (ms *Matches) Lookup() map[string]map[string]*Match {
	out := make(map[string]map[string]*Match)
	for _, m := range ms.Items {
		byEmployee, ok := out[m.JobID]
		if !ok {
			byEmployee = make(map[string]*Match)
			out[m.JobID] = byEmployee
		}
		byEmployee[m.EmployeeID] = m
	}
	return out
}

// WriteCSV dumps the ranked matches.
func (ms *Matches) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"job_id", "employee_id", "score", "skill_similarity", "coverage", "experience", "location", "availability"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range ms.Items {
		record := []string{
			m.JobID,
			m.EmployeeID,
			formatScore(m.Score),
			formatScore(m.Breakdown.SkillSimilarity),
			formatScore(m.Breakdown.Coverage),
			formatScore(m.Breakdown.Experience),
			formatScore(m.Breakdown.Location),
			formatScore(m.Breakdown.Availability),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
