package project

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"job_id", "project_name", "domain", "location", "start_date", "end_date",
	"duration_months", "budget", "technologies", "hr_requirements",
	"min_experience", "manager_pref", "priority", "similar_projects",
	"remote_possible",
}

// WriteCSV writes the collection to path. Technologies and ID lists are
// pipe-joined, HR requirements are stored as a JSON object.
func (js *Jobs) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, j := range js.Items {
		hr, err := json.Marshal(j.HRRequirements)
		if err != nil {
			return fmt.Errorf("%s: marshal hr requirements: %w", j.ID, err)
		}

		record := []string{
			j.ID,
			j.ProjectName,
			j.Domain,
			j.Location,
			j.StartDate.Format(DateLayout),
			j.EndDate.Format(DateLayout),
			strconv.Itoa(j.DurationMonths),
			strconv.Itoa(j.Budget),
			strings.Join(j.Technologies, "|"),
			string(hr),
			strconv.Itoa(j.MinExperience),
			strings.Join(j.ManagerPref, "|"),
			j.Priority,
			strings.Join(j.SimilarProjects, "|"),
			strconv.FormatBool(j.RemotePossible),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV loads a collection previously written by WriteCSV.
func ReadCSV(path string) (*Jobs, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if len(records) == 0 {
		return &Jobs{}, nil
	}

	if err := checkHeader(records[0]); err != nil {
		return nil, err
	}

	js := &Jobs{}
	for i, rec := range records[1:] {
		j, err := jobFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		js.Items = append(js.Items, j)
	}

	return js, nil
}

func checkHeader(got []string) error {
	if len(got) != len(csvHeader) {
		return fmt.Errorf("unexpected header length %d, want %d", len(got), len(csvHeader))
	}
	for i, col := range csvHeader {
		if got[i] != col {
			return fmt.Errorf("unexpected column %q at position %d, want %q", got[i], i, col)
		}
	}
	return nil
}

func jobFromRecord(rec []string) (*Job, error) {
	if len(rec) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected field count %d", len(rec))
	}

	start, err := time.Parse(DateLayout, rec[4])
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(DateLayout, rec[5])
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	months, err := strconv.Atoi(rec[6])
	if err != nil {
		return nil, fmt.Errorf("duration_months: %w", err)
	}
	budget, err := strconv.Atoi(rec[7])
	if err != nil {
		return nil, fmt.Errorf("budget: %w", err)
	}

	var hr map[string]int
	if err := json.Unmarshal([]byte(rec[9]), &hr); err != nil {
		return nil, fmt.Errorf("hr_requirements: %w", err)
	}

	minExp, err := strconv.Atoi(rec[10])
	if err != nil {
		return nil, fmt.Errorf("min_experience: %w", err)
	}

	remote, err := strconv.ParseBool(rec[14])
	if err != nil {
		return nil, fmt.Errorf("remote_possible: %w", err)
	}

	return &Job{
		ID:              rec[0],
		ProjectName:     rec[1],
		Domain:          rec[2],
		Location:        rec[3],
		StartDate:       start,
		EndDate:         end,
		DurationMonths:  months,
		Budget:          budget,
		Technologies:    splitList(rec[8]),
		HRRequirements:  hr,
		MinExperience:   minExp,
		ManagerPref:     splitList(rec[11]),
		Priority:        rec[12],
		SimilarProjects: splitList(rec[13]),
		RemotePossible:  remote,
	}, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}
