// Package project defines the synthetic project (job) model and its generator.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Field names accepted by GetStringField and Exclude.
const (
	JobIDField       = "ID"
	JobDomainField   = "Domain"
	JobPriorityField = "Priority"
)

// DateLayout is the ISO date format used across CSV files.
const DateLayout = "2006-01-02"

type Jobs struct {
	Items []*Job
}

type Job struct {
	ID              string         `json:"job_id" validate:"required,jobid"`
	ProjectName     string         `json:"project_name" validate:"required"`
	Domain          string         `json:"domain" validate:"required"`
	Location        string         `json:"location" validate:"required"`
	StartDate       time.Time      `json:"start_date" validate:"required"`
	EndDate         time.Time      `json:"end_date" validate:"required"`
	DurationMonths  int            `json:"duration_months" validate:"gt=0"`
	Budget          int            `json:"budget" validate:"gt=0"`
	Technologies    []string       `json:"technologies" validate:"required,min=1,unique"`
	HRRequirements  map[string]int `json:"hr_requirements" validate:"required,min=1"`
	MinExperience   int            `json:"min_experience" validate:"gte=0"`
	ManagerPref     []string       `json:"manager_pref"`
	Priority        string         `json:"priority" validate:"required"`
	SimilarProjects []string       `json:"similar_projects"`
	RemotePossible  bool           `json:"remote_possible"`
}

func (j *Job) GetStringField(name string) string {
	switch name {
	case JobIDField:
		return j.ID
	case JobDomainField:
		return j.Domain
	case JobPriorityField:
		return j.Priority
	default:
		return ""
	}
}

// Headcount returns the total number of people the job asks for.
func (j *Job) Headcount() int {
	total := 0
	for _, n := range j.HRRequirements {
		total += n
	}
	return total
}

// SplitRequirementKey splits an HR requirement key of the form
// "<Level> <Role>" into its parts.
func SplitRequirementKey(key string) (level, role string, err error) {
	parts := strings.SplitN(key, " ", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed hr requirement key %q", key)
	}
	return parts[0], parts[1], nil
}

func (js *Jobs) Len() int {
	return len(js.Items)
}

func (js *Jobs) FindByID(id string) *Job {
	for _, j := range js.Items {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func (js *Jobs) IDs() []string {
	ids := make([]string, 0, len(js.Items))
	for _, j := range js.Items {
		ids = append(ids, j.ID)
	}
	return ids
}

// Exclude removes jobs whose field value matches any target and returns the
// removed IDs.
func (js *Jobs) Exclude(field string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, j := range js.Items {
			if j.GetStringField(field) == target {
				js.RemoveByIndex(idx)
				excluded = append(excluded, j.ID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes a job from the list by index. Does not preserve order.
func (js *Jobs) RemoveByIndex(idx int) {
	js.Items[idx] = js.Items[len(js.Items)-1]
	js.Items = js.Items[:len(js.Items)-1]
}

// DumpToTmpFile writes the collection as indented JSON to a temp file and
// returns its name.
func (js *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(js); err != nil {
		return "", err
	}
	return file.Name(), nil
}
