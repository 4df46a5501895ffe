// Package workforce defines the synthetic employee model and its generator.
package workforce

import (
	"encoding/json"
	"os"
	"time"
)

// Field names accepted by GetStringField and Exclude.
const (
	EmployeeIDField       = "ID"
	EmployeeRoleField     = "Role"
	EmployeeLocationField = "Location"
)

// DateLayout is the ISO date format used across CSV files.
const DateLayout = "2006-01-02"

type Employees struct {
	Items []*Employee
}

type Employee struct {
	ID              string    `json:"employee_id" validate:"required,empid"`
	Name            string    `json:"name" validate:"required"`
	Role            string    `json:"role" validate:"required"`
	Level           string    `json:"level" validate:"required"`
	YearsExperience int       `json:"years_experience" validate:"gte=0,lte=45"`
	Skills          []string  `json:"skills" validate:"required,min=1,unique"`
	Location        string    `json:"location" validate:"required"`
	RemoteOK        bool      `json:"remote_ok"`
	CostRate        int       `json:"cost_rate" validate:"gt=0"`
	AvailableFrom   time.Time `json:"available_from" validate:"required"`
	BenchDays       int       `json:"bench_days" validate:"gte=0"`
	CurrentProject  string    `json:"current_project,omitempty"`
}

func (e *Employee) GetStringField(name string) string {
	switch name {
	case EmployeeIDField:
		return e.ID
	case EmployeeRoleField:
		return e.Role
	case EmployeeLocationField:
		return e.Location
	default:
		return ""
	}
}

// HasSkill reports whether the employee lists the given skill.
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

func (es *Employees) Len() int {
	return len(es.Items)
}

func (es *Employees) FindByID(id string) *Employee {
	for _, e := range es.Items {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (es *Employees) IDs() []string {
	ids := make([]string, 0, len(es.Items))
	for _, e := range es.Items {
		ids = append(ids, e.ID)
	}
	return ids
}

// Clone returns a shallow copy of the collection. The filter pipeline mutates
// collections in place, so callers keep the original by cloning first.
func (es *Employees) Clone() *Employees {
	items := make([]*Employee, len(es.Items))
	copy(items, es.Items)
	return &Employees{Items: items}
}

// Exclude removes employees whose field value matches any target and returns
// the removed IDs.
func (es *Employees) Exclude(field string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, e := range es.Items {
			if e.GetStringField(field) == target {
				es.RemoveByIndex(idx)
				excluded = append(excluded, e.ID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes an employee from the list by index. Does not preserve order.
func (es *Employees) RemoveByIndex(idx int) {
	es.Items[idx] = es.Items[len(es.Items)-1]
	es.Items = es.Items[:len(es.Items)-1]
}

// DumpToTmpFile writes the collection as indented JSON to a temp file and
// returns its name.
func (es *Employees) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "employees_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(es); err != nil {
		return "", err
	}
	return file.Name(), nil
}
