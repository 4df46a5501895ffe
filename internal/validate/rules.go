package validate

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/talentops/benchmatch/internal/project"
)

// structRule runs tag-level field validation over both datasets.
type structRule struct {
	v *validator.Validate
}

var (
	employeeIDPattern = regexp.MustCompile(`^E\d{4}$`)
	jobIDPattern      = regexp.MustCompile(`^P\d{4}$`)
)

func newStructRule() *structRule {
	v := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("empid", func(fl validator.FieldLevel) bool {
		return employeeIDPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("jobid", func(fl validator.FieldLevel) bool {
		return jobIDPattern.MatchString(fl.Field().String())
	})

	return &structRule{v: v}
}

func (r *structRule) Name() string { return "struct_fields" }

func (r *structRule) Check(ds *Dataset) []Violation {
	var out []Violation

	if ds.Employees != nil {
		for _, e := range ds.Employees.Items {
			out = append(out, r.validate(e.ID, e)...)
		}
	}
	if ds.Jobs != nil {
		for _, j := range ds.Jobs.Items {
			out = append(out, r.validate(j.ID, j)...)
		}
	}

	return out
}

func (r *structRule) validate(id string, record any) []Violation {
	err := r.v.Struct(record)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Violation{{RecordID: id, Rule: r.Name(), Message: err.Error()}}
	}

	out := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		out = append(out, Violation{
			RecordID: id,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("field %s fails %q", fe.Field(), fe.Tag()),
		})
	}
	return out
}

type uniqueIDRule struct{}

func (r *uniqueIDRule) Name() string { return "unique_ids" }

func (r *uniqueIDRule) Check(ds *Dataset) []Violation {
	var out []Violation

	if ds.Employees != nil {
		seen := make(map[string]bool)
		for _, e := range ds.Employees.Items {
			if seen[e.ID] {
				out = append(out, Violation{RecordID: e.ID, Rule: r.Name(), Message: "duplicate employee id"})
			}
			seen[e.ID] = true
		}
	}
	if ds.Jobs != nil {
		seen := make(map[string]bool)
		for _, j := range ds.Jobs.Items {
			if seen[j.ID] {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: "duplicate job id"})
			}
			seen[j.ID] = true
		}
	}

	return out
}

// chronologyRule checks that project dates are ordered and consistent with the
// declared duration, with a one month tolerance.
type chronologyRule struct{}

func (r *chronologyRule) Name() string { return "chronology" }

func (r *chronologyRule) Check(ds *Dataset) []Violation {
	if ds.Jobs == nil {
		return nil
	}

	var out []Violation
	for _, j := range ds.Jobs.Items {
		if !j.StartDate.Before(j.EndDate) {
			out = append(out, Violation{
				RecordID: j.ID, Rule: r.Name(),
				Message: fmt.Sprintf("start date %s is not before end date %s",
					j.StartDate.Format(project.DateLayout), j.EndDate.Format(project.DateLayout)),
			})
			continue
		}

		days := j.EndDate.Sub(j.StartDate).Hours() / 24
		expected := 30.4 * float64(j.DurationMonths)
		if diff := days - expected; diff > 31 || diff < -31 {
			out = append(out, Violation{
				RecordID: j.ID, Rule: r.Name(),
				Message: fmt.Sprintf("date span %.0f days does not match duration of %d months", days, j.DurationMonths),
			})
		}
	}
	return out
}

// membershipRule checks that domains, locations and skills exist in the
// dictionaries.
type membershipRule struct{}

func (r *membershipRule) Name() string { return "dictionary_membership" }

func (r *membershipRule) Check(ds *Dataset) []Violation {
	var out []Violation
	all := ds.Dicts.AllSkills()

	if ds.Employees != nil {
		for _, e := range ds.Employees.Items {
			if !ds.Dicts.HasRole(e.Role) {
				out = append(out, Violation{RecordID: e.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown role %q", e.Role)})
			}
			if _, ok := ds.Dicts.LevelByName(e.Level); !ok {
				out = append(out, Violation{RecordID: e.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown level %q", e.Level)})
			}
			if !ds.Dicts.HasLocation(e.Location) {
				out = append(out, Violation{RecordID: e.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown location %q", e.Location)})
			}
			for _, s := range e.Skills {
				if _, ok := all[s]; !ok {
					out = append(out, Violation{RecordID: e.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown skill %q", s)})
				}
			}
		}
	}

	if ds.Jobs != nil {
		for _, j := range ds.Jobs.Items {
			if !ds.Dicts.HasVertical(j.Domain) {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown domain %q", j.Domain)})
			}
			if !ds.Dicts.HasLocation(j.Location) {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown location %q", j.Location)})
			}
			for _, s := range j.Technologies {
				if _, ok := all[s]; !ok {
					out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown skill %q", s)})
				}
			}
		}
	}

	return out
}

// hrRequirementsRule checks "<Level> <Role>" keys and positive headcounts.
type hrRequirementsRule struct{}

func (r *hrRequirementsRule) Name() string { return "hr_requirements" }

func (r *hrRequirementsRule) Check(ds *Dataset) []Violation {
	if ds.Jobs == nil {
		return nil
	}

	var out []Violation
	for _, j := range ds.Jobs.Items {
		for key, count := range j.HRRequirements {
			level, role, err := project.SplitRequirementKey(key)
			if err != nil {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: err.Error()})
				continue
			}
			if _, ok := ds.Dicts.LevelByName(level); !ok {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown level %q in %q", level, key)})
			}
			if !ds.Dicts.HasRole(role) {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("unknown role %q in %q", role, key)})
			}
			if count < 1 {
				out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("headcount %d for %q must be at least 1", count, key)})
			}
		}
	}
	return out
}

// experienceRule checks that employee experience is consistent with seniority.
type experienceRule struct{}

func (r *experienceRule) Name() string { return "experience" }

func (r *experienceRule) Check(ds *Dataset) []Violation {
	if ds.Employees == nil {
		return nil
	}

	var out []Violation
	for _, e := range ds.Employees.Items {
		level, ok := ds.Dicts.LevelByName(e.Level)
		if !ok {
			continue // reported by dictionary_membership
		}
		if e.YearsExperience < level.MinYears {
			out = append(out, Violation{
				RecordID: e.ID, Rule: r.Name(),
				Message: fmt.Sprintf("%d years of experience below the %d minimum for %s", e.YearsExperience, level.MinYears, e.Level),
			})
		}
	}
	return out
}

// referenceRule checks cross-record references: similar projects, manager
// preferences and current project assignments.
type referenceRule struct{}

func (r *referenceRule) Name() string { return "references" }

func (r *referenceRule) Check(ds *Dataset) []Violation {
	var out []Violation

	jobIDs := make(map[string]bool)
	if ds.Jobs != nil {
		for _, j := range ds.Jobs.Items {
			jobIDs[j.ID] = true
		}
	}
	employeeIDs := make(map[string]bool)
	if ds.Employees != nil {
		for _, e := range ds.Employees.Items {
			employeeIDs[e.ID] = true
		}
	}

	if ds.Jobs != nil {
		for _, j := range ds.Jobs.Items {
			for _, ref := range j.SimilarProjects {
				if !jobIDs[ref] {
					out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("similar project %q does not exist", ref)})
				}
			}
			if ds.Employees != nil {
				for _, m := range j.ManagerPref {
					if !employeeIDs[m] {
						out = append(out, Violation{RecordID: j.ID, Rule: r.Name(), Message: fmt.Sprintf("manager preference %q does not exist", m)})
					}
				}
			}
		}
	}

	if ds.Employees != nil && ds.Jobs != nil {
		for _, e := range ds.Employees.Items {
			if e.CurrentProject != "" && !jobIDs[e.CurrentProject] {
				out = append(out, Violation{RecordID: e.ID, Rule: r.Name(), Message: fmt.Sprintf("current project %q does not exist", e.CurrentProject)})
			}
		}
	}

	return out
}
