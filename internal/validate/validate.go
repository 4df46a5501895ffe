// Package validate checks generated datasets against the shared dictionaries
// and the schema invariants the matcher and optimizer rely on.
package validate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

// Dataset bundles everything a rule may need to inspect.
type Dataset struct {
	Dicts     *dictionary.Dictionaries
	Employees *workforce.Employees
	Jobs      *project.Jobs
}

// Violation describes a single failed check on a record.
type Violation struct {
	RecordID string
	Rule     string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.RecordID, v.Message)
}

// Rule is a single validation step applied to the whole dataset.
type Rule interface {
	Name() string
	Check(ds *Dataset) []Violation
}

// Report summarizes a validation run.
type Report struct {
	Records    int
	Violations []Violation
}

func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// DefaultRules returns the standard rule set in execution order.
func DefaultRules() []Rule {
	return []Rule{
		newStructRule(),
		&uniqueIDRule{},
		&chronologyRule{},
		&membershipRule{},
		&hrRequirementsRule{},
		&experienceRule{},
		&referenceRule{},
	}
}

// Run executes the rules sequentially, logging per-rule violation counts.
func Run(rules []Rule, ds *Dataset, logger *zap.Logger) *Report {
	report := &Report{}
	if ds.Employees != nil {
		report.Records += ds.Employees.Len()
	}
	if ds.Jobs != nil {
		report.Records += ds.Jobs.Len()
	}

	for _, rule := range rules {
		found := rule.Check(ds)
		if logger != nil {
			logger.Info("validation rule",
				zap.String("name", rule.Name()),
				zap.Int("records", report.Records),
				zap.Int("violations", len(found)),
			)
		}
		report.Violations = append(report.Violations, found...)
	}

	return report
}
