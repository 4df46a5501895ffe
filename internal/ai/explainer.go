package ai

import (
	"context"

	"github.com/talentops/benchmatch/internal/optimizer"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

// Rationale is a model-written justification for a single assignment.
type Rationale struct {
	Summary string
	Risks   []string
	Raw     string
}

type Explainer interface {
	Explain(ctx context.Context, assignment *optimizer.Assignment, employee *workforce.Employee, job *project.Job) (*Rationale, error)
}
