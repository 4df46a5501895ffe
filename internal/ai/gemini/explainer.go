package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/talentops/benchmatch/internal/ai"
	"github.com/talentops/benchmatch/internal/logger"
	"github.com/talentops/benchmatch/internal/optimizer"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/workforce"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExplainer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Explainer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Explain asks the model to justify one assignment and flag its risks.
func (e *Explainer) Explain(ctx context.Context, assignment *optimizer.Assignment, employee *workforce.Employee, job *project.Job) (*ai.Rationale, error) {
	if assignment == nil {
		return nil, fmt.Errorf("assignment is required")
	}
	if employee == nil {
		return nil, fmt.Errorf("employee is required")
	}
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}

	assignmentPayload := map[string]any{
		"employee_id": assignment.EmployeeID,
		"job_id":      assignment.JobID,
		"role":        assignment.Role,
		"level":       assignment.Level,
		"score":       assignment.Score,
	}
	employeePayload := map[string]any{
		"name":             employee.Name,
		"role":             employee.Role,
		"level":            employee.Level,
		"years_experience": employee.YearsExperience,
		"skills":           employee.Skills,
		"location":         employee.Location,
		"bench_days":       employee.BenchDays,
	}
	jobPayload := map[string]any{
		"project_name": job.ProjectName,
		"domain":       job.Domain,
		"technologies": job.Technologies,
		"priority":     job.Priority,
		"location":     job.Location,
	}

	assignmentJSON, err := json.MarshalIndent(map[string]any{
		"assignment": assignmentPayload,
		"employee":   employeePayload,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal assignment payload: %w", err)
	}

	jobJSON, err := json.MarshalIndent(jobPayload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := buildPrompt(string(assignmentJSON), string(jobJSON))

	e.logger.Debug("gemini rationale request",
		zap.String("job_id", assignment.JobID),
		zap.String("employee_id", assignment.EmployeeID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Truncate(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini rationale response",
		zap.String("job_id", assignment.JobID),
		zap.String("employee_id", assignment.EmployeeID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.Truncate(raw, e.maxLogLen)),
	)

	rationale, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	rationale.Raw = raw
	return rationale, nil
}

func buildPrompt(assignmentJSON, jobJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Assignment:\n{{ASSIGNMENT_JSON}}\n\nProject:\n{{JOB_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{ASSIGNMENT_JSON}}", assignmentJSON)
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", jobJSON)
	return prompt
}

func parseResponse(raw string) (*ai.Rationale, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var parsed struct {
		Summary string   `mapstructure:"summary"`
		Risks   []string `mapstructure:"risks"`
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &parsed,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	return &ai.Rationale{
		Summary: strings.TrimSpace(parsed.Summary),
		Risks:   parsed.Risks,
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
