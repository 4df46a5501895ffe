package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/skillgraph"
	"github.com/talentops/benchmatch/internal/workforce"
	"gonum.org/v1/gonum/floats"
)

func newVectorizer(t *testing.T) (*Vectorizer, *dictionary.Dictionaries) {
	t.Helper()

	dicts, err := dictionary.Load("")
	require.NoError(t, err)

	graph, err := skillgraph.Build(dicts, 0)
	require.NoError(t, err)

	v, err := NewVectorizer(64, graph, dicts)
	require.NoError(t, err)
	return v, dicts
}

func employeeWith(skills ...string) *workforce.Employee {
	return &workforce.Employee{
		ID:              "E0001",
		Level:           "Senior",
		YearsExperience: 6,
		Skills:          skills,
	}
}

func TestEmployeeVectorNormalized(t *testing.T) {
	v, _ := newVectorizer(t)

	vec := v.Employee(employeeWith("Go", "SQL", "Kafka"))
	require.Len(t, vec, 64)
	require.InDelta(t, 1.0, floats.Norm(vec, 2), 1e-9)
}

func TestEmbeddingDeterministic(t *testing.T) {
	v, _ := newVectorizer(t)

	a := v.Employee(employeeWith("Go", "AWS"))
	b := v.Employee(employeeWith("Go", "AWS"))
	require.Equal(t, a, b)
}

func TestSimilarProfilesScoreHigher(t *testing.T) {
	v, _ := newVectorizer(t)

	pytorch := v.Employee(employeeWith("PyTorch", "Python"))
	tensorflow := v.Employee(employeeWith("TensorFlow", "Python"))
	frontend := v.Employee(employeeWith("React", "Angular"))

	simML := Cosine(pytorch, tensorflow)
	simCross := Cosine(pytorch, frontend)
	require.Greater(t, simML, simCross,
		"adjacent ML stacks should be closer than ML vs frontend")
}

func TestSharedSkillsBeatAdjacentSkills(t *testing.T) {
	v, _ := newVectorizer(t)

	target := v.Employee(&workforce.Employee{
		ID: "E0001", Level: "Senior", YearsExperience: 6,
		Skills: []string{"Go", "AWS", "Kubernetes", "Docker"},
	})
	shared := v.Employee(&workforce.Employee{
		ID: "E0002", Level: "Senior", YearsExperience: 8,
		Skills: []string{"Go", "AWS"},
	})
	adjacent := v.Employee(&workforce.Employee{
		ID: "E0003", Level: "Senior", YearsExperience: 7,
		Skills: []string{"Rust", "GCP", "Terraform"},
	})

	// Graph smoothing gives adjacent stacks partial credit, but it must never
	// outweigh exact skill overlap.
	require.Greater(t, Cosine(target, shared), Cosine(target, adjacent))
}

func TestJobVectorMatchesOwnIdealEmployee(t *testing.T) {
	v, _ := newVectorizer(t)

	job := &project.Job{
		ID:             "P0001",
		Technologies:   []string{"Go", "Kubernetes", "AWS"},
		HRRequirements: map[string]int{"Senior Developer": 2},
		MinExperience:  5,
	}
	jobVec := v.Job(job)
	require.InDelta(t, 1.0, floats.Norm(jobVec, 2), 1e-9)

	ideal := v.Employee(&workforce.Employee{
		ID: "E0001", Level: "Senior", YearsExperience: 5,
		Skills: []string{"Go", "Kubernetes", "AWS"},
	})
	stranger := v.Employee(&workforce.Employee{
		ID: "E0002", Level: "Junior", YearsExperience: 0,
		Skills: []string{"Selenium", "JMeter"},
	})

	require.Greater(t, Cosine(jobVec, ideal), Cosine(jobVec, stranger))
}

func TestEmployeeVectorsBatch(t *testing.T) {
	v, _ := newVectorizer(t)

	es := &workforce.Employees{Items: []*workforce.Employee{
		employeeWith("Go"),
		{ID: "E0002", Level: "Mid", YearsExperience: 3, Skills: []string{"AWS"}},
		{ID: "E0003", Level: "Lead", YearsExperience: 9, Skills: []string{"SQL", "dbt"}},
	}}

	vecs, err := v.EmployeeVectors(context.Background(), es)
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for _, e := range es.Items {
		require.Equal(t, v.Employee(e), vecs[e.ID])
	}
}

func TestCosineZeroVector(t *testing.T) {
	require.Zero(t, Cosine(make([]float64, 8), make([]float64, 8)))
}
