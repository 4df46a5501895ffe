// Package embedding computes deterministic skill-profile embeddings. Skills
// are feature-hashed into a fixed-dimension space and smoothed over the
// adjacent-skill graph, so related skills land near each other without any
// trained model.
package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/talentops/benchmatch/internal/dictionary"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/skillgraph"
	"github.com/talentops/benchmatch/internal/workforce"
)

const (
	// DefaultDim is the embedding dimension used when the config leaves it unset.
	DefaultDim = 128

	// hashesPerFeature controls how many components a single feature touches.
	hashesPerFeature = 4

	// smoothingFloor drops graph neighbours whose relatedness contributes noise.
	smoothingFloor = 0.2
)

type Vectorizer struct {
	dim       int
	dicts     *dictionary.Dictionaries
	skillVecs map[string][]float64
}

// NewVectorizer precomputes graph-smoothed vectors for every dictionary skill.
func NewVectorizer(dim int, graph *skillgraph.Graph, dicts *dictionary.Dictionaries) (*Vectorizer, error) {
	if dim <= 0 {
		dim = DefaultDim
	}
	if graph == nil {
		return nil, fmt.Errorf("skill graph is required")
	}

	skills := dicts.SkillList()

	base := make(map[string][]float64, len(skills))
	for _, s := range skills {
		base[s] = hashFeature(s, dim)
	}

	smoothed := make(map[string][]float64, len(skills))
	for _, s := range skills {
		var neighbors []string
		var rels []float64
		for _, other := range skills {
			if other == s {
				continue
			}
			rel := graph.Relatedness(s, other)
			if rel < smoothingFloor {
				continue
			}
			neighbors = append(neighbors, other)
			rels = append(rels, rel)
		}

		vec := make([]float64, dim)
		copy(vec, base[s])
		// The neighbor mass is averaged: the skill's own signature must stay
		// dominant over its whole category clique, or adjacent-only profiles
		// would outscore exact overlap.
		if n := float64(len(neighbors)); n > 0 {
			for i, other := range neighbors {
				floats.AddScaled(vec, rels[i]/n, base[other])
			}
		}
		smoothed[s] = vec
	}

	return &Vectorizer{dim: dim, dicts: dicts, skillVecs: smoothed}, nil
}

func (v *Vectorizer) Dim() int { return v.dim }

// Employee embeds an employee profile: skills plus seniority and experience
// features. The result is L2-normalized.
func (v *Vectorizer) Employee(e *workforce.Employee) []float64 {
	vec := make([]float64, v.dim)
	for _, s := range e.Skills {
		v.addSkill(vec, s, 1.0)
	}

	if level, ok := v.dicts.LevelByName(e.Level); ok {
		floats.AddScaled(vec, 1.0, hashFeature("level:"+strconv.Itoa(level.Rank), v.dim))
	}
	floats.AddScaled(vec, 1.0, hashFeature("exp:"+strconv.Itoa(experienceBucket(e.YearsExperience)), v.dim))

	normalize(vec)
	return vec
}

// Job embeds the job's ideal employee: required technologies plus the levels
// asked for in the HR requirements, weighted by headcount. The result is
// L2-normalized.
func (v *Vectorizer) Job(j *project.Job) []float64 {
	vec := make([]float64, v.dim)
	for _, s := range j.Technologies {
		v.addSkill(vec, s, 1.0)
	}

	total := j.Headcount()
	for key, count := range j.HRRequirements {
		levelName, _, err := project.SplitRequirementKey(key)
		if err != nil {
			continue
		}
		level, ok := v.dicts.LevelByName(levelName)
		if !ok || total == 0 {
			continue
		}
		weight := float64(count) / float64(total)
		floats.AddScaled(vec, weight, hashFeature("level:"+strconv.Itoa(level.Rank), v.dim))
	}
	floats.AddScaled(vec, 1.0, hashFeature("exp:"+strconv.Itoa(experienceBucket(j.MinExperience)), v.dim))

	normalize(vec)
	return vec
}

// EmployeeVectors embeds the whole collection in parallel, keyed by ID.
func (v *Vectorizer) EmployeeVectors(ctx context.Context, es *workforce.Employees) (map[string][]float64, error) {
	vecs := make([][]float64, es.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, e := range es.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vecs[i] = v.Employee(e)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]float64, es.Len())
	for i, e := range es.Items {
		out[e.ID] = vecs[i]
	}
	return out, nil
}

func (v *Vectorizer) addSkill(vec []float64, skill string, scale float64) {
	if sv, ok := v.skillVecs[skill]; ok {
		floats.AddScaled(vec, scale, sv)
		return
	}
	// Unknown skills still hash deterministically, just without smoothing.
	floats.AddScaled(vec, scale, hashFeature(skill, len(vec)))
}

// Cosine returns the cosine similarity of two vectors, 0 when either is zero.
func Cosine(a, b []float64) float64 {
	na := floats.Norm(a, 2)
	nb := floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

func hashFeature(name string, dim int) []float64 {
	vec := make([]float64, dim)
	for k := 0; k < hashesPerFeature; k++ {
		h := fnv.New64a()
		h.Write([]byte(name))
		h.Write([]byte{'#', byte('0' + k)})
		sum := h.Sum64()

		idx := int(sum % uint64(dim))
		sign := 1.0
		if sum&(1<<63) != 0 {
			sign = -1.0
		}
		vec[idx] += sign
	}
	return vec
}

func normalize(vec []float64) {
	n := floats.Norm(vec, 2)
	if n == 0 {
		return
	}
	floats.Scale(1/n, vec)
}

func experienceBucket(years int) int {
	bucket := years / 3
	if bucket > 9 {
		bucket = 9
	}
	return bucket
}
