package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talentops/benchmatch/internal/embedding"
	"github.com/talentops/benchmatch/internal/project"
	"github.com/talentops/benchmatch/internal/skillgraph"
	"github.com/talentops/benchmatch/internal/workforce"
)

// Weights blends the score components. They are normalized by their sum, so
// only their ratios matter.
type Weights struct {
	Skills       float64 `mapstructure:"skills"`
	Coverage     float64 `mapstructure:"coverage"`
	Experience   float64 `mapstructure:"experience"`
	Location     float64 `mapstructure:"location"`
	Availability float64 `mapstructure:"availability"`
}

func DefaultWeights() Weights {
	return Weights{Skills: 0.35, Coverage: 0.30, Experience: 0.15, Location: 0.10, Availability: 0.10}
}

func (w Weights) sum() float64 {
	return w.Skills + w.Coverage + w.Experience + w.Location + w.Availability
}

type Config struct {
	TopK                  int     `mapstructure:"top-k"`
	MinScore              float64 `mapstructure:"min-score"`
	AvailabilityGraceDays int     `mapstructure:"availability-grace-days"`
	Weights               Weights `mapstructure:"weights"`
}

type Matcher struct {
	cfg    Config
	vec    *embedding.Vectorizer
	graph  *skillgraph.Graph
	logger *zap.Logger
}

func NewMatcher(cfg Config, vec *embedding.Vectorizer, graph *skillgraph.Graph, logger *zap.Logger) (*Matcher, error) {
	if vec == nil || graph == nil {
		return nil, fmt.Errorf("vectorizer and skill graph are required")
	}
	if cfg.Weights.sum() <= 0 {
		cfg.Weights = DefaultWeights()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	return &Matcher{cfg: cfg, vec: vec, graph: graph, logger: logger}, nil
}

// RankJob prunes the pool and scores the survivors against a single job,
// returning matches sorted by descending score, cut at MinScore and TopK.
func (m *Matcher) RankJob(job *project.Job, pool *workforce.Employees, vectors map[string][]float64) ([]*Match, error) {
	candidates, err := RunFilters(DefaultFilters(m.cfg.AvailabilityGraceDays), job, pool, m.logger)
	if err != nil {
		return nil, err
	}

	jobVec := m.vec.Job(job)

	matches := make([]*Match, 0, candidates.Len())
	for _, e := range candidates.Items {
		ev, ok := vectors[e.ID]
		if !ok {
			ev = m.vec.Employee(e)
		}

		breakdown := Breakdown{
			SkillSimilarity: clamp01(embedding.Cosine(jobVec, ev)),
			Coverage:        m.coverage(job, e),
			Experience:      experienceScore(job, e),
			Location:        locationScore(job, e),
			Availability:    m.availabilityScore(job, e),
		}

		w := m.cfg.Weights
		score := (w.Skills*breakdown.SkillSimilarity +
			w.Coverage*breakdown.Coverage +
			w.Experience*breakdown.Experience +
			w.Location*breakdown.Location +
			w.Availability*breakdown.Availability) / w.sum()

		if score < m.cfg.MinScore {
			continue
		}

		matches = append(matches, &Match{
			JobID:      job.ID,
			EmployeeID: e.ID,
			Score:      score,
			Breakdown:  breakdown,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].EmployeeID < matches[j].EmployeeID
	})

	if len(matches) > m.cfg.TopK {
		matches = matches[:m.cfg.TopK]
	}
	return matches, nil
}

// RankAll ranks every job in parallel and returns the combined matches,
// ordered by job ID, then rank.
func (m *Matcher) RankAll(ctx context.Context, jobs *project.Jobs, pool *workforce.Employees) (*Matches, error) {
	vectors, err := m.vec.EmployeeVectors(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("embedding employees: %w", err)
	}

	perJob := make([][]*Match, jobs.Len())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, job := range jobs.Items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ranked, err := m.RankJob(job, pool, vectors)
			if err != nil {
				return fmt.Errorf("ranking %s: %w", job.ID, err)
			}
			perJob[i] = ranked
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Matches{}
	for _, ranked := range perJob {
		out.Items = append(out.Items, ranked...)
	}

	if m.logger != nil {
		m.logger.Info("matching completed",
			zap.Int("jobs", jobs.Len()),
			zap.Int("employees", pool.Len()),
			zap.Int("matches", out.Len()),
		)
	}
	return out, nil
}

// Neighbor is an employee-to-employee similarity result.
type Neighbor struct {
	EmployeeID string
	Similarity float64
}

// SimilarEmployees returns the k nearest employees to the target by embedding
// cosine similarity.
func (m *Matcher) SimilarEmployees(target *workforce.Employee, pool *workforce.Employees, k int) []Neighbor {
	tv := m.vec.Employee(target)

	neighbors := make([]Neighbor, 0, pool.Len())
	for _, e := range pool.Items {
		if e.ID == target.ID {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			EmployeeID: e.ID,
			Similarity: embedding.Cosine(tv, m.vec.Employee(e)),
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].EmployeeID < neighbors[j].EmployeeID
	})

	if k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// coverage measures how well the employee's skills cover the job's
// technologies, giving partial credit for adjacent skills.
func (m *Matcher) coverage(job *project.Job, e *workforce.Employee) float64 {
	if len(job.Technologies) == 0 {
		return 0
	}

	total := 0.0
	for _, tech := range job.Technologies {
		if e.HasSkill(tech) {
			total += 1.0
			continue
		}
		total += m.graph.BestRelatedness(tech, e.Skills)
	}
	return total / float64(len(job.Technologies))
}

// experienceScore rewards meeting the requirement without a large overshoot;
// heavily overqualified people are better used elsewhere.
func experienceScore(job *project.Job, e *workforce.Employee) float64 {
	overshoot := float64(e.YearsExperience - job.MinExperience)
	if overshoot < 0 {
		return 0
	}
	return clamp01(1 - overshoot/24)
}

func locationScore(job *project.Job, e *workforce.Employee) float64 {
	if e.Location == job.Location {
		return 1.0
	}
	if e.RemoteOK {
		return 0.7
	}
	return 0
}

// availabilityScore is 1 when the employee is free on or before the start
// date and decays linearly over the configured grace window.
func (m *Matcher) availabilityScore(job *project.Job, e *workforce.Employee) float64 {
	slack := availabilitySlackDays(job, e)
	if slack >= 0 {
		return 1.0
	}
	if m.cfg.AvailabilityGraceDays <= 0 {
		return 0
	}
	return clamp01(1 + slack/float64(m.cfg.AvailabilityGraceDays))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
