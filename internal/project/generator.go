package project

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/talentops/benchmatch/internal/dictionary"
)

// GeneratorConfig controls the shape of the synthetic project portfolio.
type GeneratorConfig struct {
	DurationMonths         Range              `mapstructure:"duration-months"`
	BudgetLakhs            Range              `mapstructure:"budget-lakhs-inr"`
	MinExperienceYears     Range              `mapstructure:"min-experience-years"`
	SkillsPerJobMax        int                `mapstructure:"skills-per-job-max"`
	HRRequirementsPeople   int                `mapstructure:"hr-requirements-people-max"`
	RemoteMixProbability   float64            `mapstructure:"remote-mix-probability"`
	PriorityWeights        map[string]float64 `mapstructure:"priority-weights"`
	ManagerPrefProbability float64            `mapstructure:"manager-pref-probability"`
}

type Range struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

type Generator struct {
	cfg   GeneratorConfig
	dicts *dictionary.Dictionaries
	rng   *rand.Rand
	now   time.Time
}

func NewGenerator(cfg GeneratorConfig, dicts *dictionary.Dictionaries, seed int64) *Generator {
	return &Generator{
		cfg:   cfg,
		dicts: dicts,
		rng:   rand.New(rand.NewSource(seed)),
		now:   time.Now().UTC().Truncate(24 * time.Hour),
	}
}

// Generate produces n jobs. Employee IDs, when provided, seed manager
// preferences. Output is deterministic for a fixed seed.
func (g *Generator) Generate(n int, employeeIDs []string) (*Jobs, error) {
	if n <= 0 {
		return nil, fmt.Errorf("job count must be positive, got %d", n)
	}
	if g.cfg.DurationMonths.Min <= 0 || g.cfg.DurationMonths.Max < g.cfg.DurationMonths.Min {
		return nil, fmt.Errorf("invalid duration-months range %+v", g.cfg.DurationMonths)
	}
	if g.cfg.HRRequirementsPeople < 3 {
		return nil, fmt.Errorf("hr-requirements-people-max must be at least 3, got %d", g.cfg.HRRequirementsPeople)
	}
	if len(g.cfg.PriorityWeights) == 0 {
		return nil, fmt.Errorf("priority-weights must not be empty")
	}

	js := &Jobs{Items: make([]*Job, 0, n)}
	var existing []string
	for i := 1; i <= n; i++ {
		job := g.generateOne(i, existing, employeeIDs)
		js.Items = append(js.Items, job)
		existing = append(existing, job.ID)
	}
	return js, nil
}

func (g *Generator) generateOne(i int, existing, employeeIDs []string) *Job {
	vertical := pick(g.rng, g.dicts.Domains.IndustryVerticals)
	serviceLine := pick(g.rng, g.dicts.Domains.ServiceLines)

	location := pick(g.rng, g.dicts.AllLocations())
	remote := location == dictionary.RemoteLocation || g.rng.Float64() < g.cfg.RemoteMixProbability

	months := g.cfg.DurationMonths.Min + g.rng.Intn(g.cfg.DurationMonths.Max-g.cfg.DurationMonths.Min+1)
	start := g.now.AddDate(0, 0, g.rng.Intn(61))
	end := start.AddDate(0, 0, int(30.4*float64(months)))

	job := &Job{
		ID:             fmt.Sprintf("P%04d", i),
		ProjectName:    fmt.Sprintf("%s for %s", serviceLine, vertical),
		Domain:         vertical,
		Location:       location,
		StartDate:      start,
		EndDate:        end,
		DurationMonths: months,
		Budget:         g.cfg.BudgetLakhs.Min + g.rng.Intn(g.cfg.BudgetLakhs.Max-g.cfg.BudgetLakhs.Min+1),
		Technologies:   g.pickTechnologies(),
		HRRequirements: g.generateHRRequirements(),
		MinExperience:  g.cfg.MinExperienceYears.Min + g.rng.Intn(g.cfg.MinExperienceYears.Max-g.cfg.MinExperienceYears.Min+1),
		Priority:       g.weightedPriority(),
		RemotePossible: remote,
	}

	if len(existing) > 0 {
		if similar := sample(g.rng, existing, g.rng.Intn(3)); len(similar) > 0 {
			job.SimilarProjects = similar
		}
	}
	if len(employeeIDs) > 0 && g.rng.Float64() < g.cfg.ManagerPrefProbability {
		if pref := sample(g.rng, employeeIDs, 1+g.rng.Intn(2)); len(pref) > 0 {
			job.ManagerPref = pref
		}
	}

	return job
}

// pickTechnologies samples two categories and one to three skills from each,
// deduplicated and capped at the configured maximum.
func (g *Generator) pickTechnologies() []string {
	cats := sample(g.rng, g.dicts.CategoryNames(), 2)

	seen := make(map[string]bool)
	var skills []string
	for _, cat := range cats {
		for _, s := range sample(g.rng, g.dicts.Skills.Categories[cat], 1+g.rng.Intn(3)) {
			if !seen[s] {
				seen[s] = true
				skills = append(skills, s)
			}
		}
	}

	if g.cfg.SkillsPerJobMax > 0 && len(skills) > g.cfg.SkillsPerJobMax {
		skills = skills[:g.cfg.SkillsPerJobMax]
	}
	return skills
}

// generateHRRequirements builds one to three "<Level> <Role>" headcount
// entries. Each count stays within max people divided by the number of roles.
func (g *Generator) generateHRRequirements() map[string]int {
	levels := g.dicts.LevelNames()
	nRoles := 1 + g.rng.Intn(3)

	reqs := make(map[string]int)
	for len(reqs) < nRoles {
		role := pick(g.rng, g.dicts.Roles.Roles)
		level := pick(g.rng, levels)
		maxCount := g.cfg.HRRequirementsPeople / nRoles
		if maxCount < 1 {
			maxCount = 1
		}
		reqs[level+" "+role] = 1 + g.rng.Intn(maxCount)
	}
	return reqs
}

// weightedPriority draws a priority name according to the configured weights.
// Iteration order is fixed by sorting the names so the draw is deterministic.
func (g *Generator) weightedPriority() string {
	names := make([]string, 0, len(g.cfg.PriorityWeights))
	total := 0.0
	for name, w := range g.cfg.PriorityWeights {
		names = append(names, name)
		total += w
	}
	sort.Strings(names)

	target := g.rng.Float64() * total
	acc := 0.0
	for _, name := range names {
		acc += g.cfg.PriorityWeights[name]
		if target < acc {
			return name
		}
	}
	return names[len(names)-1]
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}

// sample returns up to k distinct elements of list in random order.
func sample(rng *rand.Rand, list []string, k int) []string {
	if k <= 0 {
		return nil
	}
	if k >= len(list) {
		k = len(list)
	}
	idx := rng.Perm(len(list))[:k]
	out := make([]string, 0, k)
	for _, i := range idx {
		out = append(out, list[i])
	}
	return out
}
