package workforce

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/talentops/benchmatch/internal/dictionary"
)

// GeneratorConfig controls the shape of the synthetic workforce.
type GeneratorConfig struct {
	SkillsPerEmployee Range   `mapstructure:"skills-per-employee"`
	CostRateLakhs     Range   `mapstructure:"cost-rate-lakhs"`
	BenchDaysMax      int     `mapstructure:"bench-days-max"`
	RemoteProbability float64 `mapstructure:"remote-probability"`
	BusyProbability   float64 `mapstructure:"busy-probability"`
	// JobCount lets busy employees reference project IDs that the job
	// generator will emit for the same configuration.
	JobCount int `mapstructure:"-"`
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

var (
	firstNames = []string{
		"Aarav", "Ananya", "Rohan", "Priya", "Vikram", "Sneha", "Arjun", "Divya",
		"Kiran", "Meera", "Rahul", "Isha", "Nikhil", "Pooja", "Sanjay", "Tara",
		"Alex", "Maria", "James", "Sofia", "Daniel", "Elena", "Omar", "Grace",
	}
	lastNames = []string{
		"Sharma", "Iyer", "Patel", "Reddy", "Nair", "Gupta", "Singh", "Das",
		"Mehta", "Kulkarni", "Bose", "Chopra", "Kumar", "Joshi", "Verma", "Rao",
		"Smith", "Garcia", "Chen", "Mueller", "Tanaka", "Okafor", "Novak", "Silva",
	}
)

// Generate produces n employees. Output is deterministic for a fixed seed.
func (g *Generator) Generate(n int) (*Employees, error) {
	if n <= 0 {
		return nil, fmt.Errorf("employee count must be positive, got %d", n)
	}
	if g.cfg.SkillsPerEmployee.Min <= 0 || g.cfg.SkillsPerEmployee.Max < g.cfg.SkillsPerEmployee.Min {
		return nil, fmt.Errorf("invalid skills-per-employee range %+v", g.cfg.SkillsPerEmployee)
	}
	if g.cfg.CostRateLakhs.Min <= 0 || g.cfg.CostRateLakhs.Max < g.cfg.CostRateLakhs.Min {
		return nil, fmt.Errorf("invalid cost-rate-lakhs range %+v", g.cfg.CostRateLakhs)
	}

	es := &Employees{Items: make([]*Employee, 0, n)}
	for i := 1; i <= n; i++ {
		es.Items = append(es.Items, g.generateOne(i))
	}
	return es, nil
}

func (g *Generator) generateOne(i int) *Employee {
	role := pick(g.rng, g.dicts.Roles.Roles)
	level := g.dicts.Roles.Levels[g.rng.Intn(len(g.dicts.Roles.Levels))]

	years := level.MinYears + g.rng.Intn(7)

	location := pick(g.rng, g.dicts.AllLocations())
	remoteOK := location == dictionary.RemoteLocation || g.rng.Float64() < g.cfg.RemoteProbability

	e := &Employee{
		ID:              fmt.Sprintf("E%04d", i),
		Name:            pick(g.rng, firstNames) + " " + pick(g.rng, lastNames),
		Role:            role,
		Level:           level.Name,
		YearsExperience: years,
		Skills:          g.pickSkills(),
		Location:        location,
		RemoteOK:        remoteOK,
		CostRate:        g.cfg.CostRateLakhs.Min + g.rng.Intn(g.cfg.CostRateLakhs.Max-g.cfg.CostRateLakhs.Min+1),
	}

	if g.cfg.JobCount > 0 && g.rng.Float64() < g.cfg.BusyProbability {
		// Busy until the current engagement wraps up.
		e.CurrentProject = fmt.Sprintf("P%04d", 1+g.rng.Intn(g.cfg.JobCount))
		e.AvailableFrom = g.now.AddDate(0, 0, 10+g.rng.Intn(81))
		e.BenchDays = 0
		return e
	}

	e.AvailableFrom = g.now
	if g.cfg.BenchDaysMax > 0 {
		e.BenchDays = g.rng.Intn(g.cfg.BenchDaysMax + 1)
	}
	return e
}

func (g *Generator) pickSkills() []string {
	cats := sample(g.rng, g.dicts.CategoryNames(), 1+g.rng.Intn(3))

	seen := make(map[string]bool)
	var skills []string
	for _, cat := range cats {
		for _, s := range sample(g.rng, g.dicts.Skills.Categories[cat], 2+g.rng.Intn(3)) {
			if !seen[s] {
				seen[s] = true
				skills = append(skills, s)
			}
		}
	}

	// Top up from the full pool until the minimum is met.
	pool := g.dicts.SkillList()
	for len(skills) < g.cfg.SkillsPerEmployee.Min {
		s := pick(g.rng, pool)
		if !seen[s] {
			seen[s] = true
			skills = append(skills, s)
		}
	}

	if len(skills) > g.cfg.SkillsPerEmployee.Max {
		skills = skills[:g.cfg.SkillsPerEmployee.Max]
	}
	return skills
}

func pick(rng *rand.Rand, list []string) string {
	return list[rng.Intn(len(list))]
}

// sample returns up to k distinct elements of list in random order.
func sample(rng *rand.Rand, list []string, k int) []string {
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
