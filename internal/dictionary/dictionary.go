// Package dictionary holds the shared vocabularies the generators, validators
// and matchers agree on: skills grouped by category, roles with seniority
// levels, industry domains and office locations.
package dictionary

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// RemoteLocation is the virtual location that marks fully remote work.
const RemoteLocation = "Remote"

type Dictionaries struct {
	Skills    Skills
	Roles     Roles
	Domains   Domains
	Locations Locations
}

// Skills maps a category name to the skills it contains. Adjacent lists
// explicit substitutability overrides between individual skills.
type Skills struct {
	Categories map[string][]string `yaml:"categories"`
	Adjacent   []Adjacency         `yaml:"adjacent"`
}

type Adjacency struct {
	A      string  `yaml:"a"`
	B      string  `yaml:"b"`
	Weight float64 `yaml:"weight"`
}

type Roles struct {
	Roles  []string `yaml:"roles"`
	Levels []Level  `yaml:"levels"`
}

type Level struct {
	Name     string `yaml:"name"`
	Rank     int    `yaml:"rank"`
	MinYears int    `yaml:"min-years"`
}

type Domains struct {
	IndustryVerticals []string `yaml:"industry-verticals"`
	ServiceLines      []string `yaml:"service-lines"`
}

type Locations struct {
	India   []string `yaml:"india"`
	Global  []string `yaml:"global"`
	Virtual []string `yaml:"virtual"`
}

// Load reads the dictionary files from dir. A missing file falls back to the
// compiled-in default, so a partial directory overlays the defaults. An empty
// dir loads the defaults only.
func Load(dir string) (*Dictionaries, error) {
	d := &Dictionaries{}

	files := []struct {
		name string
		dst  any
	}{
		{"skills.yaml", &d.Skills},
		{"roles.yaml", &d.Roles},
		{"domains.yaml", &d.Domains},
		{"locations.yaml", &d.Locations},
	}

	for _, f := range files {
		data, err := readDictFile(dir, f.name)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.name, err)
		}
	}

	if err := d.check(); err != nil {
		return nil, err
	}

	return d, nil
}

func readDictFile(dir, name string) ([]byte, error) {
	if dir != "" {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	data, err := defaultsFS.ReadFile("defaults/" + name)
	if err != nil {
		return nil, fmt.Errorf("reading embedded default %s: %w", name, err)
	}
	return data, nil
}

func (d *Dictionaries) check() error {
	if len(d.Skills.Categories) == 0 {
		return fmt.Errorf("skills dictionary has no categories")
	}
	if len(d.Roles.Roles) == 0 || len(d.Roles.Levels) == 0 {
		return fmt.Errorf("roles dictionary needs both roles and levels")
	}
	if len(d.Domains.IndustryVerticals) == 0 || len(d.Domains.ServiceLines) == 0 {
		return fmt.Errorf("domains dictionary needs both verticals and service lines")
	}
	if len(d.AllLocations()) == 0 {
		return fmt.Errorf("locations dictionary is empty")
	}

	all := d.AllSkills()
	for _, adj := range d.Skills.Adjacent {
		if _, ok := all[adj.A]; !ok {
			return fmt.Errorf("adjacency references unknown skill %q", adj.A)
		}
		if _, ok := all[adj.B]; !ok {
			return fmt.Errorf("adjacency references unknown skill %q", adj.B)
		}
		if adj.Weight <= 0 {
			return fmt.Errorf("adjacency %s-%s must have a positive weight", adj.A, adj.B)
		}
	}

	return nil
}

// AllSkills returns every known skill mapped to its category.
func (d *Dictionaries) AllSkills() map[string]string {
	out := make(map[string]string)
	for cat, skills := range d.Skills.Categories {
		for _, s := range skills {
			out[s] = cat
		}
	}
	return out
}

// SkillList returns every known skill sorted alphabetically.
func (d *Dictionaries) SkillList() []string {
	all := d.AllSkills()
	out := make([]string, 0, len(all))
	for s := range all {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// CategoryNames returns the skill category names sorted alphabetically.
func (d *Dictionaries) CategoryNames() []string {
	out := make([]string, 0, len(d.Skills.Categories))
	for cat := range d.Skills.Categories {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// AllLocations returns every location from all groups, india first.
func (d *Dictionaries) AllLocations() []string {
	out := make([]string, 0, len(d.Locations.India)+len(d.Locations.Global)+len(d.Locations.Virtual))
	out = append(out, d.Locations.India...)
	out = append(out, d.Locations.Global...)
	out = append(out, d.Locations.Virtual...)
	return out
}

func (d *Dictionaries) HasLocation(name string) bool {
	for _, l := range d.AllLocations() {
		if l == name {
			return true
		}
	}
	return false
}

func (d *Dictionaries) HasRole(name string) bool {
	for _, r := range d.Roles.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (d *Dictionaries) HasVertical(name string) bool {
	for _, v := range d.Domains.IndustryVerticals {
		if v == name {
			return true
		}
	}
	return false
}

// LevelByName returns the level definition for the given name.
func (d *Dictionaries) LevelByName(name string) (Level, bool) {
	for _, l := range d.Roles.Levels {
		if l.Name == name {
			return l, true
		}
	}
	return Level{}, false
}

// LevelNames returns level names ordered by rank.
func (d *Dictionaries) LevelNames() []string {
	levels := make([]Level, len(d.Roles.Levels))
	copy(levels, d.Roles.Levels)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Rank < levels[j].Rank })

	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, l.Name)
	}
	return out
}
