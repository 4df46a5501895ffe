package workforce

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/talentops/benchmatch/internal/dictionary"
)

func testConfig() GeneratorConfig {
	return GeneratorConfig{
		SkillsPerEmployee: Range{Min: 4, Max: 10},
		CostRateLakhs:     Range{Min: 8, Max: 60},
		BenchDaysMax:      120,
		RemoteProbability: 0.3,
		BusyProbability:   0.3,
		JobCount:          50,
	}
}

func mustDicts(t *testing.T) *dictionary.Dictionaries {
	t.Helper()
	d, err := dictionary.Load("")
	if err != nil {
		t.Fatalf("loading dictionaries: %v", err)
	}
	return d
}

func TestGenerateInvariants(t *testing.T) {
	dicts := mustDicts(t)
	gen := NewGenerator(testConfig(), dicts, 42)

	es, err := gen.Generate(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if es.Len() != 100 {
		t.Fatalf("expected 100 employees, got %d", es.Len())
	}

	all := dicts.AllSkills()
	seen := make(map[string]bool)

	for _, e := range es.Items {
		if seen[e.ID] {
			t.Fatalf("duplicate employee id %s", e.ID)
		}
		seen[e.ID] = true

		level, ok := dicts.LevelByName(e.Level)
		if !ok {
			t.Fatalf("%s: unknown level %q", e.ID, e.Level)
		}
		if e.YearsExperience < level.MinYears {
			t.Fatalf("%s: %d years below minimum %d for %s", e.ID, e.YearsExperience, level.MinYears, e.Level)
		}

		if len(e.Skills) < 4 || len(e.Skills) > 10 {
			t.Fatalf("%s: skill count %d outside [4,10]", e.ID, len(e.Skills))
		}
		skillSeen := make(map[string]bool)
		for _, s := range e.Skills {
			if _, ok := all[s]; !ok {
				t.Fatalf("%s: unknown skill %q", e.ID, s)
			}
			if skillSeen[s] {
				t.Fatalf("%s: duplicate skill %q", e.ID, s)
			}
			skillSeen[s] = true
		}

		if !dicts.HasLocation(e.Location) {
			t.Fatalf("%s: unknown location %q", e.ID, e.Location)
		}
		if e.Location == dictionary.RemoteLocation && !e.RemoteOK {
			t.Fatalf("%s: remote location but RemoteOK is false", e.ID)
		}

		if e.CurrentProject != "" && e.BenchDays != 0 {
			t.Fatalf("%s: busy employee with bench days", e.ID)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	dicts := mustDicts(t)

	a, err := NewGenerator(testConfig(), dicts, 7).Generate(20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewGenerator(testConfig(), dicts, 7).Generate(20)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a.Items {
		if !reflect.DeepEqual(a.Items[i], b.Items[i]) {
			t.Fatalf("employee %d differs between runs with the same seed", i)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	dicts := mustDicts(t)
	es, err := NewGenerator(testConfig(), dicts, 3).Generate(10)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "employees.csv")
	if err := es.WriteCSV(path); err != nil {
		t.Fatalf("writing: %v", err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("reading: %v", err)
	}

	if got.Len() != es.Len() {
		t.Fatalf("expected %d employees, got %d", es.Len(), got.Len())
	}
	for i := range es.Items {
		if !reflect.DeepEqual(es.Items[i], got.Items[i]) {
			t.Fatalf("employee %d differs after round trip:\nwant %+v\ngot  %+v", i, es.Items[i], got.Items[i])
		}
	}
}

func TestExclude(t *testing.T) {
	es := &Employees{Items: []*Employee{
		{ID: "E0001", Role: "Developer"},
		{ID: "E0002", Role: "QA Engineer"},
		{ID: "E0003", Role: "Developer"},
	}}

	excluded := es.Exclude(EmployeeIDField, []string{"E0002"})
	if len(excluded) != 1 || excluded[0] != "E0002" {
		t.Fatalf("unexpected excluded: %v", excluded)
	}
	if es.Len() != 2 || es.FindByID("E0002") != nil {
		t.Fatalf("E0002 still present after exclusion")
	}
}
