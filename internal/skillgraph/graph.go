// Package skillgraph models substitutability between related skills as a
// weighted undirected graph over the skills dictionary. Skills in the same
// category are connected with a default distance; explicit adjacency entries
// override it for pairs that are closer than their category suggests.
package skillgraph

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/talentops/benchmatch/internal/dictionary"
)

// DefaultCategoryWeight is the edge distance between two skills that only
// share a category.
const DefaultCategoryWeight = 1.0

type Graph struct {
	ids   map[string]int64
	names map[int64]string
	paths path.AllShortest
}

// Build constructs the graph from the dictionaries. categoryWeight is the
// distance between same-category skills; values at or below zero fall back to
// DefaultCategoryWeight.
func Build(dicts *dictionary.Dictionaries, categoryWeight float64) (*Graph, error) {
	if categoryWeight <= 0 {
		categoryWeight = DefaultCategoryWeight
	}

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))

	ids := make(map[string]int64)
	names := make(map[int64]string)

	next := int64(0)
	for _, skill := range dicts.SkillList() {
		ids[skill] = next
		names[next] = skill
		g.AddNode(simple.Node(next))
		next++
	}

	for _, skills := range dicts.Skills.Categories {
		for i := 0; i < len(skills); i++ {
			for j := i + 1; j < len(skills); j++ {
				g.SetWeightedEdge(g.NewWeightedEdge(
					simple.Node(ids[skills[i]]),
					simple.Node(ids[skills[j]]),
					categoryWeight,
				))
			}
		}
	}

	// Overrides replace any category edge for the same pair.
	for _, adj := range dicts.Skills.Adjacent {
		a, aok := ids[adj.A]
		b, bok := ids[adj.B]
		if !aok || !bok {
			return nil, fmt.Errorf("adjacency references unknown skill pair %s-%s", adj.A, adj.B)
		}
		if a == b {
			return nil, fmt.Errorf("adjacency %s-%s is a self loop", adj.A, adj.B)
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(a), simple.Node(b), adj.Weight))
	}

	return &Graph{
		ids:   ids,
		names: names,
		paths: path.DijkstraAllPaths(g),
	}, nil
}

// Size returns the number of skills in the graph.
func (sg *Graph) Size() int {
	return len(sg.ids)
}

// Knows reports whether the skill is part of the graph.
func (sg *Graph) Knows(skill string) bool {
	_, ok := sg.ids[skill]
	return ok
}

// Distance returns the shortest-path distance between two skills, +Inf when
// either skill is unknown or the skills are disconnected.
func (sg *Graph) Distance(a, b string) float64 {
	ia, aok := sg.ids[a]
	ib, bok := sg.ids[b]
	if !aok || !bok {
		return math.Inf(1)
	}
	if ia == ib {
		return 0
	}
	return sg.paths.Weight(ia, ib)
}

// Relatedness maps the distance between two skills to a substitutability
// factor in [0,1]: 1 for identical skills, exp(-distance) otherwise, 0 when
// disconnected or unknown.
func (sg *Graph) Relatedness(a, b string) float64 {
	d := sg.Distance(a, b)
	if math.IsInf(d, 1) {
		return 0
	}
	return math.Exp(-d)
}

// BestRelatedness returns the highest relatedness between the target skill
// and any of the candidate skills.
func (sg *Graph) BestRelatedness(target string, candidates []string) float64 {
	best := 0.0
	for _, c := range candidates {
		if r := sg.Relatedness(target, c); r > best {
			best = r
		}
	}
	return best
}
