package engine

import (
	"fmt"
	"sort"

	"github.com/melih-ucgun/rigup/internal/core"
)

// PlanOrder returns the order in which resolution would visit states for
// the target: dependencies first, depth-first, each state once. Nothing
// executes. Cycles are short-circuited the way the resolver does it.
func PlanOrder(graph map[string]*core.State, target string) ([]string, error) {
	var order []string
	visited := make(map[string]bool)

	var walk func(name string) error
	walk = func(name string) error {
		if visited[name] {
			return nil
		}
		visited[name] = true

		st, ok := graph[name]
		if !ok {
			return fmt.Errorf("unknown state: %s", name)
		}
		for _, dep := range st.DependsOn {
			if err := walk(dep); err != nil {
				return err
			}
		}
		order = append(order, name)
		return nil
	}

	if err := walk(target); err != nil {
		return nil, err
	}
	return order, nil
}

// Layers groups the states reachable from targets into batches whose
// members share no ordering constraints (Kahn's algorithm). The resolver
// itself runs strictly sequentially; layers exist for the graph command's
// display of where parallelism would be possible.
func Layers(graph map[string]*core.State, targets []string) ([][]string, error) {
	reachable := make(map[string]bool)
	var mark func(name string)
	mark = func(name string) {
		if reachable[name] {
			return
		}
		reachable[name] = true
		if st, ok := graph[name]; ok {
			for _, dep := range st.DependsOn {
				mark(dep)
			}
		}
	}
	for _, t := range targets {
		mark(t)
	}

	inDegree := make(map[string]int)
	dependents := make(map[string][]string)
	for name := range reachable {
		st, ok := graph[name]
		if !ok {
			return nil, fmt.Errorf("unknown state: %s", name)
		}
		inDegree[name] += 0
		for _, dep := range st.DependsOn {
			if !reachable[dep] {
				continue
			}
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var layers [][]string
	processed := 0
	for len(queue) > 0 {
		layer := queue
		queue = nil

		for _, name := range layer {
			processed++
			for _, next := range dependents[name] {
				inDegree[next]--
				if inDegree[next] == 0 {
					queue = append(queue, next)
				}
			}
		}

		sort.Strings(queue)
		layers = append(layers, layer)
	}

	if processed != len(reachable) {
		return nil, fmt.Errorf("circular dependency detected")
	}
	return layers, nil
}

// DetectCycles finds dependency cycles in the whole graph. The resolver
// tolerates them via its visited guard; doctor and graph surface them as
// warnings so the masking is at least visible.
func DetectCycles(graph map[string]*core.State) [][]string {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current path
		black = 2 // done
	)

	color := make(map[string]int)
	var cycles [][]string
	var path []string

	var visit func(name string)
	visit = func(name string) {
		color[name] = grey
		path = append(path, name)

		if st, ok := graph[name]; ok {
			for _, dep := range st.DependsOn {
				switch color[dep] {
				case white:
					visit(dep)
				case grey:
					// Back edge: slice the cycle out of the current path.
					for i, n := range path {
						if n == dep {
							cycle := append(append([]string{}, path[i:]...), dep)
							cycles = append(cycles, cycle)
							break
						}
					}
				}
			}
		}

		path = path[:len(path)-1]
		color[name] = black
	}

	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if color[name] == white {
			visit(name)
		}
	}
	return cycles
}
