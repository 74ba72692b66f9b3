package engine_test

import (
	"reflect"
	"testing"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/engine"
)

func state(name string, deps ...string) *core.State {
	return &core.State{Name: name, DependsOn: deps, Actions: []core.Action{command("true")}}
}

func TestPlanOrder(t *testing.T) {
	graph := map[string]*core.State{
		"docker":   state("docker"),
		"postgres": state("postgres", "docker"),
		"api":      state("api", "postgres", "docker"),
		"web":      state("web", "api"),
	}

	order, err := engine.PlanOrder(graph, "web")
	if err != nil {
		t.Fatalf("PlanOrder failed: %v", err)
	}
	want := []string{"docker", "postgres", "api", "web"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestPlanOrderUnknownDependency(t *testing.T) {
	graph := map[string]*core.State{
		"api": state("api", "ghost"),
	}
	if _, err := engine.PlanOrder(graph, "api"); err == nil {
		t.Error("want an error for an unknown dependency")
	}
}

func TestLayers(t *testing.T) {
	graph := map[string]*core.State{
		"docker":   state("docker"),
		"env":      state("env"),
		"postgres": state("postgres", "docker"),
		"redis":    state("redis", "docker"),
		"api":      state("api", "postgres", "redis", "env"),
		"extra":    state("extra"), // unreachable from api
	}

	layers, err := engine.Layers(graph, []string{"api"})
	if err != nil {
		t.Fatalf("Layers failed: %v", err)
	}
	want := [][]string{
		{"docker", "env"},
		{"postgres", "redis"},
		{"api"},
	}
	if !reflect.DeepEqual(layers, want) {
		t.Errorf("layers = %v, want %v", layers, want)
	}
}

func TestLayersCycle(t *testing.T) {
	graph := map[string]*core.State{
		"a": state("a", "b"),
		"b": state("b", "a"),
	}
	if _, err := engine.Layers(graph, []string{"a"}); err == nil {
		t.Error("want a cycle error from the layered sort")
	}
}

func TestDetectCycles(t *testing.T) {
	t.Run("acyclic graph is clean", func(t *testing.T) {
		graph := map[string]*core.State{
			"a": state("a"),
			"b": state("b", "a"),
		}
		if cycles := engine.DetectCycles(graph); len(cycles) != 0 {
			t.Errorf("want no cycles, got %v", cycles)
		}
	})

	t.Run("two-node cycle is reported", func(t *testing.T) {
		graph := map[string]*core.State{
			"a": state("a", "b"),
			"b": state("b", "a"),
		}
		cycles := engine.DetectCycles(graph)
		if len(cycles) != 1 {
			t.Fatalf("want one cycle, got %v", cycles)
		}
		if len(cycles[0]) != 3 || cycles[0][0] != cycles[0][len(cycles[0])-1] {
			t.Errorf("cycle path should close on itself: %v", cycles[0])
		}
	})

	t.Run("self-dependency", func(t *testing.T) {
		graph := map[string]*core.State{
			"loop": state("loop", "loop"),
		}
		if cycles := engine.DetectCycles(graph); len(cycles) != 1 {
			t.Errorf("self-dependency is a cycle, got %v", cycles)
		}
	})
}
