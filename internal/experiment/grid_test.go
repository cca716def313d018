package experiment

import (
	"context"
	"fmt"
	"testing"
)

func TestGrid_Configurations(t *testing.T) {
	g := NewGrid().Add("trial", 1, 2).Add("lr", 0.1, 0.01, 0.001)

	if g.Size() != 6 {
		t.Fatalf("expected 6 configurations, got %d", g.Size())
	}

	want := []string{
		"trial=1,lr=0.1", "trial=1,lr=0.01", "trial=1,lr=0.001",
		"trial=2,lr=0.1", "trial=2,lr=0.01", "trial=2,lr=0.001",
	}
	configs := g.Configurations()
	for i, c := range configs {
		if c.String() != want[i] {
			t.Errorf("configuration %d: expected %s, got %s", i, want[i], c.String())
		}
	}

	lr, ok := configs[4].Get("lr")
	if !ok || lr != 0.01 {
		t.Errorf("expected lr=0.01, got %v (%v)", lr, ok)
	}
	if _, ok := configs[0].Get("missing"); ok {
		t.Error("unexpected value for missing parameter")
	}
	if fmt.Sprint(configs[5].Values()) != "[2 0.001]" {
		t.Errorf("unexpected values %v", configs[5].Values())
	}
}

func TestGrid_AddReplacesInPlace(t *testing.T) {
	g := NewGrid().Add("a", 1).Add("b", 2).Add("a", 3, 4)

	params := g.Params()
	if len(params) != 2 || params[0].Name != "a" || len(params[0].Values) != 2 {
		t.Fatalf("unexpected params %+v", params)
	}
	if g.Configurations()[0].String() != "a=3,b=2" {
		t.Errorf("unexpected first configuration %s", g.Configurations()[0])
	}
}

func TestGrid_Empty(t *testing.T) {
	g := NewGrid()
	if g.Size() != 1 {
		t.Fatalf("expected one configuration, got %d", g.Size())
	}
	configs := g.Configurations()
	if len(configs) != 1 || configs[0].String() != "" || len(configs[0].Values()) != 0 {
		t.Errorf("expected the empty configuration, got %v", configs)
	}

	tasks := GridTasks(g, func(ctx context.Context, c Configuration) (any, error) {
		return len(c.Map()), nil
	})
	report, err := Run(context.Background(), Config{Tasks: tasks, MaxParallelism: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o, ok := report.Get("0"); !ok || o.State != StateSucceeded || o.Value != 0 {
		t.Errorf("expected task 0 to succeed with 0, got %+v (%v)", o, ok)
	}
}

func TestGrid_ParameterWithoutValues(t *testing.T) {
	g := NewGrid().Add("a", 1).Add("b")
	if g.Size() != 0 || len(g.Configurations()) != 0 {
		t.Errorf("expected no configurations, got %d", g.Size())
	}
}

func TestConfigurationIDs(t *testing.T) {
	tests := []struct {
		name string
		grid *Grid
		want []string
	}{
		{
			name: "distinct values",
			grid: NewGrid().Add("x", 1, 2),
			want: []string{"x=1", "x=2"},
		},
		{
			name: "repeated trials",
			grid: NewGrid().Add("trial", 1, 1).Add("lr", 0.1),
			want: []string{"0:trial=1,lr=0.1", "1:trial=1,lr=0.1"},
		},
		{
			name: "values that print alike",
			grid: NewGrid().Add("x", 1, 2, 1.0, "1"),
			want: []string{"0:x=1", "x=2", "2:x=1", "3:x=1"},
		},
		{
			name: "empty grid",
			grid: NewGrid(),
			want: []string{"0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigurationIDs(tt.grid.Configurations())
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGridTasks_RepeatedValuesAllRun(t *testing.T) {
	g := NewGrid().Add("trial", 1, 1, 1)
	tasks := GridTasks(g, func(ctx context.Context, c Configuration) (any, error) {
		v, _ := c.Get("trial")
		return v, nil
	})

	report, err := Run(context.Background(), Config{Tasks: tasks, MaxParallelism: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Counts().Succeeded != 3 {
		t.Errorf("expected 3 succeeded, got %+v", report.Counts())
	}
}

func TestGridTasks(t *testing.T) {
	g := NewGrid().Add("x", 2, 3).Add("y", 10)
	tasks := GridTasks(g, func(ctx context.Context, c Configuration) (any, error) {
		x, _ := c.Get("x")
		y, _ := c.Get("y")
		return x.(int) * y.(int), nil
	})

	report, err := Run(context.Background(), Config{Tasks: tasks, MaxParallelism: 2, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]int{"x=2,y=10": 20, "x=3,y=10": 30}
	for id, v := range want {
		o, ok := report.Get(id)
		if !ok {
			t.Fatalf("missing task %s", id)
		}
		if o.Value != v {
			t.Errorf("%s: expected %d, got %v", id, v, o.Value)
		}
		if o.Metadata["y"] != 10 {
			t.Errorf("%s: expected metadata y=10, got %v", id, o.Metadata["y"])
		}
	}
}
