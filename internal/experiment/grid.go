package experiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Param is a named parameter and the values it takes
type Param struct {
	Name   string
	Values []any
}

// Grid is an ordered set of parameters. Its configurations are the
// cartesian product of the parameter values.
type Grid struct {
	params []Param
}

// NewGrid creates an empty grid
func NewGrid() *Grid {
	return &Grid{}
}

// Add appends a parameter, or replaces the values of an existing one in place
func (g *Grid) Add(name string, values ...any) *Grid {
	vals := append([]any(nil), values...)
	for i := range g.params {
		if g.params[i].Name == name {
			g.params[i].Values = vals
			return g
		}
	}
	g.params = append(g.params, Param{Name: name, Values: vals})
	return g
}

// Params returns the parameters in insertion order
func (g *Grid) Params() []Param {
	out := make([]Param, len(g.params))
	for i, p := range g.params {
		out[i] = Param{Name: p.Name, Values: append([]any(nil), p.Values...)}
	}
	return out
}

// Size is the number of configurations. A grid without parameters has
// exactly one, the empty configuration.
func (g *Grid) Size() int {
	n := 1
	for _, p := range g.params {
		n *= len(p.Values)
	}
	return n
}

// Configurations enumerates the product in insertion order, the last
// parameter varying fastest. A parameter without values leaves no
// configurations at all.
func (g *Grid) Configurations() []Configuration {
	size := g.Size()
	if size == 0 {
		return nil
	}

	names := make([]string, len(g.params))
	for i, p := range g.params {
		names[i] = p.Name
	}

	configs := make([]Configuration, 0, size)
	idx := make([]int, len(g.params))
	for n := 0; n < size; n++ {
		values := make([]any, len(g.params))
		for i, p := range g.params {
			values[i] = p.Values[idx[i]]
		}
		configs = append(configs, Configuration{names: names, values: values})

		// odometer increment, rightmost first
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(g.params[i].Values) {
				break
			}
			idx[i] = 0
		}
	}
	return configs
}

// Configuration is one combination of parameter values
type Configuration struct {
	names  []string
	values []any
}

// Get returns the value of the named parameter
func (c Configuration) Get(name string) (any, bool) {
	for i, n := range c.names {
		if n == name {
			return c.values[i], true
		}
	}
	return nil, false
}

// Values returns the values in parameter order
func (c Configuration) Values() []any {
	return append([]any(nil), c.values...)
}

// Map returns the configuration keyed by parameter name
func (c Configuration) Map() map[string]any {
	m := make(map[string]any, len(c.names))
	for i, n := range c.names {
		m[n] = c.values[i]
	}
	return m
}

// String renders the configuration as name=value pairs, e.g. "trial=3,lr=0.1"
func (c Configuration) String() string {
	parts := make([]string, len(c.names))
	for i, n := range c.names {
		parts[i] = fmt.Sprintf("%s=%v", n, c.values[i])
	}
	return strings.Join(parts, ",")
}

// GridWork is the work run once per configuration
type GridWork func(ctx context.Context, c Configuration) (any, error)

// ConfigurationIDs returns a unique id per configuration. The id is the
// configuration string; when that string repeats, as with repeated trial
// values or values that print alike, every copy is prefixed with its index
// ("3:trial=1"). The empty configuration is named by its index.
func ConfigurationIDs(configs []Configuration) []string {
	rendered := make([]string, len(configs))
	seen := make(map[string]int, len(configs))
	for i, c := range configs {
		rendered[i] = c.String()
		seen[rendered[i]]++
	}

	ids := make([]string, len(configs))
	for i, r := range rendered {
		switch {
		case r == "":
			ids[i] = strconv.Itoa(i)
		case seen[r] > 1:
			ids[i] = strconv.Itoa(i) + ":" + r
		default:
			ids[i] = r
		}
	}
	return ids
}

// GridTasks builds one task per configuration of g. Task ids come from
// ConfigurationIDs and metadata holds the parameter values.
func GridTasks(g *Grid, work GridWork) []Task {
	configs := g.Configurations()
	ids := ConfigurationIDs(configs)
	tasks := make([]Task, 0, len(configs))
	for i, c := range configs {
		c := c // go 1.21: per-iteration copy for the closure below
		tasks = append(tasks, Task{
			ID:       ids[i],
			Metadata: c.Map(),
			Work: func(ctx context.Context) (any, error) {
				return work(ctx, c)
			},
		})
	}
	return tasks
}
