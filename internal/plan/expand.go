package plan

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"text/template"

	"github.com/aryankumar/sweep/internal/command"
	"github.com/aryankumar/sweep/internal/experiment"
	"github.com/aryankumar/sweep/internal/util"
)

// Expand turns the plan into experiment tasks: explicit tasks first, in file
// order, then one task per matrix configuration
func (p *Plan) Expand(logger *slog.Logger) ([]experiment.Task, error) {
	if logger == nil {
		logger = slog.Default()
	}

	planEnv, err := p.readEnvFile(p.EnvFile)
	if err != nil {
		return nil, err
	}

	tasks := make([]experiment.Task, 0, len(p.Tasks))
	for _, ts := range p.Tasks {
		fileEnv, err := p.readEnvFile(ts.EnvFile)
		if err != nil {
			return nil, util.WrapErrorf(err, "task %s", ts.ID)
		}
		env := mergeEnv(planEnv, fileEnv, ts.Env)
		spec := command.Spec{Command: ts.Command, Args: ts.Args, Env: env, Dir: ts.Dir}
		tasks = append(tasks, experiment.Task{
			ID:       ts.ID,
			Work:     command.Work(spec, logger.With("task", ts.ID)),
			Metadata: map[string]any{"command": spec.String()},
		})
	}

	if p.Matrix == nil {
		return tasks, nil
	}

	templateEnv, err := p.readEnvFile(p.Matrix.Task.EnvFile)
	if err != nil {
		return nil, util.WrapErrorf(err, "matrix task")
	}

	expanded, err := p.Matrix.expand(logger, mergeEnv(planEnv, templateEnv))
	if err != nil {
		return nil, err
	}
	return append(tasks, expanded...), nil
}

// Grid builds the parameter grid of the matrix
func (m *Matrix) Grid() *experiment.Grid {
	g := experiment.NewGrid()
	for _, param := range m.Params {
		values := make([]any, len(param.Values))
		for i, v := range param.Values {
			values[i] = v
		}
		g.Add(param.Name, values...)
	}
	return g
}

func (m *Matrix) expand(logger *slog.Logger, baseEnv map[string]string) ([]experiment.Task, error) {
	tmpl, err := compileTemplate(m.Task)
	if err != nil {
		return nil, err
	}

	configs := m.Grid().Configurations()
	defaultIDs := experiment.ConfigurationIDs(configs)
	tasks := make([]experiment.Task, 0, len(configs))
	for i, c := range configs {
		data := c.Map()

		spec, id, err := tmpl.render(data)
		if err != nil {
			return nil, util.WrapErrorf(err, "matrix configuration %s", c)
		}
		if id == "" {
			id = defaultIDs[i]
		}
		spec.Env = mergeEnv(baseEnv, spec.Env)

		meta := maps.Clone(data)
		meta["command"] = spec.String()

		tasks = append(tasks, experiment.Task{
			ID:       id,
			Work:     command.Work(spec, logger.With("task", id)),
			Metadata: meta,
		})
	}
	return tasks, nil
}

// taskTemplate holds the compiled fields of a TaskTemplate
type taskTemplate struct {
	id      *template.Template
	command *template.Template
	dir     *template.Template
	args    []*template.Template
	env     map[string]*template.Template
}

func compileTemplate(t TaskTemplate) (*taskTemplate, error) {
	parse := func(name, text string) (*template.Template, error) {
		tpl, err := template.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: matrix task %s: %v", util.ErrInvalidConfig, name, err)
		}
		return tpl, nil
	}

	var (
		tt  = &taskTemplate{env: make(map[string]*template.Template, len(t.Env))}
		err error
	)
	if tt.id, err = parse("id", t.ID); err != nil {
		return nil, err
	}
	if tt.command, err = parse("command", t.Command); err != nil {
		return nil, err
	}
	if tt.dir, err = parse("dir", t.Dir); err != nil {
		return nil, err
	}
	for i, a := range t.Args {
		tpl, err := parse(fmt.Sprintf("args[%d]", i), a)
		if err != nil {
			return nil, err
		}
		tt.args = append(tt.args, tpl)
	}
	for k, v := range t.Env {
		tpl, err := parse("env."+k, v)
		if err != nil {
			return nil, err
		}
		tt.env[k] = tpl
	}
	return tt, nil
}

func (tt *taskTemplate) render(data map[string]any) (command.Spec, string, error) {
	exec := func(tpl *template.Template) (string, error) {
		var sb strings.Builder
		if err := tpl.Execute(&sb, data); err != nil {
			return "", err
		}
		return sb.String(), nil
	}

	var spec command.Spec

	id, err := exec(tt.id)
	if err != nil {
		return spec, "", err
	}
	if spec.Command, err = exec(tt.command); err != nil {
		return spec, "", err
	}
	if spec.Dir, err = exec(tt.dir); err != nil {
		return spec, "", err
	}
	for _, tpl := range tt.args {
		a, err := exec(tpl)
		if err != nil {
			return spec, "", err
		}
		spec.Args = append(spec.Args, a)
	}
	if len(tt.env) > 0 {
		spec.Env = make(map[string]string, len(tt.env))
		for k, tpl := range tt.env {
			v, err := exec(tpl)
			if err != nil {
				return spec, "", err
			}
			spec.Env[k] = v
		}
	}
	return spec, id, nil
}
