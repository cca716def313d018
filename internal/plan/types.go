package plan

// Plan is the file format describing an experiment of command tasks
type Plan struct {
	// Name is a label used in logs and output
	Name string `yaml:"name,omitempty" toml:"name"`

	// Parallel is the number of concurrent tasks (0 means use the configured default)
	Parallel int `yaml:"parallel,omitempty" toml:"parallel" validate:"gte=0"`

	// FailFast stops dispatching after the first failure
	FailFast bool `yaml:"failFast,omitempty" toml:"fail_fast"`

	// Timeout is an optional wall-clock limit such as "30s" or "5m"
	Timeout string `yaml:"timeout,omitempty" toml:"timeout" validate:"omitempty,duration"`

	// Tasks are run in the order listed, before any matrix tasks
	Tasks []TaskSpec `yaml:"tasks,omitempty" toml:"tasks" validate:"dive"`

	// Matrix expands a task template over every combination of its parameters
	Matrix *Matrix `yaml:"matrix,omitempty" toml:"matrix"`

	// EnvFile is a dotenv file whose variables every task inherits
	EnvFile string `yaml:"envFile,omitempty" toml:"env_file"`

	// baseDir resolves relative env files, the plan file's directory
	baseDir string
}

// TaskSpec is a single command task
type TaskSpec struct {
	ID      string            `yaml:"id" toml:"id" validate:"required"`
	Command string            `yaml:"command" toml:"command" validate:"required"`
	Args    []string          `yaml:"args,omitempty" toml:"args"`
	Env     map[string]string `yaml:"env,omitempty" toml:"env"`
	EnvFile string            `yaml:"envFile,omitempty" toml:"env_file"`
	Dir     string            `yaml:"dir,omitempty" toml:"dir"`
}

// Matrix is a parameter grid plus the task template run for each configuration
type Matrix struct {
	Params []MatrixParam `yaml:"params" toml:"params" validate:"required,min=1,dive"`
	Task   TaskTemplate  `yaml:"task" toml:"task"`
}

// MatrixParam is one named parameter and its values
type MatrixParam struct {
	Name   string   `yaml:"name" toml:"name" validate:"required"`
	Values []string `yaml:"values" toml:"values" validate:"required,min=1"`
}

// TaskTemplate is a TaskSpec whose fields are text/template strings over the
// parameter names, e.g. "{{.trial}}". An empty ID defaults to "name=value,...",
// prefixed with the configuration index when that string repeats.
type TaskTemplate struct {
	ID      string            `yaml:"id,omitempty" toml:"id"`
	Command string            `yaml:"command" toml:"command" validate:"required"`
	Args    []string          `yaml:"args,omitempty" toml:"args"`
	Env     map[string]string `yaml:"env,omitempty" toml:"env"`
	EnvFile string            `yaml:"envFile,omitempty" toml:"env_file"`
	Dir     string            `yaml:"dir,omitempty" toml:"dir"`
}
