package plan

import (
	"fmt"
	"path/filepath"

	"github.com/aryankumar/sweep/internal/util"
	"github.com/joho/godotenv"
)

// readEnvFile reads a dotenv file, relative paths resolving against the
// plan's directory. An empty path yields no variables.
func (p *Plan) readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) && p.baseDir != "" {
		path = filepath.Join(p.baseDir, path)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: env file %s: %v", util.ErrInvalidConfig, path, err)
	}
	return env, nil
}

// mergeEnv layers variable sets, later layers winning. Nil when all are empty.
func mergeEnv(layers ...map[string]string) map[string]string {
	var out map[string]string
	for _, layer := range layers {
		for k, v := range layer {
			if out == nil {
				out = make(map[string]string)
			}
			out[k] = v
		}
	}
	return out
}
