package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix scanned by NewEnvLoader callers in this module.
const DefaultEnvPrefix = "VIMCORE_"

// EnvLoader maps prefixed environment variables onto configuration paths.
//
// Explicit mappings win; any other VIMCORE_NAME becomes options.name.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix: prefix,
		mapping: map[string]string{
			prefix + "LOG_LEVEL": "log.level",
			prefix + "LOG_FILE":  "log.file",
		},
		environ: os.Environ,
	}
}

// AddMapping routes envVar to a dotted config path.
func (l *EnvLoader) AddMapping(envVar, path string) {
	l.mapping[envVar] = path
}

// Load scans the environment.
func (l *EnvLoader) Load() (map[string]any, error) {
	cfg := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			path = "options." + strings.ToLower(strings.TrimPrefix(name, l.prefix))
		}
		setByPath(cfg, path, parseEnvValue(value))
	}
	return cfg, nil
}

func parseEnvValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}
