package generator

import (
	"path"
	"strconv"
	"strings"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
)

const dotEnvFile = ".env"

func (h *host) dotEnv(dctx *pipeline.Context, params pipeline.DotEnvParams, out *modules.Map) error {
	code, err := renderDotEnv(params.EnvVariables)
	if err != nil {
		return err
	}
	out.Set(modules.Module{Path: path.Join(dctx.Directories.Base, dotEnvFile), Code: code})
	return nil
}

// renderDotEnv writes one KEY=value line per variable. A key set twice keeps
// its first position and its last value.
func renderDotEnv(vars []pipeline.EnvVar) (string, error) {
	var order []string
	values := make(map[string]string, len(vars))
	for _, v := range vars {
		if !validEnvKey(v.Key) {
			return "", errors.NewInvalidInputError("invalid environment variable name %q", v.Key)
		}
		if _, seen := values[v.Key]; !seen {
			order = append(order, v.Key)
		}
		values[v.Key] = v.Value
	}

	var b strings.Builder
	for _, key := range order {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(envValue(values[key]))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func validEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// envValue quotes values that a dotenv parser would otherwise split or cut
func envValue(v string) string {
	if strings.ContainsAny(v, " \t\n\"'#$\\") {
		return strconv.Quote(v)
	}
	return v
}
