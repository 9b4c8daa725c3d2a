package generator

import (
	"bytes"
	"path"
	"strconv"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/modules"
	"github.com/teranos/dsg/pipeline"
)

const composeFile = "docker-compose.dev.yml"

func (h *host) dockerCompose(dctx *pipeline.Context, params pipeline.DockerComposeParams, out *modules.Map) error {
	code, err := renderCompose(h.baseCompose(), params.UpdateProperties)
	if err != nil {
		return err
	}
	out.Set(modules.Module{Path: path.Join(dctx.Directories.Base, composeFile), Code: code})
	return nil
}

// baseCompose is the dev compose document of a service without plugins:
// the service itself, built from the base directory
func (h *host) baseCompose() map[string]any {
	port := strconv.Itoa(h.opts.Port)
	return map[string]any{
		"services": map[string]any{
			"server": map[string]any{
				"build":    ".",
				"ports":    []any{port + ":" + port},
				"env_file": []any{dotEnvFile},
			},
		},
	}
}

// renderCompose deep-merges each update over base in order. Later values
// win; maps merge key by key and lists are replaced.
func renderCompose(base map[string]any, updates []map[string]any) (string, error) {
	doc := base
	for i, u := range updates {
		if err := mergo.Merge(&doc, u, mergo.WithOverride); err != nil {
			return "", errors.Wrapf(err, "failed to merge docker-compose update %d", i)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", errors.Wrap(err, "failed to encode docker-compose file")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "failed to encode docker-compose file")
	}
	return buf.String(), nil
}
