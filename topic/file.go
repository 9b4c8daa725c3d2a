package topic

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/dsg/errors"
)

// registryFile is the on-disk layout of a topic registry:
//
//	[[service]]
//	name = "orders"
//
//	  [[service.pattern]]
//	  id = "t-1"
//	  name = "OrderCreated"
//	  direction = "receive"
type registryFile struct {
	Services []Service `toml:"service"`
}

// LoadFile reads a TOML topic registry. Unknown keys are rejected so a typo
// never silently drops a topic.
func LoadFile(path string) ([]Service, error) {
	var f registryFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode topic registry %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, errors.WithDetailf(
			errors.Newf("topic registry %s has unknown keys", path),
			"keys: %s", strings.Join(keys, ", "),
		)
	}

	for _, svc := range f.Services {
		for j, p := range svc.Patterns {
			if p.Direction == 0 {
				return nil, errors.Newf("service %q pattern %d (%s) has no direction", svc.Name, j, p.ID)
			}
		}
	}

	return f.Services, nil
}
