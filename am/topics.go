package am

import (
	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/topic"
)

// ServiceTopics returns the services of the topic registry file followed by
// the inline [[topics.service]] entries
func (c *Config) ServiceTopics() ([]topic.Service, error) {
	var services []topic.Service
	if file := c.TopicsFile(); file != "" {
		loaded, err := topic.LoadFile(file)
		if err != nil {
			return nil, err
		}
		services = append(services, loaded...)
	}

	for _, s := range c.Topics.Services {
		svc := topic.Service{Name: s.Name}
		for _, p := range s.Patterns {
			d, err := topic.ParseDirection(p.Direction)
			if err != nil {
				return nil, errors.Wrapf(err, "topics.service %q pattern %q", s.Name, p.ID)
			}
			svc.Patterns = append(svc.Patterns, topic.Pattern{ID: p.ID, Name: p.Name, Direction: d})
		}
		services = append(services, svc)
	}
	return services, nil
}
