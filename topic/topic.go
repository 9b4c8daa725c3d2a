// Package topic models the message topics a generated service consumes and
// produces. Topics are grouped per logical service and their order is
// significant: it decides the order of generated handlers.
package topic

import (
	"strings"

	"github.com/teranos/dsg/errors"
)

// Direction tells whether a service receives or sends on a topic.
type Direction int

const (
	// Send marks an outbound topic
	Send Direction = iota + 1
	// Receive marks an inbound topic
	Receive
)

// String returns the lowercase direction name
func (d Direction) String() string {
	switch d {
	case Send:
		return "send"
	case Receive:
		return "receive"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "send" or "receive" in any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "send":
		return Send, nil
	case "receive":
		return Receive, nil
	default:
		return 0, errors.WithHint(
			errors.Newf("unknown topic direction %q", s),
			`use "send" or "receive"`,
		)
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	if d != Send && d != Receive {
		return nil, errors.Newf("cannot marshal topic direction %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Pattern binds a topic to a direction for one service.
// Name may be empty here; synthesis rejects it with the topic ID attached.
type Pattern struct {
	ID        string    `toml:"id"`
	Name      string    `toml:"name"`
	Direction Direction `toml:"direction"`
}

// Service is the ordered list of patterns of one logical service
type Service struct {
	Name     string    `toml:"name"`
	Patterns []Pattern `toml:"pattern"`
}

// Count returns how many patterns across services have the given direction
func Count(services []Service, d Direction) int {
	n := 0
	for _, svc := range services {
		for _, p := range svc.Patterns {
			if p.Direction == d {
				n++
			}
		}
	}
	return n
}

// Names returns the distinct non-empty topic names in first-seen order
func Names(services []Service) []string {
	seen := make(map[string]bool)
	var names []string
	for _, svc := range services {
		for _, p := range svc.Patterns {
			if p.Name == "" || seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	return names
}
