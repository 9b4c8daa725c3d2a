package synth

import (
	"fmt"
	"strings"
)

// MissingTopicNameError is returned when a topic pattern has no name.
// It aborts synthesis of the whole artifact.
type MissingTopicNameError struct {
	TopicID string
	Service string
}

func (e *MissingTopicNameError) Error() string {
	return fmt.Sprintf("topic name not found for topic id %s", e.TopicID)
}

// InvalidMemberNameError is returned when a derived member name is not a
// valid Go identifier.
type InvalidMemberNameError struct {
	Name    string
	TopicID string
}

func (e *InvalidMemberNameError) Error() string {
	return fmt.Sprintf("member name %q derived from topic %s is not a valid identifier", e.Name, e.TopicID)
}

// DuplicateMemberNameError is returned when two topics, or a topic and an
// existing method, produce the same member name.
type DuplicateMemberNameError struct {
	Name     string
	TopicIDs []string
}

func (e *DuplicateMemberNameError) Error() string {
	if len(e.TopicIDs) == 0 {
		return fmt.Sprintf("duplicate member name %q", e.Name)
	}
	return fmt.Sprintf("duplicate member name %q (topics %s)", e.Name, strings.Join(e.TopicIDs, ", "))
}
