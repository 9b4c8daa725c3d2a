package synth

import (
	"fmt"
	"go/token"

	"github.com/dave/dst"

	"github.com/teranos/dsg/errors"
	"github.com/teranos/dsg/scaffold"
	"github.com/teranos/dsg/topic"
)

// Policy decides which topic patterns become members and what they look like
type Policy struct {
	// Direction selects the patterns to materialize; others are skipped
	Direction topic.Direction
	// Name derives the member name from a pattern
	Name func(topic.Pattern) string
	// Build describes the member for a pattern under its derived name
	Build func(p topic.Pattern, name string) Member
	// Receiver is the receiver variable name, e.g. "k"
	Receiver string
	// Pointer makes the receiver a pointer
	Pointer bool
}

// InboundName is "on" followed by the topic name, case preserved
func InboundName(p topic.Pattern) string {
	return "on" + p.Name
}

// InboundPolicy materializes one async handler per received topic:
//
//	// onOrderCreated handles messages received on the "OrderCreated" topic.
//	//
//	//ns:eventpattern("OrderCreated")
//	//ns:payload(message)
//	func (k *T) onOrderCreated(ctx context.Context, message any) error {
//		return nil
//	}
func InboundPolicy(namespace, receiver string) Policy {
	return Policy{
		Direction: topic.Receive,
		Name:      InboundName,
		Receiver:  receiver,
		Pointer:   true,
		Build: func(p topic.Pattern, name string) Member {
			return Member{
				Name:  name,
				Doc:   fmt.Sprintf("%s handles messages received on the %q topic.", name, p.Name),
				Async: true,
				Annotations: []Annotation{{
					Namespace: namespace,
					Name:      "EventPattern",
					Args:      []dst.Expr{StringLit(p.Name)},
				}},
				Params: []Param{{
					Name:        "message",
					Type:        Any(),
					Annotations: []Annotation{{Namespace: namespace, Name: "Payload"}},
				}},
			}
		},
	}
}

// Members synthesizes one member per selected pattern and appends them to
// target in (service, pattern) order. It returns the number appended.
//
// All patterns are validated before the first append: on error target is
// unchanged. A pattern with no name fails even if its direction would have
// skipped it.
func Members(services []topic.Service, target *scaffold.Declaration, policy Policy) (int, error) {
	if target.Kind() != scaffold.KindType {
		return 0, errors.Wrapf(scaffold.ErrNotExtensible, "cannot add members to %s %s", target.Kind(), target.Name())
	}

	taken := make(map[string]string)
	for _, existing := range target.Members() {
		taken[existing.Name.Name] = ""
	}
	for _, field := range target.Fields() {
		taken[field] = ""
	}

	type planned struct {
		pattern topic.Pattern
		name    string
	}
	var plan []planned

	for _, svc := range services {
		for _, p := range svc.Patterns {
			if p.Name == "" {
				return 0, errors.WithHint(
					&MissingTopicNameError{TopicID: p.ID, Service: svc.Name},
					"every topic in the registry needs a name",
				)
			}
			if p.Direction != policy.Direction {
				continue
			}

			name := policy.Name(p)
			if !token.IsIdentifier(name) {
				return 0, errors.WithHint(
					&InvalidMemberNameError{Name: name, TopicID: p.ID},
					"topic names must form a Go identifier when prefixed",
				)
			}
			if first, dup := taken[name]; dup {
				ids := []string{p.ID}
				if first != "" {
					ids = []string{first, p.ID}
				}
				return 0, &DuplicateMemberNameError{Name: name, TopicIDs: ids}
			}
			taken[name] = p.ID
			plan = append(plan, planned{pattern: p, name: name})
		}
	}

	if len(plan) == 0 {
		return 0, nil
	}

	recv := Receiver{Name: policy.Receiver, Type: target.Name(), Pointer: policy.Pointer}
	async := false
	for _, item := range plan {
		member := policy.Build(item.pattern, item.name)
		async = async || member.Async
		if err := target.AppendMember(Method(recv, member)); err != nil {
			return 0, errors.Wrapf(err, "failed to append member %s", item.name)
		}
	}
	if async {
		target.Template().EnsureImport("context", "")
	}

	return len(plan), nil
}
