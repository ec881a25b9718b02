package rules

import (
	"fmt"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDMemberOrdering flags class fields declared out of order.
const IDMemberOrdering = "member-ordering"

type memberGroup int

const (
	groupUnranked memberGroup = iota - 1
	groupPrivateSubject
	groupPublicStream
	groupPublicField
	groupProtectedField
	groupPrivateField
)

var groupNames = map[memberGroup]string{
	groupPrivateSubject: "private subjects",
	groupPublicStream:   "public streams",
	groupPublicField:    "public fields",
	groupProtectedField: "protected fields",
	groupPrivateField:   "private fields",
}

// MemberOrdering requires instance fields in the order: private subjects,
// public streams, public fields, protected fields, private fields. Methods
// and static members are not ranked. Only the first misplaced field of a
// class is reported.
func MemberOrdering() domain.Rule {
	return domain.Rule{
		ID:          IDMemberOrdering,
		Description: "Order fields: private subjects, public streams, public, protected, then private fields",
		Rationale:   domain.RationaleConsistency,
		AppliesTo:   m.KindClassMember,
		Check:       checkMemberOrdering,
	}
}

func checkMemberOrdering(f m.Fragment) (*m.Violation, error) {
	members := f.Scope.Members
	if f.Node == nil || f.Scope.Index >= len(members) || members[f.Scope.Index] != f.Node {
		return nil, nil
	}

	highest := groupUnranked

	var after *m.Node

	for i, member := range members {
		group := groupOf(member)
		if group == groupUnranked {
			continue
		}

		if group < highest {
			if i != f.Scope.Index {
				return nil, nil
			}

			return domain.NewViolation(IDMemberOrdering, f,
				fmt.Sprintf("%s %s is declared after %s; %s come before %s",
					groupNames[group], member.Name, after.Name, groupNames[group], groupNames[highest]),
				fmt.Sprintf("move %s above %s", member.Name, after.Name),
			), nil
		}

		if group > highest {
			highest = group
			after = member
		}

		if i == f.Scope.Index {
			return nil, nil
		}
	}

	return nil, nil
}

func groupOf(n *m.Node) memberGroup {
	if n.Kind != m.NodeProperty || n.Mods.Static {
		return groupUnranked
	}

	switch n.Mods.Access {
	case m.AccessPrivate:
		if isSubject(n) {
			return groupPrivateSubject
		}

		return groupPrivateField
	case m.AccessProtected:
		return groupProtectedField
	}

	if _, ok := exposedSubject(n.Init); ok || isStreamType(n.Type) {
		return groupPublicStream
	}

	return groupPublicField
}
