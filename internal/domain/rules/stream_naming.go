package rules

import (
	"fmt"
	"strings"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDStreamNameMirror flags exposed streams that do not mirror their subject.
const IDStreamNameMirror = "stream-name-mirror"

var subjectTypes = []string{"Subject", "BehaviorSubject", "ReplaySubject", "AsyncSubject"}

// StreamNameMirror requires a public readonly stream to be named after its
// backing subject with a trailing '$': _loading exposes loading$.
func StreamNameMirror() domain.Rule {
	return domain.Rule{
		ID:          IDStreamNameMirror,
		Description: "Name exposed streams after their backing subject with a trailing $",
		Rationale:   domain.RationaleConsistency,
		AppliesTo:   m.KindClassMember,
		Check:       checkStreamNameMirror,
	}
}

func checkStreamNameMirror(f m.Fragment) (*m.Violation, error) {
	n := f.Node
	if n == nil || n.Kind != m.NodeProperty || !n.Mods.Readonly || n.Mods.Static || !isPublic(n) {
		return nil, nil
	}

	subject, exposed := exposedSubject(n.Init)
	if !exposed && !isStreamType(n.Type) {
		return nil, nil
	}

	if subject == "" {
		if strings.HasSuffix(n.Name, "$") {
			return nil, nil
		}

		return domain.NewViolation(IDStreamNameMirror, f,
			fmt.Sprintf("stream %s should end with $ so readers can tell it is observable", n.Name),
			n.Name+"$",
		), nil
	}

	want := strings.TrimSuffix(strings.TrimLeft(subject, "_#"), "$") + "$"
	if n.Name == want {
		return nil, nil
	}

	return domain.NewViolation(IDStreamNameMirror, f,
		fmt.Sprintf("stream %s exposes %s; name it %s to mirror the subject", n.Name, subject, want),
		want,
	), nil
}

// exposedSubject recognises this.<subject>.asObservable() and returns the
// subject name. The boolean reports whether init is an asObservable call.
func exposedSubject(init *m.Node) (string, bool) {
	init = unwrapParens(init)
	if init == nil || init.Kind != m.NodeCall {
		return "", false
	}

	receiver, ok := strings.CutSuffix(init.Name, ".asObservable")
	if !ok {
		return "", false
	}

	receiver = strings.TrimSuffix(receiver, "?")

	subject, ok := strings.CutPrefix(receiver, "this.")
	if !ok || strings.ContainsAny(subject, ".()[]") {
		return "", true
	}

	return subject, true
}

func isStreamType(typ string) bool {
	typ = strings.TrimSpace(typ)

	return strings.HasPrefix(typ, "Observable<") || typ == "Observable"
}

// isSubject reports whether a property holds a notification source.
func isSubject(n *m.Node) bool {
	if init := unwrapParens(n.Init); init != nil && init.Kind == m.NodeNew {
		for _, s := range subjectTypes {
			if init.Name == s || strings.HasSuffix(init.Name, "."+s) {
				return true
			}
		}
	}

	typ := strings.TrimSpace(n.Type)
	for _, s := range subjectTypes {
		if typ == s || strings.HasPrefix(typ, s+"<") {
			return true
		}
	}

	return false
}
