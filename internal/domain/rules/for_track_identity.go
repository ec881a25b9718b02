package rules

import (
	"fmt"

	"github.com/mouse-blink/ngstyle/internal/domain"
	m "github.com/mouse-blink/ngstyle/internal/model"
)

// IDForTrackIdentity flags @for blocks without a per-item tracking key.
const IDForTrackIdentity = "for-track-identity"

// ForTrackIdentity requires @for blocks to track a stable per-element key.
// Tracking the element itself is accepted only for primitive items, that is
// when the body reads no field of the item.
func ForTrackIdentity() domain.Rule {
	return domain.Rule{
		ID:          IDForTrackIdentity,
		Description: "Track @for items by a stable unique field such as an id",
		Rationale:   domain.RationalePerformance,
		AppliesTo:   m.KindTemplateControlFlow,
		Check:       checkForTrackIdentity,
	}
}

func checkForTrackIdentity(f m.Fragment) (*m.Violation, error) {
	loop := f.Loop
	if loop == nil {
		return nil, nil
	}

	objectItems := len(loop.ItemFields) > 0

	suggested := loop.Item
	if objectItems {
		suggested = loop.Item + ".id"
	}

	switch {
	case loop.Track == "":
		return domain.NewViolation(IDForTrackIdentity, f,
			fmt.Sprintf("@for over %s has no track expression; every item needs a stable identity so the DOM is not rebuilt", loop.Collection),
			"track "+suggested,
		), nil

	case tracksCollection(loop):
		return domain.NewViolation(IDForTrackIdentity, f,
			fmt.Sprintf("track %s names the whole collection; track a per-item identity instead", loop.Track),
			"track "+suggested,
		), nil

	case loop.Track == loop.Item && objectItems:
		return domain.NewViolation(IDForTrackIdentity, f,
			fmt.Sprintf("track %s uses object identity; track a stable unique field so re-fetched items keep their DOM", loop.Track),
			"track "+suggested,
		), nil
	}

	return nil, nil
}

func tracksCollection(loop *m.LoopHeader) bool {
	if loop.Track == loop.Collection {
		return true
	}

	trackRoot := domain.RootIdent(loop.Track)

	return trackRoot != "" && trackRoot != loop.Item && trackRoot == domain.RootIdent(loop.Collection)
}
