package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Phase string

const (
	PhaseExtract  Phase = "extract"
	PhaseStatus   Phase = "status"
	PhaseCalendar Phase = "calendar"
	PhaseCustomer Phase = "customer"
	PhaseProduct  Phase = "product"
	PhaseFacts    Phase = "facts"
)

// DefaultPhases is the full run. Facts come last because they resolve against
// every dimension.
var DefaultPhases = []Phase{
	PhaseExtract,
	PhaseStatus,
	PhaseCalendar,
	PhaseCustomer,
	PhaseProduct,
	PhaseFacts,
}

func (p Phase) Valid() bool {
	switch p {
	case PhaseExtract, PhaseStatus, PhaseCalendar, PhaseCustomer, PhaseProduct, PhaseFacts:
		return true
	}
	return false
}

// ParsePhases validates a configured phase list. An empty list selects
// DefaultPhases. Duplicates are rejected and the result is always in
// DefaultPhases order, whatever order the names were given in.
func ParsePhases(names []string) ([]Phase, error) {
	if len(names) == 0 {
		return append([]Phase(nil), DefaultPhases...), nil
	}
	seen := make(map[Phase]struct{}, len(names))
	phases := make([]Phase, 0, len(names))
	for _, name := range names {
		phase := Phase(strings.ToLower(strings.TrimSpace(name)))
		if !phase.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
		}
		if _, ok := seen[phase]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePhase, name)
		}
		seen[phase] = struct{}{}
		phases = append(phases, phase)
	}
	return Ordered(phases), nil
}

func (p Phase) rank() int {
	return slices.Index(DefaultPhases, p)
}

// Ordered returns a copy of phases sorted into DefaultPhases order.
func Ordered(phases []Phase) []Phase {
	out := slices.Clone(phases)
	slices.SortStableFunc(out, func(a, b Phase) int {
		return a.rank() - b.rank()
	})
	return out
}
