package domain

import "fmt"

// MeldKind is a closed two-variant kind tag. Switches over it are
// exhaustive; there is no unknown-kind fallback.
type MeldKind int

const (
	MeldSet MeldKind = iota
	MeldSequence
)

func (k MeldKind) String() string {
	if k == MeldSet {
		return "set"
	}
	return "sequence"
}

// ParseMeldKind maps the external "set"/"sequence" tag back to a MeldKind.
// Snapshots and wire payloads both use this mapping.
func ParseMeldKind(s string) (MeldKind, error) {
	switch s {
	case "set":
		return MeldSet, nil
	case "sequence":
		return MeldSequence, nil
	}
	return 0, fmt.Errorf("unknown meld type %q", s)
}

// Meld is a played group of cards on the table. Once declared it is shared,
// owned by no single player, and append-only: cards are added through
// validated extension and never removed.
type Meld struct {
	Kind  MeldKind
	Cards []Card
}

// MeldPoints returns the declaration point total of a meld.
func MeldPoints(m Meld) int {
	points := 0
	for _, c := range m.Cards {
		points += CardPoints(c)
	}
	return points
}
