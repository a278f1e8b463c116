package app

import "rummy/internal/domain"

// EventKind identifies emitted game events for adapter dispatch.
type EventKind string

const (
	EventGameStarted   EventKind = "game_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventCardDrawn     EventKind = "card_drawn"
	EventDiscardTaken  EventKind = "discard_taken"
	EventCardDiscarded EventKind = "card_discarded"
	EventMeldDeclared  EventKind = "meld_declared"
	EventMeldExtended  EventKind = "meld_extended"
	EventGameClosed    EventKind = "game_closed"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player names; empty means broadcast
}

type GameStartedPayload struct {
	PlayerNames []string
	StartIndex  int
	TopDiscard  domain.Card
}

type HandDealtPayload struct {
	Name string
	Hand []domain.Card
}

// CardDrawn is private to the drawing player; the table only learns that a
// draw happened through the pile counts.
type CardDrawnPayload struct {
	Name string
	Card domain.Card
}

type DiscardTakenPayload struct {
	Name string
	Card domain.Card
}

type CardDiscardedPayload struct {
	Name      string
	Card      domain.Card
	NextIndex int
	NewRound  bool
}

type MeldDeclaredPayload struct {
	Name  string
	Melds []domain.Meld
}

type MeldExtendedPayload struct {
	Name      string
	MeldIndex int
	Cards     []domain.Card
}

type GameClosedPayload struct {
	CloserName string
	Scores     map[string]int
}
