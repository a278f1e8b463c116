package app

import (
	"errors"
	"math/rand"
	"time"

	"rummy/internal/config"
	"rummy/internal/domain"
)

// Service contains the rummy use-cases operating on domain state. All
// operations are synchronous and run inside one serializing point per game;
// only the current player may mutate state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrTooManyPlayers = errors.New("too many players to start")
	ErrDuplicateName  = errors.New("player name already taken")
	ErrNotPlayersTurn = errors.New("not this player's turn")
	ErrDeckExhausted  = errors.New("draw pile exhausted during deal")
)

// StartGame builds a fresh game for the named players: shuffled two-deck
// pool, a full hand dealt to each player in turn order, one card flipped to
// the discard pile and a random starting player.
func (s *Service) StartGame(playerNames []string) (*domain.GameState, []Event, error) {
	if len(playerNames) < MinPlayers {
		return nil, nil, ErrTooFewPlayers
	}
	if len(playerNames) > MaxPlayers {
		return nil, nil, ErrTooManyPlayers
	}
	seen := make(map[string]bool, len(playerNames))
	for _, name := range playerNames {
		if seen[name] {
			return nil, nil, ErrDuplicateName
		}
		seen[name] = true
	}

	game := domain.NewGameState()
	for _, name := range playerNames {
		if err := game.AddPlayer(&domain.Player{Name: name}); err != nil {
			return nil, nil, err
		}
	}
	game.Deck.Shuffle(s.rng)

	events := make([]Event, 0, len(playerNames)+1)
	cardsPerPlayer := config.GetCardsPerPlayer()
	for i := 0; i < cardsPerPlayer; i++ {
		for _, p := range game.Players {
			card, ok := game.Deck.Draw()
			if !ok {
				return nil, nil, ErrDeckExhausted
			}
			p.AddCard(card)
		}
	}
	for _, p := range game.Players {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Name: p.Name, Hand: p.Hand},
			Recipients: []string{p.Name},
		})
	}

	var topDiscard domain.Card
	if first, ok := game.Deck.Draw(); ok {
		game.Deck.Discard(first)
		topDiscard = first
	}
	game.CurrentPlayerIndex = s.rng.Intn(len(game.Players))

	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			PlayerNames: playerNames,
			StartIndex:  game.CurrentPlayerIndex,
			TopDiscard:  topDiscard,
		},
	})
	return game, events, nil
}

// DrawFromPile draws the top card of the draw pile into the current
// player's hand. An empty pile is an expected outcome: no events, no error.
func (s *Service) DrawFromPile(game *domain.GameState, playerName string) ([]Event, error) {
	player, err := s.currentPlayerNamed(game, playerName)
	if err != nil {
		return nil, err
	}

	card, ok := game.Deck.Draw()
	if !ok {
		return nil, nil
	}
	player.AddCard(card)
	return []Event{{
		Kind:       EventCardDrawn,
		Payload:    CardDrawnPayload{Name: playerName, Card: card},
		Recipients: []string{playerName},
	}}, nil
}

// TakeTopDiscard moves the top of the discard pile into the current
// player's hand. The taken card is public. An empty pile yields no events.
func (s *Service) TakeTopDiscard(game *domain.GameState, playerName string) ([]Event, error) {
	player, err := s.currentPlayerNamed(game, playerName)
	if err != nil {
		return nil, err
	}

	card, ok := game.Deck.TakeTopDiscard()
	if !ok {
		return nil, nil
	}
	player.AddCard(card)
	return []Event{{
		Kind:    EventDiscardTaken,
		Payload: DiscardTakenPayload{Name: playerName, Card: card},
	}}, nil
}

// DiscardCard moves a card from the current player's hand onto the discard
// pile and ends the turn. A card the hand does not hold is an error.
func (s *Service) DiscardCard(game *domain.GameState, playerName string, card domain.Card) ([]Event, error) {
	player, err := s.currentPlayerNamed(game, playerName)
	if err != nil {
		return nil, err
	}
	if err := player.RemoveCard(card); err != nil {
		return nil, err
	}
	game.Deck.Discard(card)

	roundBefore := game.CurrentRound
	game.NextTurn()
	return []Event{{
		Kind: EventCardDiscarded,
		Payload: CardDiscardedPayload{
			Name:      playerName,
			Card:      card,
			NextIndex: game.CurrentPlayerIndex,
			NewRound:  game.CurrentRound != roundBefore,
		},
	}}, nil
}

// Declare gates and commits the current player's initial declaration.
// Rejections come back as accepted=false with no events and no effect.
func (s *Service) Declare(game *domain.GameState, playerName string, melds []domain.Meld) (bool, []Event, error) {
	if _, err := s.currentPlayerNamed(game, playerName); err != nil {
		return false, nil, err
	}

	accepted, err := game.ValidateAndProcessDeclaration(playerName, melds)
	if err != nil || !accepted {
		return false, nil, err
	}
	return true, []Event{{
		Kind:    EventMeldDeclared,
		Payload: MeldDeclaredPayload{Name: playerName, Melds: melds},
	}}, nil
}

// ExtendMeld commits a validated extension of a table meld.
func (s *Service) ExtendMeld(game *domain.GameState, playerName string, meldIndex int, cards []domain.Card) (bool, []Event, error) {
	if _, err := s.currentPlayerNamed(game, playerName); err != nil {
		return false, nil, err
	}

	accepted, err := game.ExtendMeld(playerName, meldIndex, cards)
	if err != nil || !accepted {
		return false, nil, err
	}
	return true, []Event{{
		Kind:    EventMeldExtended,
		Payload: MeldExtendedPayload{Name: playerName, MeldIndex: meldIndex, Cards: cards},
	}}, nil
}

// CloseGame ends the game for a declared player holding at most one card.
// A final held card goes out face-down onto the discard pile before the
// terminal closure and scoring.
func (s *Service) CloseGame(game *domain.GameState, playerName string) (bool, []Event, error) {
	player, err := s.currentPlayerNamed(game, playerName)
	if err != nil {
		return false, nil, err
	}
	if !game.CanPlayerClose(player) {
		return false, nil, nil
	}

	if player.HandSize() == 1 {
		final := player.Hand[0]
		if err := player.RemoveCard(final); err != nil {
			return false, nil, err
		}
		game.Deck.Discard(final)
	}

	accepted, err := game.CloseGame(playerName)
	if err != nil || !accepted {
		return false, nil, err
	}
	return true, []Event{{
		Kind:    EventGameClosed,
		Payload: GameClosedPayload{CloserName: playerName, Scores: game.Scores},
	}}, nil
}

func (s *Service) currentPlayerNamed(game *domain.GameState, playerName string) (*domain.Player, error) {
	if game.IsClosed {
		return nil, domain.ErrGameClosed
	}
	player, err := game.FindPlayer(playerName)
	if err != nil {
		return nil, err
	}
	if current := game.CurrentPlayer(); current == nil || current.Name != playerName {
		return nil, ErrNotPlayersTurn
	}
	return player, nil
}
