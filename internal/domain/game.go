package domain

import "errors"

var (
	// ErrPlayerNotFound reports a player name that is not in the game.
	// Referencing an unknown player is a violated precondition, not a
	// normal rejected move, so it surfaces as an error.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrCardNotInHand reports removal of a card the hand does not hold.
	ErrCardNotInHand = errors.New("card not in hand")
	// ErrGameClosed reports a state-changing call after closure.
	ErrGameClosed = errors.New("game already closed")
)

// Player holds one participant's name, private hand, declaration status and
// score accumulated across rounds.
type Player struct {
	Name        string
	Hand        []Card
	HasDeclared bool
	Score       int
}

// AddCard appends a card to the player's hand.
func (p *Player) AddCard(card Card) {
	p.Hand = append(p.Hand, card)
}

// RemoveCard removes one occurrence of the card by value. A card the hand
// does not hold is ErrCardNotInHand.
func (p *Player) RemoveCard(card Card) error {
	updated, ok := RemoveCards(p.Hand, []Card{card})
	if !ok {
		return ErrCardNotInHand
	}
	p.Hand = updated
	return nil
}

// Declare latches the declaration flag. It transitions false to true exactly
// once and never reverts.
func (p *Player) Declare() {
	p.HasDeclared = true
}

// HandSize returns the number of cards in the hand.
func (p *Player) HandSize() int {
	return len(p.Hand)
}

// GameState owns the players ring, the deck, the shared table and the turn
// pointer. It sequences declaration, extension and closure, each validated
// to completion before any mutation begins.
type GameState struct {
	Players            []*Player
	CurrentPlayerIndex int
	CurrentRound       int
	Deck               *Deck
	Table              []Meld
	IsClosed           bool
	CloserName         string
	Scores             map[string]int
}

// NewGameState returns an open game in round 1 with a fresh unshuffled deck.
func NewGameState() *GameState {
	return &GameState{
		CurrentRound: 1,
		Deck:         NewDeck(),
	}
}

// AddPlayer appends a player to the turn ring. Closed games reject it.
func (g *GameState) AddPlayer(p *Player) error {
	if g.IsClosed {
		return ErrGameClosed
	}
	g.Players = append(g.Players, p)
	return nil
}

// RemovePlayer drops the named player and renormalizes the turn pointer:
// clamped back to 0 when it would run past the shrunk ring, decremented when
// the removed seat sat before it.
func (g *GameState) RemovePlayer(name string) error {
	if g.IsClosed {
		return ErrGameClosed
	}
	for i, p := range g.Players {
		if p.Name != name {
			continue
		}
		g.Players = append(g.Players[:i], g.Players[i+1:]...)
		if g.CurrentPlayerIndex >= len(g.Players) && len(g.Players) > 0 {
			g.CurrentPlayerIndex = 0
		} else if g.CurrentPlayerIndex > i {
			g.CurrentPlayerIndex--
		}
		return nil
	}
	return ErrPlayerNotFound
}

// FindPlayer returns the named player or ErrPlayerNotFound.
func (g *GameState) FindPlayer(name string) (*Player, error) {
	for _, p := range g.Players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

// NextTurn advances the turn pointer. Wrapping past the last player resets
// it to 0 and increments the round. No-op with no players or after closure.
func (g *GameState) NextTurn() {
	if g.IsClosed || len(g.Players) == 0 {
		return
	}
	g.CurrentPlayerIndex++
	if g.CurrentPlayerIndex >= len(g.Players) {
		g.CurrentPlayerIndex = 0
		g.CurrentRound++
	}
}

// CurrentPlayer returns the player whose turn it is, or nil with no players.
func (g *GameState) CurrentPlayer() *Player {
	if len(g.Players) == 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// AddMeldToTable appends a meld to the shared table. Table melds are never
// removed.
func (g *GameState) AddMeldToTable(m Meld) {
	g.Table = append(g.Table, m)
}

// ValidateAndProcessDeclaration gates a player's initial declaration. An
// unknown name is an error; an already-declared player or an invalid
// declaration is a plain rejection with no effect. On success the
// declaration commits as one unit: flag latched, cards removed from the
// hand, melds appended to the table.
func (g *GameState) ValidateAndProcessDeclaration(name string, melds []Meld) (bool, error) {
	if g.IsClosed {
		return false, ErrGameClosed
	}
	player, err := g.FindPlayer(name)
	if err != nil {
		return false, err
	}
	if player.HasDeclared {
		return false, nil
	}
	if !ValidateInitialDeclaration(player.Hand, melds) {
		return false, nil
	}

	player.Declare()
	for _, m := range melds {
		updated, ok := RemoveCards(player.Hand, m.Cards)
		if !ok {
			// Unreachable: availability was checked against the same hand.
			return false, ErrCardNotInHand
		}
		player.Hand = updated
	}
	for _, m := range melds {
		g.AddMeldToTable(m)
	}
	return true, nil
}

// ExtendMeld validates an extension of a table meld and commits it: cards
// leave the player's hand and append to the meld. Rejections and errors
// leave everything untouched.
func (g *GameState) ExtendMeld(name string, meldIndex int, added []Card) (bool, error) {
	if g.IsClosed {
		return false, ErrGameClosed
	}
	player, err := g.FindPlayer(name)
	if err != nil {
		return false, err
	}
	if meldIndex < 0 || meldIndex >= len(g.Table) {
		return false, nil
	}
	if !ValidateExtension(g.Table[meldIndex], added) {
		return false, nil
	}
	updated, ok := RemoveCards(player.Hand, added)
	if !ok {
		return false, nil
	}

	player.Hand = updated
	g.Table[meldIndex].Cards = append(g.Table[meldIndex].Cards, added...)
	return true, nil
}

// CanPlayerClose reports whether offering the close action makes sense: the
// player has declared and holds at most one card, the final one going out
// face-down on close.
func (g *GameState) CanPlayerClose(p *Player) bool {
	return p.HasDeclared && p.HandSize() <= 1
}

// CloseGame ends the game. An unknown name is an error; a non-empty hand is
// a plain rejection. On success the game becomes terminally closed, the
// closer is recorded, closure scores are computed and accumulated onto each
// player's running score.
func (g *GameState) CloseGame(name string) (bool, error) {
	if g.IsClosed {
		return false, ErrGameClosed
	}
	player, err := g.FindPlayer(name)
	if err != nil {
		return false, err
	}
	if player.HandSize() != 0 {
		return false, nil
	}

	g.IsClosed = true
	g.CloserName = name
	g.Scores = CalculateScores(g.Players, name)
	for _, p := range g.Players {
		p.Score += g.Scores[p.Name]
	}
	return true, nil
}
