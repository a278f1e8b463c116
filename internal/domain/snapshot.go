package domain

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the structural save format for a game. Scores are deliberately
// not part of it: closure results are recomputable from hands and the closer
// and are not restored on load.
type Snapshot struct {
	Players            []PlayerSnapshot `json:"players"`
	DrawPile           []CardSnapshot   `json:"draw_pile"`
	DiscardPile        []CardSnapshot   `json:"discard_pile"`
	MeldsOnTable       []MeldSnapshot   `json:"melds_on_table"`
	CurrentRound       int              `json:"current_round"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	IsGameClosed       bool             `json:"is_game_closed"`
}

type CardSnapshot struct {
	Suit    string `json:"suit"`
	Rank    string `json:"rank"`
	IsJoker bool   `json:"is_joker"`
}

type PlayerSnapshot struct {
	Name        string         `json:"name"`
	Hand        []CardSnapshot `json:"hand"`
	HasDeclared bool           `json:"has_declared"`
}

type MeldSnapshot struct {
	Type  string         `json:"type"`
	Cards []CardSnapshot `json:"cards"`
}

// Snapshot captures the structural state of the game.
func (g *GameState) Snapshot() Snapshot {
	snap := Snapshot{
		Players:            make([]PlayerSnapshot, 0, len(g.Players)),
		DrawPile:           cardsToSnapshot(g.Deck.DrawPile),
		DiscardPile:        cardsToSnapshot(g.Deck.DiscardPile),
		MeldsOnTable:       make([]MeldSnapshot, 0, len(g.Table)),
		CurrentRound:       g.CurrentRound,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		IsGameClosed:       g.IsClosed,
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Name:        p.Name,
			Hand:        cardsToSnapshot(p.Hand),
			HasDeclared: p.HasDeclared,
		})
	}
	for _, m := range g.Table {
		snap.MeldsOnTable = append(snap.MeldsOnTable, MeldSnapshot{
			Type:  m.Kind.String(),
			Cards: cardsToSnapshot(m.Cards),
		})
	}
	return snap
}

// RestoreGame rebuilds a game from a snapshot. Player scores start at zero;
// closure scores are not part of the format.
func RestoreGame(snap Snapshot) (*GameState, error) {
	g := &GameState{
		CurrentRound:       snap.CurrentRound,
		CurrentPlayerIndex: snap.CurrentPlayerIndex,
		IsClosed:           snap.IsGameClosed,
		Deck: &Deck{
			DrawPile:    cardsFromSnapshot(snap.DrawPile),
			DiscardPile: cardsFromSnapshot(snap.DiscardPile),
		},
	}
	for _, ps := range snap.Players {
		g.Players = append(g.Players, &Player{
			Name:        ps.Name,
			Hand:        cardsFromSnapshot(ps.Hand),
			HasDeclared: ps.HasDeclared,
		})
	}
	for _, ms := range snap.MeldsOnTable {
		kind, err := ParseMeldKind(ms.Type)
		if err != nil {
			return nil, err
		}
		g.Table = append(g.Table, Meld{Kind: kind, Cards: cardsFromSnapshot(ms.Cards)})
	}
	return g, nil
}

// MarshalSnapshot encodes a snapshot as JSON.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// UnmarshalSnapshot decodes a JSON snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func cardsToSnapshot(cards []Card) []CardSnapshot {
	out := make([]CardSnapshot, len(cards))
	for i, c := range cards {
		out[i] = CardSnapshot{Suit: c.Suit, Rank: c.Rank, IsJoker: c.IsJoker}
	}
	return out
}

func cardsFromSnapshot(cards []CardSnapshot) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = Card{Suit: c.Suit, Rank: c.Rank, IsJoker: c.IsJoker}
	}
	return out
}
